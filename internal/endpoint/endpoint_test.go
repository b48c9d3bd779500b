package endpoint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmonproject/kmon/internal/config"
)

type countingGenerator struct {
	calls          int
	failAfterProbe bool
}

func (g *countingGenerator) Generate(ctx context.Context) (string, error) {
	g.calls++
	if g.failAfterProbe && g.calls > 1 {
		return "", errors.New("platform facility went away")
	}
	return fmt.Sprintf("snapshot %d\n", g.calls), nil
}

type failingGenerator struct{}

func (failingGenerator) Generate(ctx context.Context) (string, error) {
	return "", errors.New("platform facility unavailable")
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.ListenAddr = "127.0.0.1:0"
	return cfg
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func register(t *testing.T, gen Generator) {
	t.Helper()
	require.NoError(t, Register(testConfig(), gen, testLogger()))
	t.Cleanup(func() {
		require.NoError(t, Deregister(context.Background()))
	})
}

func fetch(t *testing.T) (int, string) {
	t.Helper()
	resp, err := http.Get("http://" + Addr() + "/kernel_monitor")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestEachReadRegeneratesSnapshot(t *testing.T) {
	gen := &countingGenerator{}
	register(t, gen)

	// The probe at registration consumed the first generation.
	status, body := fetch(t)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "snapshot 2\n", body)

	status, body = fetch(t)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "snapshot 3\n", body)
}

func TestSnapshotServedAsPlainText(t *testing.T) {
	register(t, &countingGenerator{})

	resp, err := http.Get("http://" + Addr() + "/kernel_monitor")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestRegisterFailsWhenProbeFails(t *testing.T) {
	err := Register(testConfig(), failingGenerator{}, testLogger())
	require.Error(t, err)

	// A failed registration must leave nothing exposed.
	assert.Empty(t, Addr())
	assert.NoError(t, Deregister(context.Background()))
}

func TestDoubleRegisterRejected(t *testing.T) {
	register(t, &countingGenerator{})

	err := Register(testConfig(), &countingGenerator{}, testLogger())
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestDeregisterIsIdempotent(t *testing.T) {
	require.NoError(t, Register(testConfig(), &countingGenerator{}, testLogger()))

	ctx := context.Background()
	assert.NoError(t, Deregister(ctx))
	assert.NoError(t, Deregister(ctx))
	assert.NoError(t, Deregister(ctx))
}

func TestGenerationFailureAfterRegistration(t *testing.T) {
	gen := &countingGenerator{}
	register(t, gen)
	gen.failAfterProbe = true

	status, body := fetch(t)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Contains(t, body, "snapshot generation failed")
}
