package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) (options, int, bool, string, string) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	opts, code, done := parseOptions(args, out, errOut)
	return opts, code, done, out.String(), errOut.String()
}

func TestParseHelp(t *testing.T) {
	for _, flag := range []string{"-h", "--help"} {
		_, code, done, out, _ := parse(t, flag)
		assert.Equal(t, 0, code)
		assert.True(t, done)
		assert.Contains(t, out, "Usage: kmonctl")
	}
}

func TestParseVersion(t *testing.T) {
	for _, flag := range []string{"-v", "--version"} {
		_, code, done, out, _ := parse(t, flag)
		assert.Equal(t, 0, code)
		assert.True(t, done)
		assert.Contains(t, out, "Kernel Monitor Application v1.0.0")
	}
}

func TestParseRaw(t *testing.T) {
	opts, code, done, _, _ := parse(t, "-r")
	assert.Equal(t, 0, code)
	assert.False(t, done)
	assert.True(t, opts.raw)
}

func TestParseWatch(t *testing.T) {
	opts, code, done, _, _ := parse(t, "-w", "2")
	assert.Equal(t, 0, code)
	assert.False(t, done)
	assert.Equal(t, 2, opts.interval)

	opts, code, done, _, _ = parse(t, "--watch", "10")
	assert.Equal(t, 0, code)
	assert.False(t, done)
	assert.Equal(t, 10, opts.interval)
}

func TestParseInvalidWatchInterval(t *testing.T) {
	for _, interval := range []string{"0", "-1", "abc"} {
		_, code, done, _, errOut := parse(t, "-w", interval)
		assert.Equal(t, 1, code, "interval %q", interval)
		assert.True(t, done)
		assert.Contains(t, errOut, "Usage: kmonctl")
		assert.Contains(t, errOut, "Invalid watch interval")
	}
}

func TestParseUnknownOption(t *testing.T) {
	_, code, done, _, errOut := parse(t, "-x")
	assert.Equal(t, 1, code)
	assert.True(t, done)
	assert.Contains(t, errOut, "Usage: kmonctl")
}

func TestParseMissingWatchValue(t *testing.T) {
	_, code, done, _, errOut := parse(t, "-w")
	assert.Equal(t, 1, code)
	assert.True(t, done)
	assert.Contains(t, errOut, "Usage: kmonctl")
}

func TestRunValidationFailureFetchesNothing(t *testing.T) {
	var fetched bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetched = true
	}))
	t.Cleanup(srv.Close)
	t.Setenv("KMON_ENDPOINT_URL", srv.URL)

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	code := run([]string{"-w", "abc"}, out, errOut)

	assert.Equal(t, 1, code)
	assert.False(t, fetched, "no fetch attempted on validation failure")
	assert.Empty(t, out.String())
}

func TestRunOneShotAgainstEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "Total Processes: 0\n")
	}))
	t.Cleanup(srv.Close)
	t.Setenv("KMON_ENDPOINT_URL", srv.URL)

	out := &bytes.Buffer{}
	code := run([]string{"-r"}, out, io.Discard)

	require.Equal(t, 0, code)
	assert.Equal(t, "Total Processes: 0\n", out.String())
}

func TestRunOneShotFailureStillExitsZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()
	t.Setenv("KMON_ENDPOINT_URL", url)

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	code := run([]string{"-r"}, out, errOut)

	assert.Equal(t, 0, code)
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "Error: failed to read")
}
