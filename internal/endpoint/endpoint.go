package endpoint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kmonproject/kmon/internal/config"
)

// Generator produces one complete formatted snapshot per call.
type Generator interface {
	Generate(ctx context.Context) (string, error)
}

// ErrAlreadyRegistered is returned when Register is called while an
// endpoint is still active.
var ErrAlreadyRegistered = errors.New("exposition endpoint already registered")

// Endpoint serves the read-only snapshot exposition. There is at most
// one per process, with an explicit register/deregister lifecycle bound
// to service start and stop.
type Endpoint struct {
	srv    *http.Server
	ln     net.Listener
	gen    Generator
	logger *slog.Logger
}

var (
	mu     sync.Mutex
	active *Endpoint
)

// Register creates the exposition endpoint and starts serving it. The
// snapshot is world-readable: no authentication, GET only. A provider
// that cannot produce a snapshot must fail here at registration time,
// not on the first read, so Register generates one probe snapshot
// before binding the listener.
func Register(cfg *config.Config, gen Generator, logger *slog.Logger) error {
	mu.Lock()
	defer mu.Unlock()

	if active != nil {
		return ErrAlreadyRegistered
	}

	probeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := gen.Generate(probeCtx); err != nil {
		return fmt.Errorf("probe snapshot: %w", err)
	}

	ln, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", cfg.ListenAddr, err)
	}

	e := &Endpoint{ln: ln, gen: gen, logger: logger}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(requestLogger(logger))
	router.GET(cfg.EndpointPath, e.handleSnapshot)

	e.srv = &http.Server{
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := e.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("endpoint server stopped", "err", err)
		}
	}()

	active = e
	logger.Info("exposition endpoint registered",
		"addr", ln.Addr().String(),
		"path", cfg.EndpointPath,
	)
	return nil
}

// Addr returns the bound address of the active endpoint, or an empty
// string when nothing is registered.
func Addr() string {
	mu.Lock()
	defer mu.Unlock()
	if active == nil {
		return ""
	}
	return active.ln.Addr().String()
}

// Deregister tears the endpoint down. It is idempotent and safe to call
// even when registration never succeeded.
func Deregister(ctx context.Context) error {
	mu.Lock()
	e := active
	active = nil
	mu.Unlock()

	if e == nil {
		return nil
	}

	if err := e.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown endpoint: %w", err)
	}
	e.logger.Info("exposition endpoint deregistered")
	return nil
}

// handleSnapshot serves one read of the exposition endpoint. Every
// request regenerates the snapshot; nothing is cached between reads,
// and the whole text is returned in a single response.
func (e *Endpoint) handleSnapshot(c *gin.Context) {
	text, err := e.gen.Generate(c.Request.Context())
	if err != nil {
		e.logger.Error("snapshot generation failed",
			"request_id", c.GetString(requestIDKey),
			"err", err,
		)
		c.String(http.StatusInternalServerError, "snapshot generation failed: %v\n", err)
		return
	}
	c.String(http.StatusOK, "%s", text)
}
