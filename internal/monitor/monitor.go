package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kmonproject/kmon/internal/config"
	"github.com/kmonproject/kmon/internal/endpoint"
	"github.com/kmonproject/kmon/internal/snapshot"
)

// Service is the provider daemon: it owns the snapshot collector and
// the exposition endpoint lifecycle.
type Service struct {
	cfg       *config.Config
	logger    *slog.Logger
	collector *snapshot.Collector
}

// New wires the daemon subsystems.
func New(cfg *config.Config, logger *slog.Logger) *Service {
	return &Service{
		cfg:       cfg,
		logger:    logger,
		collector: snapshot.NewCollector(cfg.ProcRoot, cfg.PageSize),
	}
}

// Run registers the exposition endpoint, blocks until the context is
// cancelled, and deregisters. A registration failure is structural: the
// service does not come up and nothing is exposed.
func (s *Service) Run(ctx context.Context) error {
	if err := endpoint.Register(s.cfg, s.collector, s.logger); err != nil {
		return fmt.Errorf("register endpoint: %w", err)
	}

	s.logger.Info("monitor loaded",
		"path", s.cfg.EndpointPath,
		"page_size", s.cfg.PageSize,
	)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := endpoint.Deregister(shutdownCtx); err != nil {
		return fmt.Errorf("deregister endpoint: %w", err)
	}

	s.logger.Info("monitor unloaded")
	return nil
}
