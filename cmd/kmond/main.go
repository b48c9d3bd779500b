package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kmonproject/kmon/internal/config"
	"github.com/kmonproject/kmon/internal/monitor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger := config.NewLogger(cfg)

	logger.Info("starting kmond",
		"version", config.Version,
		"build_time", config.BuildTime,
		"listen", cfg.ListenAddr,
	)

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM,
	)
	defer cancel()

	svc := monitor.New(cfg, logger)
	if err := svc.Run(ctx); err != nil {
		logger.Error("monitor exited with error", "err", err)
		os.Exit(1)
	}

	logger.Info("kmond stopped cleanly")
}
