package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Build-time variables injected via -ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// Config holds all monitor configuration loaded from environment variables.
type Config struct {
	// ListenAddr is the address the exposition endpoint binds to.
	ListenAddr string

	// EndpointPath is the fixed path the snapshot is exposed under.
	EndpointPath string

	// ProcRoot is the root of the process table (normally /proc).
	ProcRoot string

	// PageSize is the memory page size in bytes used for page and KB/MB
	// conversions. Defaults to the page size reported by the host.
	PageSize int

	// Debug enables verbose logging.
	Debug bool
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:   "127.0.0.1:9173",
		EndpointPath: "/kernel_monitor",
		ProcRoot:     "/proc",
		PageSize:     os.Getpagesize(),
	}
}

// Load reads configuration from environment variables, applying defaults
// for anything not explicitly set. A .env file in the working directory
// is honored when present. Returns an error for malformed values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if v := os.Getenv("KMON_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}

	if v := os.Getenv("KMON_PROC_ROOT"); v != "" {
		cfg.ProcRoot = v
	}

	if v := os.Getenv("KMON_PAGE_SIZE"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size <= 0 {
			return nil, fmt.Errorf("KMON_PAGE_SIZE must be a positive integer, got %q", v)
		}
		cfg.PageSize = size
	}

	cfg.Debug = os.Getenv("KMON_DEBUG") == "true"

	return cfg, nil
}

// EndpointURL returns the URL the client fetches snapshots from,
// honoring the KMON_ENDPOINT_URL override.
func EndpointURL() string {
	_ = godotenv.Load()

	if v := os.Getenv("KMON_ENDPOINT_URL"); v != "" {
		return v
	}
	cfg := DefaultConfig()
	return "http://" + cfg.ListenAddr + cfg.EndpointPath
}

// NewLogger creates a structured logger writing to stderr.
func NewLogger(cfg *Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
