package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/kmonproject/kmon/internal/client"
	"github.com/kmonproject/kmon/internal/config"
)

const appVersion = "1.0.0"

type options struct {
	help     bool
	version  bool
	raw      bool
	interval int
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out, errOut io.Writer) int {
	opts, code, done := parseOptions(args, out, errOut)
	if done {
		return code
	}

	logger := slog.New(slog.NewTextHandler(errOut, nil))
	c := client.New(config.EndpointURL(), out, errOut, logger)

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM,
	)
	defer cancel()

	if opts.interval > 0 {
		if err := c.Watch(ctx, opts.interval); err != nil {
			fmt.Fprintf(errOut, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	// One-shot mode: a failed fetch has already printed its diagnostic
	// and the program still returns cleanly.
	_ = c.FetchOnce(ctx, !opts.raw)
	return 0
}

// parseOptions parses CLI arguments. The third return value reports
// that the caller should exit with the given code without fetching
// (help, version, or a validation failure).
func parseOptions(args []string, out, errOut io.Writer) (options, int, bool) {
	var opts options
	var watchArg string

	fs := flag.NewFlagSet("kmonctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.BoolVar(&opts.help, "h", false, "display help")
	fs.BoolVar(&opts.help, "help", false, "display help")
	fs.BoolVar(&opts.version, "v", false, "display version")
	fs.BoolVar(&opts.version, "version", false, "display version")
	fs.BoolVar(&opts.raw, "r", false, "raw output")
	fs.BoolVar(&opts.raw, "raw", false, "raw output")
	fs.StringVar(&watchArg, "w", "", "watch interval in seconds")
	fs.StringVar(&watchArg, "watch", "", "watch interval in seconds")

	if err := fs.Parse(args); err != nil {
		printUsage(errOut)
		return opts, 1, true
	}
	if fs.NArg() > 0 {
		printUsage(errOut)
		return opts, 1, true
	}

	if opts.help {
		printUsage(out)
		return opts, 0, true
	}
	if opts.version {
		fmt.Fprintf(out, "Kernel Monitor Application v%s\n", appVersion)
		return opts, 0, true
	}

	if watchArg != "" {
		n, err := strconv.Atoi(watchArg)
		if err != nil || n <= 0 {
			printUsage(errOut)
			fmt.Fprintln(errOut, "Error: Invalid watch interval")
			return opts, 1, true
		}
		opts.interval = n
	}

	return opts, 0, false
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: kmonctl [OPTIONS]")
	fmt.Fprintln(w, "Read and display Linux kernel monitoring data")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  -h, --help       Display this help message")
	fmt.Fprintln(w, "  -v, --version    Display version information")
	fmt.Fprintln(w, "  -r, --raw        Display raw output without formatting")
	fmt.Fprintln(w, "  -w, --watch SEC  Continuously display data every SEC seconds")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  kmonctl          Display current system statistics")
	fmt.Fprintln(w, "  kmonctl -w 2     Update display every 2 seconds")
}
