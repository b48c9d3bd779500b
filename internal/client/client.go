package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// defaultWarmup is the delay between the watch-mode start banner and
// the first decorated frame.
const defaultWarmup = 2 * time.Second

// Client fetches rendered snapshots from the exposition endpoint and
// presents them to the user. Fetches are fully independent: no state is
// shared between them beyond the HTTP client itself.
type Client struct {
	url    string
	http   *http.Client
	out    io.Writer
	errOut io.Writer
	logger *slog.Logger
	warmup time.Duration
}

// New creates a client for the given endpoint URL, writing snapshots to
// out and diagnostics to errOut.
func New(url string, out, errOut io.Writer, logger *slog.Logger) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 2
	retryClient.RetryWaitMin = 200 * time.Millisecond
	retryClient.RetryWaitMax = 1 * time.Second
	retryClient.Logger = nil // suppress default logging

	return &Client{
		url:    url,
		http:   retryClient.StandardClient(),
		out:    out,
		errOut: errOut,
		logger: logger,
		warmup: defaultWarmup,
	}
}

// FetchOnce performs one full open-read cycle against the exposition
// endpoint and displays the result, raw or decorated. On failure it
// prints a diagnostic to the error stream and returns without printing
// any snapshot content.
func (c *Client) FetchOnce(ctx context.Context, decorate bool) error {
	body, err := c.read(ctx)
	if err != nil {
		fmt.Fprintf(c.errOut, "Error: failed to read %s: %v\n", c.url, err)
		fmt.Fprintln(c.errOut, "Make sure the monitor daemon is running (kmond)")
		return err
	}

	if decorate {
		fmt.Fprint(c.out, clearScreen)
		fmt.Fprintln(c.out, liveBanner())
		fmt.Fprintf(c.out, "\n%s\n", body)
		return nil
	}

	fmt.Fprint(c.out, body)
	return nil
}

// Watch fetches and displays decorated snapshots every intervalSeconds
// until the context is cancelled. A failed fetch inside the loop is a
// skipped frame, not a reason to stop: watch mode keeps polling where
// one-shot mode surfaces the failure as its whole outcome.
func (c *Client) Watch(ctx context.Context, intervalSeconds int) error {
	if intervalSeconds < 1 {
		return fmt.Errorf("watch interval must be a positive number of seconds, got %d", intervalSeconds)
	}

	fmt.Fprintln(c.out, startBanner(intervalSeconds))

	if !c.sleep(ctx, c.warmup) {
		return nil
	}

	interval := time.Duration(intervalSeconds) * time.Second
	for {
		if err := c.FetchOnce(ctx, true); err != nil {
			c.logger.Warn("fetch failed, skipping frame", "err", err)
		}
		if !c.sleep(ctx, interval) {
			return nil
		}
	}
}

// read opens the endpoint, reads the complete snapshot text, and closes
// the handle. Re-reading requires a fresh open; there are no partial or
// streamed updates.
func (c *Client) read(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("endpoint returned %s", resp.Status)
	}

	return string(data), nil
}

func (c *Client) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
