// Package browser drives page navigation for the scraper behind a narrow
// interface, so pagination and extraction can be tested against canned
// markup without a live browser.
package browser

import (
	"context"
	"fmt"
	"time"
)

// Page is one browsing context reused sequentially across start URLs.
type Page interface {
	// Navigate loads the given URL.
	Navigate(ctx context.Context, url string) error

	// WaitReady waits for the page to settle, up to timeout. The wait is
	// best-effort: running out of time is not an error.
	WaitReady(ctx context.Context, timeout time.Duration) error

	// HTML snapshots the full rendered markup.
	HTML(ctx context.Context) (string, error)

	// Click activates the first visible, non-disabled element matching
	// selector (and, when text is non-empty, whose trimmed text equals
	// text). Returns false when no such element exists.
	Click(ctx context.Context, selector, text string) (bool, error)

	// Close releases the browsing session.
	Close() error
}

// Mode determines how pages are fetched.
type Mode string

const (
	// ModeDynamic renders pages in headless Chrome.
	ModeDynamic Mode = "dynamic"
	// ModeStatic fetches raw HTML over plain HTTP, following next links
	// instead of clicking them. Suitable for directories that render
	// server-side.
	ModeStatic Mode = "static"
)

// Config holds session configuration shared by both modes.
type Config struct {
	UserAgent string
	Timeout   time.Duration // per-navigation bound
	Headless  bool
}

// Directories commonly serve stripped markup to obvious bots, so a
// desktop Chrome user agent is pinned as the default.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		UserAgent: defaultUserAgent,
		Timeout:   30 * time.Second,
		Headless:  true,
	}
}

// New creates a Page for the requested mode.
func New(mode Mode, cfg Config) (Page, error) {
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	switch mode {
	case ModeDynamic, "":
		return NewChrome(cfg)
	case ModeStatic:
		return NewStatic(cfg), nil
	default:
		return nil, fmt.Errorf("unknown fetch mode: %s (use 'dynamic' or 'static')", mode)
	}
}
