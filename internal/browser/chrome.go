package browser

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/leadsweep/leadsweep/internal/logger"
)

// Common Chrome/Chromium binary names across different systems
var chromeBinaryNames = []string{
	"google-chrome-stable",
	"google-chrome",
	"chromium",
	"chromium-browser",
	"chrome",
	// macOS paths
	"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	"/Applications/Chromium.app/Contents/MacOS/Chromium",
	// Common Linux paths
	"/usr/bin/google-chrome-stable",
	"/usr/bin/google-chrome",
	"/usr/bin/chromium",
	"/usr/bin/chromium-browser",
	"/snap/bin/chromium",
	// Windows paths
	`C:\Program Files\Google\Chrome\Application\chrome.exe`,
	`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
}

// findChromePath searches for a Chrome/Chromium binary on the system,
// trying PATH lookup first and then common installation locations.
// Returns empty string if none is found.
func findChromePath() string {
	for _, name := range chromeBinaryNames {
		if path, err := exec.LookPath(name); err == nil {
			logger.Debug("found Chrome binary", "name", name, "path", path)
			return path
		}
	}
	logger.Warn("no Chrome binary found - dynamic fetch mode may not work")
	return ""
}

// Chrome is a Page backed by one headless Chrome process with a single tab
// reused for the whole run.
type Chrome struct {
	config      Config
	browserCtx  context.Context
	cancelAlloc context.CancelFunc
	cancelCtx   context.CancelFunc
}

// NewChrome launches the browser and opens its single page.
func NewChrome(cfg Config) (*Chrome, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(cfg.UserAgent),
	)

	// chromedp's default binary lookup may miss the installed Chrome
	if chromePath := findChromePath(); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)

	browserCtx, cancelCtx := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			logger.Debug("chromedp", "msg", fmt.Sprintf(format, args...))
		}),
	)

	// Start the browser up front so a missing binary fails the run at
	// startup instead of on the first URL
	if err := chromedp.Run(browserCtx); err != nil {
		cancelCtx()
		cancelAlloc()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	logger.Debug("browser session started", "headless", cfg.Headless, "user_agent", cfg.UserAgent)

	return &Chrome{
		config:      cfg,
		browserCtx:  browserCtx,
		cancelAlloc: cancelAlloc,
		cancelCtx:   cancelCtx,
	}, nil
}

// Navigate loads the URL in the shared tab, bounded by the configured
// timeout.
func (c *Chrome) Navigate(ctx context.Context, url string) error {
	runCtx, cancel := c.boundedCtx(ctx, c.config.Timeout)
	defer cancel()

	if err := chromedp.Run(runCtx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

// WaitReady waits for the document to become ready. Timing out is treated
// as the page being as settled as it will get.
func (c *Chrome) WaitReady(ctx context.Context, timeout time.Duration) error {
	runCtx, cancel := c.boundedCtx(ctx, timeout)
	defer cancel()

	err := chromedp.Run(runCtx, chromedp.WaitReady("body"))
	if err != nil && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		logger.Debug("page ready wait timed out, proceeding")
		return nil
	}
	return err
}

// HTML snapshots the full rendered markup of the current page.
func (c *Chrome) HTML(ctx context.Context) (string, error) {
	runCtx, cancel := c.boundedCtx(ctx, c.config.Timeout)
	defer cancel()

	var html string
	if err := chromedp.Run(runCtx, chromedp.OuterHTML("html", &html)); err != nil {
		return "", fmt.Errorf("failed to snapshot page: %w", err)
	}
	return html, nil
}

// clickScript finds the first visible, enabled element matching the
// selector (optionally filtered by exact trimmed text) and clicks it.
const clickScript = `(function(sel, text) {
	var els = document.querySelectorAll(sel);
	for (var i = 0; i < els.length; i++) {
		var el = els[i];
		if (text && el.textContent.trim() !== text) continue;
		if (!(el.offsetWidth || el.offsetHeight || el.getClientRects().length)) continue;
		if (el.disabled || el.hasAttribute('disabled')) continue;
		if ((el.getAttribute('class') || '').indexOf('disabled') !== -1) continue;
		el.click();
		return true;
	}
	return false;
})(%q, %q)`

// Click clicks the first usable element matching selector and text.
func (c *Chrome) Click(ctx context.Context, selector, text string) (bool, error) {
	runCtx, cancel := c.boundedCtx(ctx, c.config.Timeout)
	defer cancel()

	var clicked bool
	script := fmt.Sprintf(clickScript, selector, text)
	if err := chromedp.Run(runCtx, chromedp.Evaluate(script, &clicked)); err != nil {
		// An invalid selector for this document is a miss, not a failure
		if strings.Contains(err.Error(), "SyntaxError") {
			return false, nil
		}
		return false, fmt.Errorf("click failed: %w", err)
	}
	return clicked, nil
}

// Close shuts down the tab and the browser process.
func (c *Chrome) Close() error {
	if c.cancelCtx != nil {
		c.cancelCtx()
	}
	if c.cancelAlloc != nil {
		c.cancelAlloc()
	}
	return nil
}

// boundedCtx derives a run context from the browser context that also
// honors the caller's cancellation and the given timeout.
func (c *Chrome) boundedCtx(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	runCtx, cancelTimeout := context.WithTimeout(c.browserCtx, timeout)
	stop := context.AfterFunc(ctx, cancelTimeout)
	return runCtx, func() {
		stop()
		cancelTimeout()
	}
}
