// Package paginate drives per-page extraction and advances through a
// directory's result pages until an exit condition is met.
package paginate

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/leadsweep/leadsweep/internal/adapter"
	"github.com/leadsweep/leadsweep/internal/browser"
	"github.com/leadsweep/leadsweep/internal/logger"
)

// Control identifies one candidate "next page" element. Text, when set,
// must equal the element's trimmed text content.
type Control struct {
	Selector string
	Text     string
}

// nextControls is the prioritized search order for the next-page control:
// the explicit rel attribute first, then common class names, then
// text-content matches. The first usable control wins.
var nextControls = []Control{
	{Selector: `a[rel="next"]`},
	{Selector: "a.next"},
	{Selector: "a.pagination-next"},
	{Selector: `button[aria-label="Next"]`},
	{Selector: "a", Text: "Next"},
	{Selector: "a", Text: ">"},
	{Selector: ".pagination .next"},
	{Selector: ".pager .next"},
}

// Options bounds one start URL's pagination.
type Options struct {
	MaxPages     int
	DelayMin     time.Duration // politeness delay lower bound
	DelayMax     time.Duration // politeness delay upper bound
	ReadyTimeout time.Duration // best-effort page settle wait
	SavePages    string        // directory for per-page HTML dumps, "" disables
}

// Result is the outcome of paginating one start URL. Listings collected
// before an error are kept alongside it.
type Result struct {
	Listings []adapter.Listing
	Pages    int
	Err      error
}

const defaultReadyTimeout = 10 * time.Second

// Run extracts from the page currently loaded in page, then repeatedly
// advances via the next-control search, for at most MaxPages cycles. A
// missing next control is a normal termination; any cycle error ends this
// URL's pagination with partial results.
func Run(ctx context.Context, page browser.Page, ad adapter.Adapter, opts Options) Result {
	var res Result

	readyTimeout := opts.ReadyTimeout
	if readyTimeout == 0 {
		readyTimeout = defaultReadyTimeout
	}

	for res.Pages < opts.MaxPages {
		if err := ctx.Err(); err != nil {
			res.Err = err
			return res
		}

		if err := page.WaitReady(ctx, readyTimeout); err != nil {
			res.Err = fmt.Errorf("page %d: %w", res.Pages+1, err)
			return res
		}

		if err := politeSleep(ctx, opts.DelayMin, opts.DelayMax); err != nil {
			res.Err = err
			return res
		}

		html, err := page.HTML(ctx)
		if err != nil {
			res.Err = fmt.Errorf("page %d: %w", res.Pages+1, err)
			return res
		}

		if opts.SavePages != "" {
			savePage(opts.SavePages, res.Pages+1, html)
		}

		listings, err := ad.Extract(html)
		if err != nil {
			res.Err = fmt.Errorf("page %d: %w", res.Pages+1, err)
			return res
		}

		res.Listings = append(res.Listings, listings...)
		res.Pages++
		logger.Info("scraped page", "page", res.Pages, "items", len(listings))

		if res.Pages >= opts.MaxPages {
			break
		}

		if !clickNext(ctx, page) {
			logger.Info("no more pages found", "pages", res.Pages)
			break
		}
	}

	return res
}

// clickNext walks the next-control table until one pattern clicks. A
// pattern that errors is skipped; later patterns still get their turn.
func clickNext(ctx context.Context, page browser.Page) bool {
	for _, ctrl := range nextControls {
		clicked, err := page.Click(ctx, ctrl.Selector, ctrl.Text)
		if err != nil {
			logger.Debug("next control attempt failed", "selector", ctrl.Selector, "error", err)
			continue
		}
		if clicked {
			logger.Debug("clicked next", "selector", ctrl.Selector, "text", ctrl.Text)
			return true
		}
	}
	return false
}

// politeSleep pauses for a uniformly random duration in [min, max],
// honoring cancellation. Rate limiting only; not correctness-critical.
func politeSleep(ctx context.Context, min, max time.Duration) error {
	delay := min
	if max > min {
		delay += time.Duration(rand.Int63n(int64(max - min + 1)))
	}
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// savePage dumps one page's markup for offline adapter tuning. Failures
// are logged and ignored; dumps never affect returned data.
func savePage(dir string, page int, html string) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Warn("failed to create page dump directory", "dir", dir, "error", err)
		return
	}
	path := filepath.Join(dir, fmt.Sprintf("page_%04d.html", page))
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		logger.Warn("failed to save page", "path", path, "error", err)
		return
	}
	logger.Debug("saved page markup", "path", path)
}
