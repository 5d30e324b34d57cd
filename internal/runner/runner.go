// Package runner orchestrates a scraping run: it walks the start URLs in
// order, drives pagination on a shared browser page, deduplicates the
// extracted listings into canonical leads, and serializes the result.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/leadsweep/leadsweep/internal/adapter"
	"github.com/leadsweep/leadsweep/internal/browser"
	"github.com/leadsweep/leadsweep/internal/lead"
	"github.com/leadsweep/leadsweep/internal/logger"
	"github.com/leadsweep/leadsweep/internal/output"
	"github.com/leadsweep/leadsweep/internal/paginate"
)

// Options configures one run.
type Options struct {
	URLs      []string      `validate:"required,min=1,dive,required"`
	ListName  string        `validate:"required"`
	OutPath   string        `validate:"required"`
	Format    output.Format `validate:"oneof=json jsonl yaml"`
	MaxPages  int           `validate:"min=1"`
	DelayMin  time.Duration `validate:"min=0"`
	DelayMax  time.Duration `validate:"gtecsfield=DelayMin"`
	FetchMode browser.Mode  `validate:"oneof=dynamic static"`
	Timeout   time.Duration `validate:"min=0"`
	UserAgent string
	SavePages string
	Headless  bool
}

// DefaultOptions returns the defaults for everything but URLs.
func DefaultOptions() Options {
	return Options{
		ListName:  lead.DefaultList,
		OutPath:   "leads.json",
		Format:    output.FormatJSON,
		MaxPages:  3,
		DelayMin:  800 * time.Millisecond,
		DelayMax:  1600 * time.Millisecond,
		FetchMode: browser.ModeDynamic,
		Timeout:   30 * time.Second,
		Headless:  true,
	}
}

var validate = validator.New()

// Validate checks option consistency, including the delay bounds
// (0 <= DelayMin <= DelayMax).
func (o Options) Validate() error {
	err := validate.Struct(o)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		e := verrs[0]
		return fmt.Errorf("invalid option %s: failed %s validation", e.Field(), e.Tag())
	}
	return err
}

// Runner executes a run over a single shared page.
type Runner struct {
	opts Options
	page browser.Page
}

// New validates opts and acquires the browsing session for the run.
func New(opts Options) (*Runner, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	page, err := browser.New(opts.FetchMode, browser.Config{
		UserAgent: opts.UserAgent,
		Timeout:   opts.Timeout,
		Headless:  opts.Headless,
	})
	if err != nil {
		return nil, err
	}

	return &Runner{opts: opts, page: page}, nil
}

// NewWithPage creates a Runner over an existing page. Used by tests and by
// callers that manage the session themselves.
func NewWithPage(opts Options, page browser.Page) (*Runner, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Runner{opts: opts, page: page}, nil
}

// Close releases the browsing session. Safe to call after a failed run.
func (r *Runner) Close() error {
	return r.page.Close()
}

// Run processes every start URL in order and returns the deduplicated
// leads. Per-URL failures are logged and skipped; the only errors returned
// are cancellation.
func (r *Runner) Run(ctx context.Context) ([]lead.Lead, error) {
	leads := make([]lead.Lead, 0)
	seen := make(map[lead.Key]struct{})

	for _, startURL := range r.opts.URLs {
		if err := ctx.Err(); err != nil {
			return leads, err
		}

		logger.Info("processing URL", "url", startURL)
		ad := adapter.Select(startURL)
		logger.Debug("selected adapter", "adapter", ad.Name(), "url", startURL)

		if err := r.page.Navigate(ctx, startURL); err != nil {
			logger.Error("navigation failed, skipping URL", "url", startURL, "error", err)
			continue
		}

		res := paginate.Run(ctx, r.page, ad, paginate.Options{
			MaxPages:  r.opts.MaxPages,
			DelayMin:  r.opts.DelayMin,
			DelayMax:  r.opts.DelayMax,
			SavePages: r.opts.SavePages,
		})
		if res.Err != nil {
			logger.Error("pagination aborted, keeping partial results",
				"url", startURL, "pages", res.Pages, "error", res.Err)
		}

		before := len(leads)
		leads = r.promote(res.Listings, seen, leads)
		logger.Info("completed URL",
			"url", startURL,
			"pages", res.Pages,
			"raw_items", len(res.Listings),
			"new_leads", len(leads)-before,
			"total_unique", len(leads))
	}

	return leads, nil
}

// promote turns raw listings into canonical leads, enforcing the non-empty
// business gate and the (lowercased business, normalized phone) dedup key.
func (r *Runner) promote(listings []adapter.Listing, seen map[lead.Key]struct{}, leads []lead.Lead) []lead.Lead {
	for _, item := range listings {
		business := strings.TrimSpace(item.Business)
		if business == "" {
			continue
		}

		number := lead.NormalizePhone(item.Phone)
		key := lead.DedupKey(business, number)
		if _, dup := seen[key]; dup {
			logger.Debug("duplicate lead skipped", "business", business, "number", number)
			continue
		}
		seen[key] = struct{}{}

		leads = append(leads, lead.New(business, "", number, item.Email, item.Location, item.Industry, "", r.opts.ListName))
	}
	return leads
}

// WriteLeads serializes leads to w in the given format. Writer options
// pass through, so callers can pick compact over pretty JSON.
func WriteLeads(w io.Writer, format output.Format, leads []lead.Lead, opts ...output.WriterOption) error {
	writer, err := output.NewWriter(w, format, opts...)
	if err != nil {
		return err
	}

	for _, l := range leads {
		if err := writer.Write(l); err != nil {
			return err
		}
	}

	return writer.Close()
}

// SaveLeads writes leads to path, overwriting any existing file. A write
// failure here is the run's only fatal outcome.
func SaveLeads(path string, format output.Format, leads []lead.Lead, opts ...output.WriterOption) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := WriteLeads(f, format, leads, opts...); err != nil {
		f.Close()
		return fmt.Errorf("failed to write leads: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write leads: %w", err)
	}

	logger.Info("wrote leads", "count", len(leads), "path", path)
	return nil
}
