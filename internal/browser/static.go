package browser

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"github.com/leadsweep/leadsweep/internal/logger"
)

// Static is a Page over plain HTTP fetches. It cannot execute scripts;
// Click works by resolving the matched link's href against the current URL
// and fetching it, so only anchor-based pagination advances.
type Static struct {
	config     Config
	currentURL string
	html       string
}

// NewStatic creates a static page.
func NewStatic(cfg Config) *Static {
	return &Static{config: cfg}
}

// Navigate fetches the URL and keeps its body as the current page.
func (s *Static) Navigate(ctx context.Context, targetURL string) error {
	c := colly.NewCollector(
		colly.UserAgent(s.config.UserAgent),
	)
	c.SetRequestTimeout(s.config.Timeout)

	var body string
	var fetchErr error

	c.OnResponse(func(r *colly.Response) {
		body = string(r.Body)
	})
	c.OnError(func(r *colly.Response, err error) {
		fetchErr = fmt.Errorf("fetch error: %w", err)
	})

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.Visit(targetURL); err != nil {
		return fmt.Errorf("failed to visit URL: %w", err)
	}
	if fetchErr != nil {
		return fetchErr
	}

	s.currentURL = targetURL
	s.html = body
	logger.Debug("static fetch complete", "url", targetURL, "size", len(body))
	return nil
}

// WaitReady is a no-op for static pages; the fetch already completed.
func (s *Static) WaitReady(_ context.Context, _ time.Duration) error {
	return nil
}

// HTML returns the current page's markup.
func (s *Static) HTML(_ context.Context) (string, error) {
	if s.currentURL == "" {
		return "", fmt.Errorf("no page loaded")
	}
	return s.html, nil
}

// Click follows the first matching anchor's href. Non-anchor controls and
// disabled or script-only links never match.
func (s *Static) Click(ctx context.Context, selector, text string) (bool, error) {
	if s.currentURL == "" {
		return false, fmt.Errorf("no page loaded")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s.html))
	if err != nil {
		return false, err
	}

	base, err := url.Parse(s.currentURL)
	if err != nil {
		return false, err
	}

	var next string
	doc.Find(selector).EachWithBreak(func(_ int, el *goquery.Selection) bool {
		if text != "" && strings.TrimSpace(el.Text()) != text {
			return true
		}
		if cls, _ := el.Attr("class"); strings.Contains(cls, "disabled") {
			return true
		}
		if _, disabled := el.Attr("disabled"); disabled {
			return true
		}

		href, exists := el.Attr("href")
		if !exists || href == "" ||
			strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
			return true
		}

		linkURL, err := url.Parse(href)
		if err != nil {
			return true
		}
		if !linkURL.IsAbs() {
			linkURL = base.ResolveReference(linkURL)
		}
		next = linkURL.String()
		return false
	})

	if next == "" {
		return false, nil
	}

	logger.Debug("following next link", "selector", selector, "url", next)
	if err := s.Navigate(ctx, next); err != nil {
		return false, err
	}
	return true, nil
}

// Close releases nothing; static pages hold no session resources.
func (s *Static) Close() error {
	return nil
}
