package adapter

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/leadsweep/leadsweep/internal/logger"
)

// Review selector tables are fixed to the markup shape of large review
// aggregators (data-testid hooks plus a few legacy class names).
var reviewCardSelector = `[data-testid="serp-ia-card"], .businessName, .search-result, .biz-listing`

var reviewNameSelectors = []string{
	"h3 a",
	"h4 a",
	".business-name a",
	`a[href*="/biz/"]`,
}

var reviewPhoneRules = []fieldRule{
	{selector: `[data-testid="phone-number"]`},
	{selector: ".phone-number"},
}

var reviewLocationRules = []fieldRule{
	{selector: ".address"},
	{selector: `[data-testid="address"]`},
}

var reviewIndustryRules = []fieldRule{
	{selector: ".category"},
	{selector: ".categories a"},
}

// Review extracts listings from review-aggregator result pages. Emails are
// structurally unavailable on these sites and are always empty.
type Review struct{}

// NewReview creates the review-site adapter.
func NewReview() *Review {
	return &Review{}
}

func (r *Review) Name() string { return "review" }

// Extract pulls listings from review-site result cards.
func (r *Review) Extract(html string) ([]Listing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	cards := doc.Find(reviewCardSelector)
	if cards.Length() == 0 {
		logger.Info("no business listings found on page", "adapter", r.Name())
		return nil, nil
	}

	var results []Listing
	cards.Each(func(_ int, card *goquery.Selection) {
		var business string
		for _, selector := range reviewNameSelectors {
			el := card.Find(selector).First()
			if el.Length() == 0 {
				continue
			}
			if name := strings.TrimSpace(el.Text()); name != "" {
				business = name
				break
			}
		}
		if business == "" {
			return
		}

		results = append(results, Listing{
			Business: business,
			Phone:    resolveField(card, reviewPhoneRules),
			Location: resolveField(card, reviewLocationRules),
			Industry: resolveField(card, reviewIndustryRules),
		})
	})

	return results, nil
}
