package adapter

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/leadsweep/leadsweep/internal/logger"
)

// phoneRe matches a phone-number-shaped substring: optional parenthesized
// area code, then 3 and 4 digit groups with common separators.
var phoneRe = regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)

// streetRe marks the start of a US street address run-on inside a business
// name. Locale-specific heuristic: long legitimate names containing these
// suffixes can be mis-truncated.
var streetRe = regexp.MustCompile(`\d+\s+[A-Za-z].*?(Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Drive|Dr|Circle|Cir|Lane|Ln)`)

// cardSelectors locate repeating listing containers. Ordered from specific
// known-vendor classes through substring patterns to content sniffing; the
// first selector yielding more than one element wins and no later pattern
// is tried.
var cardSelectors = []string{
	// Common chamber/directory vendor patterns
	"div.mn-listing",
	"div.mn-listing-container",
	"div.gz-member",
	"div.member-item",
	"div.member",
	"div.listing-item",
	"div.business-listing",
	"div.directory-item",
	"li.member",
	"li.listing",
	".member-card",
	".business-card",
	".directory-entry",
	"article",
	"div.listing",
	"div.directory-listing",
	"li.directory-item",
	// Generic containers that might hold business info
	`div[class*="member"]`,
	`div[class*="listing"]`,
	`div[class*="business"]`,
	`div[class*="directory"]`,
	`li[class*="member"]`,
	`li[class*="listing"]`,
	// Content sniff: anything holding a phone link or phone/email class
	`div:has(a[href*="tel:"]), div:has(.phone), div:has(.email)`,
}

// businessSelectors resolve the listing title, most specific first.
var businessSelectors = []string{
	".mn-title a",
	".mn-title",
	".gz-title a",
	".gz-title",
	".member-name a",
	".member-name",
	".business-name a",
	".business-name",
	".company-name a",
	".company-name",
	".listing-title a",
	".listing-title",
	".directory-title a",
	".directory-title",
	"h1 a", "h2 a", "h3 a", "h4 a",
	"h1", "h2", "h3", "h4",
	`a[href*="/business/"]`,
	`a[href*="/member/"]`,
	`a[href*="/listing/"]`,
	".title a",
	".title",
	"strong a",
	"strong",
	"a", // last resort
}

var phoneRules = []fieldRule{
	{selector: `a[href^="tel:"]`, scheme: "tel"},
	{selector: ".phone"},
	{selector: ".listing-phone"},
	{selector: ".directory-phone"},
	{selector: ".telephone"},
}

var emailRules = []fieldRule{
	{selector: `a[href^="mailto:"]`, scheme: "mailto"},
	{selector: ".email"},
	{selector: ".listing-email"},
	{selector: ".directory-email"},
}

var locationRules = []fieldRule{
	{selector: ".address"},
	{selector: ".listing-address"},
	{selector: ".directory-address"},
	{selector: "address"},
	{selector: ".location"},
}

var industryRules = []fieldRule{
	{selector: ".category"},
	{selector: ".categories"},
	{selector: ".tags"},
	{selector: ".industry"},
	{selector: ".business-type"},
}

// skipTerms are navigation/header phrases that a title selector may match
// but that are never business names.
var skipTerms = map[string]bool{
	"Home":                     true,
	"Search":                   true,
	"Directory":                true,
	"Business Directory Search": true,
	"Find a Business":          true,
	"Member Directory":         true,
}

// fieldRule is one step in a per-field selector chain. When scheme is set
// the rule prefers the matching URL-scheme href over the element text.
type fieldRule struct {
	selector string
	scheme   string
}

// Generic extracts listings from chamber-of-commerce style directory sites
// with card-based layouts.
type Generic struct{}

// NewGeneric creates the generic directory adapter.
func NewGeneric() *Generic {
	return &Generic{}
}

func (g *Generic) Name() string { return "generic" }

// Extract locates listing cards and resolves each card's fields through the
// per-field selector chains. Cards without a usable business name are
// dropped.
func (g *Generic) Extract(html string) ([]Listing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	cards := findCards(doc)
	if len(cards) == 0 {
		logger.Info("no business listings found on page", "adapter", g.Name())
		return nil, nil
	}

	var results []Listing
	for _, card := range cards {
		listing, ok := extractCard(card)
		if !ok {
			continue
		}
		results = append(results, listing)
	}

	return results, nil
}

// findCards tries the ordered card-selector table, then falls back to
// phone-link containers, then to block elements whose text looks like it
// contains a phone number.
func findCards(doc *goquery.Document) []*goquery.Selection {
	for _, selector := range cardSelectors {
		sel := doc.Find(selector)
		// A single match is usually a page wrapper, not a listing
		if sel.Length() > 1 {
			logger.Debug("found listing cards", "count", sel.Length(), "selector", selector)
			return splitSelection(sel)
		}
	}

	logger.Debug("no card selector matched, trying phone link fallback")
	sel := doc.Find(`div:has(a[href^="tel:"]), li:has(a[href^="tel:"])`)
	if sel.Length() > 0 {
		logger.Debug("using phone link fallback", "count", sel.Length())
		return splitSelection(sel)
	}

	logger.Debug("trying text phone pattern fallback")
	var cards []*goquery.Selection
	doc.Find("div, li").Each(func(_ int, s *goquery.Selection) {
		if phoneRe.MatchString(s.Text()) {
			cards = append(cards, s)
		}
	})
	if len(cards) > 0 {
		logger.Debug("using text phone pattern fallback", "count", len(cards))
	}
	return cards
}

// splitSelection breaks a combined selection into per-card selections.
func splitSelection(sel *goquery.Selection) []*goquery.Selection {
	cards := make([]*goquery.Selection, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		cards = append(cards, s)
	})
	return cards
}

// extractCard resolves one card's fields. The second return is false when
// no business name could be resolved.
func extractCard(card *goquery.Selection) (listing Listing, ok bool) {
	// A bad card never takes down the rest of the page
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("error processing card, skipping", "panic", r)
			ok = false
		}
	}()

	listing.Business = resolveBusiness(card)
	if listing.Business == "" {
		return listing, false
	}

	listing.Phone = resolveField(card, phoneRules)
	if listing.Phone == "" {
		// Fall back to a phone-shaped substring anywhere in the card
		listing.Phone = phoneRe.FindString(card.Text())
	}
	listing.Email = resolveField(card, emailRules)
	listing.Location = resolveField(card, locationRules)
	listing.Industry = resolveField(card, industryRules)

	return listing, true
}

// resolveBusiness walks the title selector chain and returns the first
// candidate that survives cleanup.
func resolveBusiness(card *goquery.Selection) string {
	for _, selector := range businessSelectors {
		el := card.Find(selector).First()
		if el.Length() == 0 {
			continue
		}
		if name := cleanBusinessName(strings.TrimSpace(el.Text())); name != "" {
			return name
		}
	}
	return ""
}

// cleanBusinessName rejects navigation text and trims address run-ons from
// over-long candidates. Returns "" for unusable candidates.
func cleanBusinessName(name string) string {
	if len(name) <= 3 || skipTerms[name] {
		return ""
	}

	if len(name) > 50 {
		// Long candidates usually have an address mixed in; the name is
		// the first line
		if line, _, found := strings.Cut(name, "\n"); found {
			name = strings.TrimSpace(line)
		}
		// Still long: cut ahead of a leading street-address pattern
		if len(name) > 50 {
			if loc := streetRe.FindStringIndex(name); loc != nil {
				if head := strings.TrimSpace(name[:loc[0]]); len(head) > 3 {
					name = head
				}
			}
		}
	}

	return name
}

// resolveField walks a field's selector chain and returns the first
// non-empty value.
func resolveField(card *goquery.Selection, rules []fieldRule) string {
	for _, rule := range rules {
		el := card.Find(rule.selector).First()
		if el.Length() == 0 {
			continue
		}

		if rule.scheme != "" {
			if href, exists := el.Attr("href"); exists && strings.HasPrefix(href, rule.scheme+":") {
				if v := strings.TrimSpace(strings.TrimPrefix(href, rule.scheme+":")); v != "" {
					return v
				}
			}
		}

		if v := strings.TrimSpace(el.Text()); v != "" {
			return v
		}
	}
	return ""
}
