// Package adapter turns rendered directory markup into raw listing records.
//
// Each adapter is a strategy for one family of sites. Selector chains are
// kept as ordered data tables so that supporting a new directory vendor is
// an addition to a table, not new branching code, and so the first-match
// contract is enforced in one place.
package adapter

import (
	"net/url"
	"strings"
)

// Listing is a raw field record extracted from one detected card. Only
// Business is required; every other field defaults to empty.
type Listing struct {
	Business string
	Phone    string
	Email    string
	Location string
	Industry string
}

// Adapter extracts listings from a page's rendered markup. Implementations
// never abort a page over a single bad card; failed cards are skipped.
type Adapter interface {
	Name() string
	Extract(html string) ([]Listing, error)
}

// reviewHosts are domains served by the review-aggregator adapter.
var reviewHosts = []string{"yelp.com", "foursquare.com"}

// Select maps a URL's host to the adapter for that site family. It always
// returns an adapter; the generic directory adapter is the default, and an
// unparseable URL falls through to it as well.
func Select(rawURL string) Adapter {
	u, err := url.Parse(rawURL)
	if err != nil {
		return NewGeneric()
	}

	host := strings.ToLower(u.Hostname())
	for _, h := range reviewHosts {
		if strings.Contains(host, h) {
			return NewReview()
		}
	}
	return NewGeneric()
}
