// Package lead builds the canonical output records for a scraping run.
package lead

import (
	"strings"
	"sync"
	"time"
)

// timestampLayout is the minute-resolution format stamped on every lead.
const timestampLayout = "2006-01-02 15:04"

// Leads are timestamped in Pacific time regardless of where the run executes.
const timestampZone = "America/Los_Angeles"

// DefaultList is the campaign label applied when none is supplied.
const DefaultList = "Default"

// Lead is a finalized, deduplicated output record. Field order matches the
// serialized document. Name and Call Notes are reserved fields that this
// workflow never populates.
type Lead struct {
	Business  string `json:"Business" yaml:"Business"`
	Name      string `json:"Name" yaml:"Name"`
	Number    string `json:"Number" yaml:"Number"`
	Email     string `json:"Email" yaml:"Email"`
	Location  string `json:"Location" yaml:"Location"`
	Industry  string `json:"Industry" yaml:"Industry"`
	CallNotes string `json:"Call Notes" yaml:"Call Notes"`
	DateAdded string `json:"Date Added" yaml:"Date Added"`
	List      string `json:"List" yaml:"List"`
}

// Key identifies a lead for within-run deduplication.
type Key struct {
	Business string // lowercased
	Number   string // normalized
}

var loadZone = sync.OnceValue(func() *time.Location {
	loc, err := time.LoadLocation(timestampZone)
	if err != nil {
		return time.Local
	}
	return loc
})

// Timestamp returns the current Pacific-time timestamp at minute resolution.
func Timestamp() string {
	return time.Now().In(loadZone()).Format(timestampLayout)
}

// New builds a Lead from raw extracted fields. The phone number is
// normalized and Date Added is stamped at creation; all other fields are
// copied verbatim. An empty list name falls back to DefaultList.
func New(business, name, number, email, location, industry, callNotes, list string) Lead {
	if list == "" {
		list = DefaultList
	}
	return Lead{
		Business:  business,
		Name:      name,
		Number:    NormalizePhone(number),
		Email:     email,
		Location:  location,
		Industry:  industry,
		CallNotes: callNotes,
		DateAdded: Timestamp(),
		List:      list,
	}
}

// DedupKey computes the deduplication key for a business name and an
// already-normalized phone number.
func DedupKey(business, number string) Key {
	return Key{
		Business: strings.ToLower(business),
		Number:   number,
	}
}

// Key returns the lead's deduplication key.
func (l Lead) Key() Key {
	return DedupKey(l.Business, l.Number)
}
