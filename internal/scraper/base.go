// Contracts shared by the site scrapers, the sinks and the HTTP front door.

package scraper

import (
	"context"
	"errors"
	"strings"

	"go-indeed-relay/internal/extract"
)

// ErrMissingKeyword rejects a search before any browser work happens.
var ErrMissingKeyword = errors.New("keyword parameter is required")

const DefaultFromAge = "1"

// SearchQuery is one search request. FromAge is the recency window in days, passed through as-is.
type SearchQuery struct {
	Keyword  string
	Location string
	FromAge  string
}

// NewSearchQuery trims the keyword, applies defaults and validates.
func NewSearchQuery(keyword, location, fromAge string) (SearchQuery, error) {
	q := SearchQuery{
		Keyword:  strings.TrimSpace(keyword),
		Location: location,
		FromAge:  fromAge,
	}
	if q.FromAge == "" {
		q.FromAge = DefaultFromAge
	}
	if q.Keyword == "" {
		return q, ErrMissingKeyword
	}
	return q, nil
}

// Listing is the payload relayed to the sink.
type Listing struct {
	Title           string `json:"title"`
	CompanyName     string `json:"company_name"`
	CompanyLocation string `json:"company_location"`
	Description     string `json:"description"`
	SourceURL       string `json:"source_url"`
	QueryString     string `json:"query_string"`
}

// JobRecord is one extracted listing plus the outcome of relaying it.
// Status is nil when the sink could not be reached at all.
type JobRecord struct {
	Key string `json:"-"`
	Listing
	Status *int `json:"status"`
}

// Dispatcher relays one record to the ingestion sink. It never fails: transport errors come back
// as a nil status.
type Dispatcher interface {
	Dispatch(ctx context.Context, rec JobRecord) *int
}

// Session is one exclusively owned browser tab.
type Session interface {
	extract.Document
	extract.CardSource
	extract.Navigator
	Close() error
}

// SessionOpener creates browser sessions.
type SessionOpener interface {
	Open(ctx context.Context) (Session, error)
}

// Scraper defines the interface that all platform scrapers must implement
type Scraper interface {
	// Scrape runs one search and returns the records in extraction order.
	Scrape(ctx context.Context, q SearchQuery) ([]JobRecord, error)

	// Name is the platform name (Indeed, ...)
	Name() string
}
