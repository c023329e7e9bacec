package indeed

import (
	"fmt"
	"net/url"
	"strings"

	"go-indeed-relay/internal/extract"
	"go-indeed-relay/internal/scraper"
)

// SearchURL builds the results page for q, e.g. https://www.indeed.com/jobs?q=go&l=&fromage=1
func SearchURL(base string, q scraper.SearchQuery) string {
	return fmt.Sprintf("%s/jobs?q=%s&l=%s&fromage=%s",
		strings.TrimRight(base, "/"),
		url.QueryEscape(q.Keyword),
		url.QueryEscape(q.Location),
		url.QueryEscape(q.FromAge),
	)
}

// ViewJobURL is the canonical detail page of a listing.
func ViewJobURL(base string, key extract.ListingKey) string {
	return strings.TrimRight(base, "/") + "/viewjob?jk=" + url.QueryEscape(string(key))
}
