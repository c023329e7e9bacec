package extract

import (
	"net/url"
	"strings"
)

// ListingKey identifies one listing on the site, on the results view and the detail page alike.
type ListingKey string

// Card is one search-result entry on the live page.
type Card interface {
	// Attribute returns the value of an attribute on the card itself ("" when absent).
	Attribute(name string) (string, error)
	// AnchorHref returns the href of the first anchor inside the card.
	AnchorHref() (string, error)
	ScrollIntoView() error
	// Click simulates a user click; the page may reject it (overlay, detached node).
	Click() error
	// ForceClick dispatches the click programmatically.
	ForceClick() error
}

// IdentifierExtractor derives a ListingKey from a card. It never invents one.
type IdentifierExtractor struct {
	Attribute  string
	QueryParam string
}

func DefaultIdentifierExtractor() IdentifierExtractor {
	return IdentifierExtractor{Attribute: ListingKeyAttribute, QueryParam: ListingKeyParam}
}

// Extract returns the card's key and whether one was found.
func (x IdentifierExtractor) Extract(card Card) (ListingKey, bool) {
	if val, err := card.Attribute(x.Attribute); err == nil {
		if val = strings.TrimSpace(val); val != "" {
			return ListingKey(val), true
		}
	}

	href, err := card.AnchorHref()
	if err != nil || href == "" {
		return "", false
	}
	return KeyFromURL(href, x.QueryParam)
}

// KeyFromURL reads param from the query string of a possibly relative link.
func KeyFromURL(href, param string) (ListingKey, bool) {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", false
	}
	values, ok := u.Query()[param]
	if !ok || len(values) == 0 {
		return "", false
	}
	val := strings.TrimSpace(values[0])
	if val == "" {
		return "", false
	}
	return ListingKey(val), true
}
