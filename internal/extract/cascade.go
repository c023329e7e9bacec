package extract

import (
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned by a Document or Card when nothing matches a selector.
var ErrNotFound = errors.New("element not found")

// Document is the rendered page the extractors read from.
type Document interface {
	// Text returns the rendered text of the first element matching selector.
	Text(selector string) (string, error)
	// WaitVisible blocks until an element matching selector is visible or timeout elapses.
	WaitVisible(selector string, timeout time.Duration) error
}

// Rule is one lookup strategy of a cascade.
type Rule struct {
	Selector string
}

// Cascade is an ordered list of rules, most specific first.
type Cascade []Rule

// Selectors builds a cascade from CSS selectors in priority order.
func Selectors(selectors ...string) Cascade {
	c := make(Cascade, 0, len(selectors))
	for _, s := range selectors {
		if s = strings.TrimSpace(s); s != "" {
			c = append(c, Rule{Selector: s})
		}
	}
	return c
}

// Resolve returns the trimmed text of the first rule that yields something, or "".
// A rule that errors (missing element, detached node, timeout) just passes to the next one.
func (c Cascade) Resolve(doc Document) string {
	for _, rule := range c {
		text, err := doc.Text(rule.Selector)
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			return text
		}
	}
	return ""
}
