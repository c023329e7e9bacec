package extract

import (
	"context"
	"fmt"
	"time"
)

// Fields are the four texts read from a detail view.
type Fields struct {
	Title       string
	Company     string
	Location    string
	Description string
}

// PanelExtractor reads Fields from whatever detail view the document currently shows.
type PanelExtractor struct {
	Rules   PanelRules
	Timeout time.Duration
}

// Extract waits for the panel root and runs one cascade per field. A panel that never shows up
// yields empty Fields; that is an expected outcome and is left to the caller to judge.
func (p PanelExtractor) Extract(doc Document) Fields {
	if err := doc.WaitVisible(p.Rules.Ready, p.Timeout); err != nil {
		return Fields{}
	}
	return Fields{
		Title:       p.Rules.Title.Resolve(doc),
		Company:     p.Rules.Company.Resolve(doc),
		Location:    p.Rules.Location.Resolve(doc),
		Description: p.Rules.Description.Resolve(doc),
	}
}

// Navigator moves the browser session to another URL.
type Navigator interface {
	Goto(url string) error
}

// FullPageExtractor reads a listing from its standalone detail page, then puts the session
// back on the search results so card indices stay valid.
type FullPageExtractor struct {
	Nav       Navigator
	Doc       Document
	Panel     PanelExtractor
	DetailURL func(ListingKey) string
	Settle    time.Duration
}

// Extract visits the detail page of key and returns to returnURL. The return trip is attempted
// even when the detail page fails to load.
func (f FullPageExtractor) Extract(ctx context.Context, key ListingKey, returnURL string) (Fields, error) {
	detail := f.DetailURL(key)

	var fields Fields
	err := f.Nav.Goto(detail)
	if err == nil {
		if err = Settle(ctx, f.Settle); err == nil {
			fields = f.Panel.Extract(f.Doc)
		}
	} else {
		err = fmt.Errorf("open detail page %s: %w", detail, err)
	}

	if backErr := f.Nav.Goto(returnURL); backErr != nil {
		if err == nil {
			err = fmt.Errorf("return to search results: %w", backErr)
		}
		return fields, err
	}
	if settleErr := Settle(ctx, f.Settle); settleErr != nil && err == nil {
		err = settleErr
	}
	return fields, err
}

// Settle pauses for d, or until ctx is done.
func Settle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
