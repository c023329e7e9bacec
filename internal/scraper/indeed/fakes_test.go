package indeed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"go-indeed-relay/internal/extract"
	"go-indeed-relay/internal/scraper"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

// listing is one card on the fake results page.
type listing struct {
	key         string // data-jk attribute, may be empty
	href        string
	panel       string // HTML of the detail panel shown once the card is activated
	rejectClick bool
	// onActivate lets a test mutate the results list, like a re-render would.
	onActivate func(s *fakeSession)
}

type fakeSession struct {
	t         *testing.T
	searchURL string
	listings  []*listing
	detail    map[string]string
	gotoErr   map[string]error
	current   *goquery.Document
	visits    []string
	forced    int
	closed    bool
}

func (s *fakeSession) load(html string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(s.t, err)
	s.current = doc
}

func (s *fakeSession) Goto(url string) error {
	s.visits = append(s.visits, url)
	if err := s.gotoErr[url]; err != nil {
		return err
	}
	if url == s.searchURL {
		s.load(`<html><body><div id="mosaic-jobResults"></div></body></html>`)
		return nil
	}
	s.load(s.detail[url])
	return nil
}

func (s *fakeSession) Text(selector string) (string, error) {
	if s.current == nil {
		return "", extract.ErrNotFound
	}
	sel := s.current.Find(selector).First()
	if sel.Length() == 0 {
		return "", extract.ErrNotFound
	}
	return sel.Text(), nil
}

func (s *fakeSession) WaitVisible(selector string, _ time.Duration) error {
	if s.current == nil || s.current.Find(selector).Length() == 0 {
		return errors.New("timeout waiting for " + selector)
	}
	return nil
}

func (s *fakeSession) CountCards(string) (int, error) {
	return len(s.listings), nil
}

func (s *fakeSession) CardAt(_ string, i int) (extract.Card, error) {
	if i >= len(s.listings) {
		return nil, fmt.Errorf("nth(%d): %w", i, extract.ErrNotFound)
	}
	return &fakeCard{s: s, l: s.listings[i]}, nil
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

type fakeCard struct {
	s *fakeSession
	l *listing
}

func (c *fakeCard) Attribute(name string) (string, error) {
	if name == "data-jk" {
		return c.l.key, nil
	}
	return "", nil
}

func (c *fakeCard) AnchorHref() (string, error) {
	if c.l.href == "" {
		return "", extract.ErrNotFound
	}
	return c.l.href, nil
}

func (c *fakeCard) ScrollIntoView() error { return nil }

func (c *fakeCard) Click() error {
	if c.l.rejectClick {
		return errors.New("element click intercepted")
	}
	c.open()
	return nil
}

func (c *fakeCard) ForceClick() error {
	c.s.forced++
	c.open()
	return nil
}

func (c *fakeCard) open() {
	c.s.load(c.l.panel)
	if c.l.onActivate != nil {
		c.l.onActivate(c.s)
	}
}

type fakeOpener struct {
	sess   *fakeSession
	err    error
	opened int
}

func (o *fakeOpener) Open(context.Context) (scraper.Session, error) {
	o.opened++
	if o.err != nil {
		return nil, o.err
	}
	return o.sess, nil
}

// recordingSink returns statuses in order; a nil entry simulates a transport failure.
type recordingSink struct {
	mu       sync.Mutex
	statuses []*int
	got      []scraper.JobRecord
}

func (r *recordingSink) Dispatch(_ context.Context, rec scraper.JobRecord) *int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, rec)
	if len(r.statuses) == 0 {
		return intPtr(201)
	}
	st := r.statuses[0]
	r.statuses = r.statuses[1:]
	return st
}

func intPtr(v int) *int { return &v }

func panel(title, company, location, description string) string {
	return fmt.Sprintf(`<html><body>
<h1 data-testid="jobTitle">%s</h1>
<div data-testid="inlineHeader-companyName">%s</div>
<div data-testid="inlineHeader-companyLocation">%s</div>
<div id="jobDescriptionText">%s</div>
</body></html>`, title, company, location, description)
}
