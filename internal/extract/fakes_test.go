package extract

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

var errTimeout = errors.New("timeout waiting for selector")

// htmlDoc is a Document over a static HTML snapshot.
type htmlDoc struct {
	doc *goquery.Document
}

func newHTMLDoc(t *testing.T, html string) *htmlDoc {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return &htmlDoc{doc: doc}
}

func (d *htmlDoc) Text(selector string) (string, error) {
	sel := d.doc.Find(selector).First()
	if sel.Length() == 0 {
		return "", ErrNotFound
	}
	return sel.Text(), nil
}

func (d *htmlDoc) WaitVisible(selector string, _ time.Duration) error {
	if d.doc.Find(selector).Length() == 0 {
		return errTimeout
	}
	return nil
}

// pages is a Navigator + Document that serves one HTML snapshot per URL.
type pages struct {
	t       *testing.T
	html    map[string]string
	failing map[string]bool
	current *htmlDoc
	visits  []string
}

func (p *pages) Goto(url string) error {
	p.visits = append(p.visits, url)
	if p.failing[url] {
		return errors.New("net::ERR_CONNECTION_RESET")
	}
	p.current = newHTMLDoc(p.t, p.html[url])
	return nil
}

func (p *pages) Text(selector string) (string, error) {
	if p.current == nil {
		return "", ErrNotFound
	}
	return p.current.Text(selector)
}

func (p *pages) WaitVisible(selector string, timeout time.Duration) error {
	if p.current == nil {
		return errTimeout
	}
	return p.current.WaitVisible(selector, timeout)
}

type fakeCard struct {
	attrs   map[string]string
	attrErr error
	href    string
	clicked int
}

func (c *fakeCard) Attribute(name string) (string, error) {
	if c.attrErr != nil {
		return "", c.attrErr
	}
	return c.attrs[name], nil
}

func (c *fakeCard) AnchorHref() (string, error) {
	if c.href == "" {
		return "", ErrNotFound
	}
	return c.href, nil
}

func (c *fakeCard) ScrollIntoView() error { return nil }
func (c *fakeCard) Click() error          { c.clicked++; return nil }
func (c *fakeCard) ForceClick() error     { c.clicked++; return nil }

const panelHTML = `<html><body>
<div class="jobsearch-RightPane">
  <h1 data-testid="jobTitle">Data Engineer
     - job post</h1>
  <div data-testid="inlineHeader-companyName"><a>Acme Corp</a></div>
  <div id="jobLocationText">  Austin, TX  </div>
  <div id="jobDescriptionText"><p>Build pipelines.</p><p>Own the warehouse.</p></div>
</div>
</body></html>`
