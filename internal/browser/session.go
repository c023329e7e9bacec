package browser

import (
	"errors"
	"fmt"
	"time"

	"go-indeed-relay/internal/extract"
	"go-indeed-relay/utils"

	"github.com/playwright-community/playwright-go"
)

// Session is a single-tab browser owned by one scrape run.
type Session struct {
	browser       playwright.Browser
	bctx          playwright.BrowserContext
	page          playwright.Page
	navTimeout    time.Duration
	lookupTimeout time.Duration
	shots         *utils.ScreenShotDebugger
}

func (s *Session) Goto(url string) error {
	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   millis(s.navTimeout),
	})
	if err != nil {
		if s.shots != nil {
			s.shots.CaptureAndLog(s.page, "navigation-failed", fmt.Sprintf("Navigation to %s failed", url))
		}
		return fmt.Errorf("goto %s: %w", url, err)
	}
	return nil
}

func (s *Session) Text(selector string) (string, error) {
	loc := s.page.Locator(selector)
	n, err := loc.Count()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", extract.ErrNotFound
	}
	return loc.First().InnerText(playwright.LocatorInnerTextOptions{Timeout: millis(s.lookupTimeout)})
}

func (s *Session) WaitVisible(selector string, timeout time.Duration) error {
	return s.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: millis(timeout),
	})
}

func (s *Session) CountCards(selector string) (int, error) {
	return s.page.Locator(selector).Count()
}

// CardAt resolves the selector again and returns a handle to whatever element is at index now.
func (s *Session) CardAt(selector string, index int) (extract.Card, error) {
	loc := s.page.Locator(selector)
	n, err := loc.Count()
	if err != nil {
		return nil, err
	}
	if index >= n {
		return nil, fmt.Errorf("card %d of %d: %w", index, n, extract.ErrNotFound)
	}
	return &card{loc: loc.Nth(index), timeout: s.lookupTimeout}, nil
}

// Close tears down the tab, its context and the browser process.
func (s *Session) Close() error {
	return errors.Join(s.bctx.Close(), s.browser.Close())
}

type card struct {
	loc     playwright.Locator
	timeout time.Duration
}

func (c *card) Attribute(name string) (string, error) {
	return c.loc.GetAttribute(name, playwright.LocatorGetAttributeOptions{Timeout: millis(c.timeout)})
}

// AnchorHref prefers a link nested in the card and falls back to the card's own href, since
// some layouts render the whole card as an anchor.
func (c *card) AnchorHref() (string, error) {
	inner := c.loc.Locator("a[href]")
	n, err := inner.Count()
	if err != nil {
		return "", err
	}
	if n > 0 {
		return inner.First().GetAttribute("href", playwright.LocatorGetAttributeOptions{Timeout: millis(c.timeout)})
	}
	href, err := c.Attribute("href")
	if err != nil {
		return "", err
	}
	if href == "" {
		return "", extract.ErrNotFound
	}
	return href, nil
}

func (c *card) ScrollIntoView() error {
	_, err := c.loc.Evaluate("el => el.scrollIntoView({block: 'center'})", nil, playwright.LocatorEvaluateOptions{Timeout: millis(c.timeout)})
	return err
}

func (c *card) Click() error {
	return c.loc.Click(playwright.LocatorClickOptions{Timeout: millis(c.timeout)})
}

// ForceClick dispatches click() from page script, bypassing actionability checks and overlays.
func (c *card) ForceClick() error {
	_, err := c.loc.Evaluate("el => el.click()", nil, playwright.LocatorEvaluateOptions{Timeout: millis(c.timeout)})
	return err
}
