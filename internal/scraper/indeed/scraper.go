package indeed

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"go-indeed-relay/internal/config"
	"go-indeed-relay/internal/dedup"
	"go-indeed-relay/internal/extract"
	"go-indeed-relay/internal/scraper"

	"github.com/google/uuid"
)

// ErrSetup marks failures that abort a whole run: no session, no search page, no card list.
var ErrSetup = errors.New("scrape setup failed")

type IndeedScraper struct {
	cfg          *config.Config
	opener       scraper.SessionOpener
	sink         scraper.Dispatcher
	rules        extract.PanelRules
	ids          extract.IdentifierExtractor
	cardSelector string
}

func NewIndeedScraper(cfg *config.Config, opener scraper.SessionOpener, sink scraper.Dispatcher) *IndeedScraper {
	sel := cfg.Selectors
	cardSelector := extract.CardSelector
	if len(sel.Cards) > 0 {
		cardSelector = strings.Join(sel.Cards, ", ")
	}
	return &IndeedScraper{
		cfg:          cfg,
		opener:       opener,
		sink:         sink,
		rules:        extract.DefaultPanelRules().Override(sel.PanelReady, sel.Title, sel.Company, sel.Location, sel.Description),
		ids:          extract.DefaultIdentifierExtractor(),
		cardSelector: cardSelector,
	}
}

func (s *IndeedScraper) Name() string {
	return "Indeed"
}

// Scrape opens a browser session for this run only and always closes it before returning.
// Records are dispatched to the sink one by one as they are extracted.
func (s *IndeedScraper) Scrape(ctx context.Context, q scraper.SearchQuery) ([]scraper.JobRecord, error) {
	if strings.TrimSpace(q.Keyword) == "" {
		return nil, scraper.ErrMissingKeyword
	}
	if q.FromAge == "" {
		q.FromAge = scraper.DefaultFromAge
	}

	runID := uuid.NewString()[:8]
	searchURL := SearchURL(s.cfg.Site.BaseURL, q)
	log.Printf("📋 [%s] Searching Indeed for %q: %s", runID, q.Keyword, searchURL)

	sess, err := s.opener.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: open browser session: %w", ErrSetup, err)
	}
	defer func() {
		if err := sess.Close(); err != nil {
			log.Printf("⚠️ [%s] Failed to close browser session: %v", runID, err)
		}
	}()

	r := s.newRun(runID, sess, searchURL, q.Keyword)
	return r.execute(ctx)
}

func (s *IndeedScraper) newRun(id string, sess scraper.Session, searchURL, keyword string) *run {
	ext := s.cfg.Extraction
	panel := extract.PanelExtractor{Rules: s.rules, Timeout: ext.PanelTimeout}
	base := s.cfg.Site.BaseURL
	return &run{
		id:        id,
		cfg:       ext,
		sess:      sess,
		sink:      s.sink,
		searchURL: searchURL,
		keyword:   keyword,
		baseURL:   base,
		selector:  s.cardSelector,
		ids:       s.ids,
		panel:     panel,
		fullPage: extract.FullPageExtractor{
			Nav:       sess,
			Doc:       sess,
			Panel:     panel,
			DetailURL: func(k extract.ListingKey) string { return ViewJobURL(base, k) },
			Settle:    ext.NavigationSettle,
		},
		seen: dedup.NewRunSet[extract.ListingKey](),
	}
}
