package indeed

import (
	"context"
	"fmt"
	"log"

	"go-indeed-relay/internal/config"
	"go-indeed-relay/internal/dedup"
	"go-indeed-relay/internal/extract"
	"go-indeed-relay/internal/scraper"
)

// run is the state of one extraction pass over a results page. It owns the session and the
// seen-keys set for its lifetime.
type run struct {
	id        string
	cfg       config.ExtractionConfig
	sess      scraper.Session
	sink      scraper.Dispatcher
	searchURL string
	keyword   string
	baseURL   string
	selector  string
	ids       extract.IdentifierExtractor
	panel     extract.PanelExtractor
	fullPage  extract.FullPageExtractor
	seen      *dedup.RunSet[extract.ListingKey]
}

func (r *run) execute(ctx context.Context) ([]scraper.JobRecord, error) {
	if err := r.sess.Goto(r.searchURL); err != nil {
		return nil, fmt.Errorf("%w: load search page: %w", ErrSetup, err)
	}
	if err := extract.Settle(ctx, r.cfg.InitialSettle); err != nil {
		return nil, err
	}

	cards, err := extract.NewCardEnumerator(r.sess, r.selector)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSetup, err)
	}
	log.Printf("    📦 [%s] Found %d job cards", r.id, cards.Len())

	results := make([]scraper.JobRecord, 0, cards.Len())
	failed := 0
	for i := 0; i < cards.Len(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, err := r.processCard(ctx, cards, i)
		if err != nil {
			failed++
			log.Printf("      ❌ [%s] Card %d failed: %v", r.id, i, err)
			continue
		}
		if rec == nil {
			continue
		}
		results = append(results, *rec)
	}

	log.Printf("🏁 [%s] Run finished: %d records, %d unique keys, %d failed cards", r.id, len(results), r.seen.Len(), failed)
	return results, nil
}

// processCard takes one card from activation to dispatch. A nil record with a nil error means
// the card was skipped.
func (r *run) processCard(ctx context.Context, cards *extract.CardEnumerator, i int) (*scraper.JobRecord, error) {
	card, err := cards.At(i)
	if err != nil {
		return nil, err
	}

	if err := r.activate(ctx, card); err != nil {
		return nil, fmt.Errorf("activate: %w", err)
	}

	key, ok := r.ids.Extract(card)
	if !ok {
		log.Printf("      ⏭️ [%s] Card %d has no listing key, skipping", r.id, i)
		return nil, nil
	}
	if !r.seen.Claim(key) {
		log.Printf("      ⏭️ [%s] Card %d duplicates %s, skipping", r.id, i, key)
		return nil, nil
	}

	fields := r.panel.Extract(r.sess)
	fields.Title = extract.NormalizeTitle(fields.Title)

	if extract.ContentLength(fields.Description) < r.cfg.MinDescriptionChars {
		log.Printf("      🔁 [%s] Panel description too short for %s, opening detail page", r.id, key)
		full, err := r.fullPage.Extract(ctx, key, r.searchURL)
		if err != nil {
			return nil, fmt.Errorf("detail page fallback for %s: %w", key, err)
		}
		fields = full
		fields.Title = extract.NormalizeTitle(fields.Title)
	}

	rec := r.assemble(key, fields)
	rec.Status = r.sink.Dispatch(ctx, rec)

	log.Printf("      ✅ [%s] %s - %s (%s)", r.id, rec.Title, rec.CompanyName, key)
	return &rec, nil
}

// activate brings the card into view and opens its panel, forcing the click when the page
// rejects a simulated one.
func (r *run) activate(ctx context.Context, card extract.Card) error {
	if err := card.ScrollIntoView(); err != nil {
		return fmt.Errorf("scroll into view: %w", err)
	}
	if err := extract.Settle(ctx, r.cfg.ScrollSettle); err != nil {
		return err
	}

	if err := card.Click(); err != nil {
		log.Printf("      🖱️ [%s] Click rejected (%v), forcing", r.id, err)
		if err := card.ForceClick(); err != nil {
			return fmt.Errorf("force click: %w", err)
		}
	}
	return extract.Settle(ctx, r.cfg.ClickSettle)
}

func (r *run) assemble(key extract.ListingKey, f extract.Fields) scraper.JobRecord {
	return scraper.JobRecord{
		Key: string(key),
		Listing: scraper.Listing{
			Title:           f.Title,
			CompanyName:     f.Company,
			CompanyLocation: f.Location,
			Description:     extract.Truncate(f.Description, r.cfg.MaxDescriptionChars),
			SourceURL:       ViewJobURL(r.baseURL, key),
			QueryString:     r.keyword,
		},
	}
}
