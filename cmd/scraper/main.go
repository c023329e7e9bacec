package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"go-indeed-relay/internal/browser"
	"go-indeed-relay/internal/config"
	"go-indeed-relay/internal/reporter"
	"go-indeed-relay/internal/scraper"
	"go-indeed-relay/internal/scraper/indeed"
	"go-indeed-relay/internal/sink"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "indeed-scrape",
		Usage: "run one Indeed search, relay every listing to the sink and save the results",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "keyword", Aliases: []string{"k"}, Usage: "search keyword", Required: true},
			&cli.StringFlag{Name: "location", Aliases: []string{"l"}, Usage: "search location"},
			&cli.StringFlag{Name: "fromage", Value: scraper.DefaultFromAge, Usage: "only listings posted within this many days"},
			&cli.StringFlag{Name: "config", Value: config.DefaultPath, Usage: "config file"},
			&cli.StringFlag{Name: "out", Value: "logs", Usage: "directory for the results file"},
			&cli.DurationFlag{Name: "timeout", Value: 10 * time.Minute, Usage: "abort the run after this long"},
			&cli.BoolFlag{Name: "headless", Usage: "override browser.headless"},
		},
		Action: scrapeAction,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

func scrapeAction(c *cli.Context) error {
	cfg := config.MustLoad(c.String("config"))
	if c.IsSet("headless") {
		cfg.Browser.Headless = c.Bool("headless")
	}

	q, err := scraper.NewSearchQuery(c.String("keyword"), c.String("location"), c.String("fromage"))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
	defer cancel()

	log.Println("🚀 Starting Indeed relay (one-shot)...")

	dispatcher, closeSink, err := sink.New(ctx, cfg.Sink)
	if err != nil {
		return fmt.Errorf("init sink: %w", err)
	}
	defer closeSink()

	pwManager, err := browser.NewPlaywright(cfg.Browser)
	if err != nil {
		return fmt.Errorf("init playwright: %w", err)
	}
	defer pwManager.Close()

	s := indeed.NewIndeedScraper(cfg, pwManager, dispatcher)
	log.Printf("\n▶️ Starting scraper: %s", s.Name())
	records, err := s.Scrape(ctx, q)
	if err != nil {
		return fmt.Errorf("scraper %s: %w", s.Name(), err)
	}

	delivered, rejected, unreachable := reporter.DispatchCounts(records)
	log.Printf("📦 %d records (delivered %d, rejected %d, unreachable %d)", len(records), delivered, rejected, unreachable)

	if cfg.TelegramEnabled() {
		if tg, err := reporter.NewTelegramReporter(cfg.Telegram); err != nil {
			log.Printf("⚠️ Telegram disabled: %v", err)
		} else if err := tg.ReportRun(q.Keyword, records); err != nil {
			log.Printf("⚠️ Failed to send run report: %v", err)
		}
	}

	path, err := saveRecords(c.String("out"), records, time.Now())
	if err != nil {
		return err
	}
	if path != "" {
		log.Printf("📁 Results saved to %s", path)
	}
	log.Println("🏁 Execution finished.")
	return nil
}

// saveRecords writes records to dir/indeed-YYYY-MM-DD_HH-MM-SS.json. Nothing is written for an
// empty run.
func saveRecords(dir string, records []scraper.JobRecord, now time.Time) (string, error) {
	if len(records) == 0 {
		log.Println("ℹ️ No records to save.")
		return "", nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(records, "", " ")
	if err != nil {
		return "", fmt.Errorf("marshal records: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("indeed-%s.json", now.Format("2006-01-02_15-04-05")))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
