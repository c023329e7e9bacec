package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go-indeed-relay/internal/api"
	"go-indeed-relay/internal/browser"
	"go-indeed-relay/internal/config"
	"go-indeed-relay/internal/reporter"
	"go-indeed-relay/internal/scraper/indeed"
	"go-indeed-relay/internal/sink"
)

// shutdownGrace lets an in-flight run finish after SIGTERM.
const shutdownGrace = 5 * time.Minute

func main() {
	cfg := config.Load()
	log.Printf("🔧 Config loaded. Site: %s, sink: %s", cfg.Site.BaseURL, cfg.Sink.Kind)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dispatcher, closeSink, err := sink.New(ctx, cfg.Sink)
	if err != nil {
		log.Fatalf("❌ Failed to init sink: %v", err)
	}
	defer closeSink()

	pwManager, err := browser.NewPlaywright(cfg.Browser)
	if err != nil {
		log.Fatalf("❌ Failed to init Playwright: %v", err)
	}
	defer pwManager.Close()

	var runReporter api.RunReporter
	if cfg.TelegramEnabled() {
		tg, err := reporter.NewTelegramReporter(cfg.Telegram)
		if err != nil {
			log.Printf("⚠️ Telegram disabled: %v", err)
		} else {
			runReporter = tg
			log.Println("🤖 Telegram reporter initialized.")
		}
	}

	handler := api.NewScrapeHandler(indeed.NewIndeedScraper(cfg, pwManager, dispatcher), runReporter)
	srv, err := api.NewServer(":"+cfg.Server.Port, handler)
	if err != nil {
		log.Fatalf("❌ Failed to init server: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("❌ Server error: %v", err)
		}
	case <-ctx.Done():
		log.Println("🛑 Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("⚠️ Graceful shutdown failed: %v", err)
		}
	}
}
