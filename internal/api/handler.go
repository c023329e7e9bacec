package api

import (
	"context"
	"errors"
	"log"
	"net/http"

	"go-indeed-relay/internal/scraper"
	"go-indeed-relay/internal/scraper/indeed"

	"github.com/gin-gonic/gin"
)

// RunReporter is told about the outcome of every run the handler starts.
type RunReporter interface {
	ReportRun(keyword string, records []scraper.JobRecord) error
	ReportError(keyword string, err error) error
}

type ScrapeHandler struct {
	scraper  scraper.Scraper
	reporter RunReporter // optional
}

func NewScrapeHandler(s scraper.Scraper, reporter RunReporter) *ScrapeHandler {
	return &ScrapeHandler{scraper: s, reporter: reporter}
}

func (h *ScrapeHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Indeed relay API is running!",
		"status":  "healthy",
	})
}

// RunScraper handles GET /run-scraper?keyword=&location=&fromage= and answers with every record
// extracted, in extraction order.
func (h *ScrapeHandler) RunScraper(c *gin.Context) {
	q, err := scraper.NewSearchQuery(c.Query("keyword"), c.Query("location"), c.Query("fromage"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reqID := c.GetString(requestIDKey)
	log.Printf("▶️ [req %s] %s run for %q (location=%q, fromage=%s)", reqID, h.scraper.Name(), q.Keyword, q.Location, q.FromAge)

	// records are relayed as they are extracted, so a client hanging up must not cut the run short
	ctx := context.WithoutCancel(c.Request.Context())
	records, err := h.scraper.Scrape(ctx, q)
	if err != nil {
		log.Printf("❌ [req %s] Run failed: %v", reqID, err)
		h.report(func(r RunReporter) error { return r.ReportError(q.Keyword, err) })

		status := http.StatusInternalServerError
		if errors.Is(err, indeed.ErrSetup) {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	if records == nil {
		records = []scraper.JobRecord{}
	}
	log.Printf("✅ [req %s] Run returned %d records", reqID, len(records))
	h.report(func(r RunReporter) error { return r.ReportRun(q.Keyword, records) })

	c.JSON(http.StatusOK, records)
}

func (h *ScrapeHandler) report(send func(RunReporter) error) {
	if h.reporter == nil {
		return
	}
	if err := send(h.reporter); err != nil {
		log.Printf("⚠️ Failed to send run report: %v", err)
	}
}
