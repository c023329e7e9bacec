package sink

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"go-indeed-relay/internal/scraper"
)

// HTTPDispatcher POSTs each listing as JSON to a fixed ingestion endpoint.
type HTTPDispatcher struct {
	url        string
	httpClient *http.Client
}

// NewHTTPDispatcher builds a dispatcher whose round trips are bounded by timeout. Certificate
// verification stays on unless insecureSkipVerify is set.
func NewHTTPDispatcher(url string, timeout time.Duration, insecureSkipVerify bool) *HTTPDispatcher {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if insecureSkipVerify {
		log.Printf("⚠️ TLS certificate verification disabled for sink %s", url)
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &HTTPDispatcher{
		url: url,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// Dispatch sends rec without its status field and returns the response code. Any transport
// failure (refused, timeout, TLS) is logged and reported as nil.
func (d *HTTPDispatcher) Dispatch(ctx context.Context, rec scraper.JobRecord) *int {
	jsonData, err := json.Marshal(rec.Listing)
	if err != nil {
		log.Printf("      ⚠️ API Error: failed to marshal %s: %v", rec.Key, err)
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(jsonData))
	if err != nil {
		log.Printf("      ⚠️ API Error: failed to create request: %v", err)
		return nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		log.Printf("      ⚠️ API Error: %v", err)
		return nil
	}
	defer resp.Body.Close()
	// drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)

	status := resp.StatusCode
	log.Printf("      📤 API Status: %d for %s", status, rec.Key)
	return &status
}
