package indeed

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"go-indeed-relay/internal/config"
	"go-indeed-relay/internal/scraper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dataEngineerSearch = "https://www.indeed.com/jobs?q=data+engineer&l=&fromage=1"

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Sink.URL = "http://sink.invalid/jobs"
	cfg.Extraction.InitialSettle = 0
	cfg.Extraction.ScrollSettle = 0
	cfg.Extraction.ClickSettle = 0
	cfg.Extraction.NavigationSettle = 0
	return cfg
}

func newSession(t *testing.T, listings ...*listing) *fakeSession {
	return &fakeSession{
		t:         t,
		searchURL: dataEngineerSearch,
		listings:  listings,
		detail:    map[string]string{},
		gotoErr:   map[string]error{},
	}
}

func scrape(t *testing.T, sess *fakeSession, sink *recordingSink) ([]scraper.JobRecord, error) {
	t.Helper()
	s := NewIndeedScraper(testConfig(), &fakeOpener{sess: sess}, sink)
	q, err := scraper.NewSearchQuery("data engineer", "", "")
	require.NoError(t, err)
	return s.Scrape(context.Background(), q)
}

func TestScrapeTwoCards(t *testing.T) {
	sess := newSession(t,
		&listing{key: "abc123", panel: panel("Data Engineer\n - job post", "Acme Corp", "Austin, TX", "Build data pipelines.")},
		&listing{href: "/rc/clk?jk=xyz789&from=serp", panel: panel("Analytics Engineer", "Globex", "Remote", "Own the warehouse.")},
	)
	sink := &recordingSink{}

	records, err := scrape(t, sess, sink)
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "abc123", first.Key)
	assert.Equal(t, "Data Engineer", first.Title)
	assert.Equal(t, "Acme Corp", first.CompanyName)
	assert.Equal(t, "Austin, TX", first.CompanyLocation)
	assert.Equal(t, "Build data pipelines.", first.Description)
	assert.Equal(t, "https://www.indeed.com/viewjob?jk=abc123", first.SourceURL)
	assert.Equal(t, "data engineer", first.QueryString)
	require.NotNil(t, first.Status)
	assert.Equal(t, 201, *first.Status)

	assert.Equal(t, "xyz789", records[1].Key)
	assert.Equal(t, "https://www.indeed.com/viewjob?jk=xyz789", records[1].SourceURL)

	assert.Len(t, sink.got, 2)
	assert.True(t, sess.closed)
	assert.Equal(t, []string{dataEngineerSearch}, sess.visits)
}

func TestScrapeSkipsDuplicatesAndKeylessCards(t *testing.T) {
	body := panel("Data Engineer", "Acme Corp", "Austin, TX", "Build data pipelines.")
	sess := newSession(t,
		&listing{key: "abc123", panel: body},
		&listing{href: "/viewjob?jk=abc123", panel: body},
		&listing{href: "/pagead/clk?ad=1", panel: body},
		&listing{key: "def456", panel: body},
	)
	sink := &recordingSink{}

	records, err := scrape(t, sess, sink)
	require.NoError(t, err)

	keys := make([]string, 0, len(records))
	for _, r := range records {
		keys = append(keys, r.Key)
	}
	assert.Equal(t, []string{"abc123", "def456"}, keys)
	assert.Len(t, sink.got, 2)
}

func TestScrapeFallsBackToDetailPage(t *testing.T) {
	sess := newSession(t,
		&listing{key: "abc123", panel: panel("Data Engineer", "Acme Corp", "Austin, TX", " a b ")},
	)
	detailURL := "https://www.indeed.com/viewjob?jk=abc123"
	sess.detail[detailURL] = panel("Senior Data Engineer - job post", "Acme Corporation", "Austin, Texas", "A much longer description of the role.")

	records, err := scrape(t, sess, &recordingSink{})
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "Senior Data Engineer", rec.Title)
	assert.Equal(t, "Acme Corporation", rec.CompanyName)
	assert.Equal(t, "Austin, Texas", rec.CompanyLocation)
	assert.Equal(t, "A much longer description of the role.", rec.Description)
	assert.Equal(t, []string{dataEngineerSearch, detailURL, dataEngineerSearch}, sess.visits)
}

func TestScrapeDetailPageFailureFailsOnlyThatCard(t *testing.T) {
	sess := newSession(t,
		&listing{key: "abc123", panel: panel("Data Engineer", "Acme Corp", "Austin, TX", "")},
		&listing{key: "def456", panel: panel("ML Engineer", "Initech", "Remote", "Train the models.")},
	)
	detailURL := "https://www.indeed.com/viewjob?jk=abc123"
	sess.gotoErr[detailURL] = errors.New("net::ERR_CONNECTION_RESET")

	records, err := scrape(t, sess, &recordingSink{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "def456", records[0].Key)
	// the session went back to the results page after the failed detail visit
	assert.Equal(t, []string{dataEngineerSearch, detailURL, dataEngineerSearch}, sess.visits)
}

func TestScrapeKeepsRecordWhenSinkUnreachable(t *testing.T) {
	body := panel("Data Engineer", "Acme Corp", "Austin, TX", "Build data pipelines.")
	sess := newSession(t,
		&listing{key: "abc123", panel: body},
		&listing{key: "def456", panel: body},
	)
	sink := &recordingSink{statuses: []*int{nil, intPtr(500)}}

	records, err := scrape(t, sess, sink)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Nil(t, records[0].Status)
	require.NotNil(t, records[1].Status)
	assert.Equal(t, 500, *records[1].Status)
}

func TestScrapeForcesRejectedClick(t *testing.T) {
	sess := newSession(t,
		&listing{key: "abc123", rejectClick: true, panel: panel("Data Engineer", "Acme Corp", "Austin, TX", "Build data pipelines.")},
	)

	records, err := scrape(t, sess, &recordingSink{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1, sess.forced)
	assert.Equal(t, "Acme Corp", records[0].CompanyName)
}

func TestScrapeSurvivesVanishingCard(t *testing.T) {
	body := panel("Data Engineer", "Acme Corp", "Austin, TX", "Build data pipelines.")
	sess := newSession(t)
	sess.listings = []*listing{
		{key: "abc123", panel: body, onActivate: func(s *fakeSession) {
			// the results list re-renders one card shorter
			s.listings = s.listings[:2]
		}},
		{key: "def456", panel: body},
		{key: "ghi789", panel: body},
	}

	records, err := scrape(t, sess, &recordingSink{})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "abc123", records[0].Key)
	assert.Equal(t, "def456", records[1].Key)
}

func TestScrapeTruncatesDescription(t *testing.T) {
	long := strings.Repeat("é", 2500)
	sess := newSession(t,
		&listing{key: "abc123", panel: panel("Data Engineer", "Acme Corp", "Austin, TX", long)},
	)

	records, err := scrape(t, sess, &recordingSink{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 2000, utf8.RuneCountInString(records[0].Description))
}

func TestScrapeSearchPageFailure(t *testing.T) {
	sess := newSession(t, &listing{key: "abc123"})
	sess.gotoErr[dataEngineerSearch] = errors.New("net::ERR_NAME_NOT_RESOLVED")
	sink := &recordingSink{}

	records, err := scrape(t, sess, sink)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSetup)
	assert.Nil(t, records)
	assert.Empty(t, sink.got)
	assert.True(t, sess.closed)
}

func TestScrapeOpenFailure(t *testing.T) {
	opener := &fakeOpener{err: errors.New("browser binary missing")}
	s := NewIndeedScraper(testConfig(), opener, &recordingSink{})

	_, err := s.Scrape(context.Background(), scraper.SearchQuery{Keyword: "go"})
	assert.ErrorIs(t, err, ErrSetup)
	assert.Equal(t, 1, opener.opened)
}

func TestScrapeRequiresKeyword(t *testing.T) {
	opener := &fakeOpener{sess: newSession(t)}
	s := NewIndeedScraper(testConfig(), opener, &recordingSink{})

	_, err := s.Scrape(context.Background(), scraper.SearchQuery{Keyword: "  "})
	assert.ErrorIs(t, err, scraper.ErrMissingKeyword)
	assert.Zero(t, opener.opened)
}

func TestScrapeCancelledContext(t *testing.T) {
	sess := newSession(t, &listing{key: "abc123", panel: panel("Data Engineer", "Acme Corp", "Austin, TX", "Build data pipelines.")})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewIndeedScraper(testConfig(), &fakeOpener{sess: sess}, &recordingSink{})
	_, err := s.Scrape(ctx, scraper.SearchQuery{Keyword: "data engineer"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, sess.closed)
}

func TestSelectorOverrides(t *testing.T) {
	cfg := testConfig()
	cfg.Selectors.Cards = []string{"li.result", "div.card"}
	cfg.Selectors.Company = []string{"span.employer"}

	s := NewIndeedScraper(cfg, &fakeOpener{}, &recordingSink{})
	assert.Equal(t, "li.result, div.card", s.cardSelector)
	require.Len(t, s.rules.Company, 1)
	assert.Equal(t, "span.employer", s.rules.Company[0].Selector)
	assert.NotEmpty(t, s.rules.Title)
	assert.Equal(t, "Indeed", s.Name())
}
