package sink

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"go-indeed-relay/internal/scraper"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS job_listings (
	listing_key      TEXT PRIMARY KEY,
	title            TEXT NOT NULL,
	company_name     TEXT NOT NULL,
	company_location TEXT NOT NULL,
	description      TEXT NOT NULL,
	source_url       TEXT NOT NULL,
	query_string     TEXT NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// xmax is 0 only for a freshly inserted row version.
const upsertListing = `
INSERT INTO job_listings (listing_key, title, company_name, company_location, description, source_url, query_string)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (listing_key)
DO UPDATE SET title = EXCLUDED.title, company_name = EXCLUDED.company_name,
	company_location = EXCLUDED.company_location, description = EXCLUDED.description,
	source_url = EXCLUDED.source_url, query_string = EXCLUDED.query_string, updated_at = now()
RETURNING (xmax = 0) AS inserted`

// PostgresDispatcher upserts listings straight into a job_listings table, for deployments
// without an ingestion API. Statuses mirror HTTP: 201 created, 200 updated.
type PostgresDispatcher struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresDispatcher(ctx context.Context, connString string, timeout time.Duration) (*PostgresDispatcher, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour

	// PgBouncer in transaction mode cannot keep prepared statements.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &PostgresDispatcher{db: pool, timeout: timeout}, nil
}

func (d *PostgresDispatcher) EnsureSchema(ctx context.Context) error {
	if _, err := d.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create job_listings table: %w", err)
	}
	return nil
}

func (d *PostgresDispatcher) Dispatch(ctx context.Context, rec scraper.JobRecord) *int {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	l := rec.Listing
	var inserted bool
	err := d.db.QueryRow(ctx, upsertListing, rec.Key, l.Title, l.CompanyName, l.CompanyLocation, l.Description, l.SourceURL, l.QueryString).
		Scan(&inserted)
	if err != nil {
		log.Printf("      ⚠️ DB Error: failed to save %s: %v", rec.Key, err)
		return nil
	}

	status := http.StatusOK
	if inserted {
		status = http.StatusCreated
	}
	log.Printf("      💾 DB Status: %d for %s", status, rec.Key)
	return &status
}

func (d *PostgresDispatcher) Close() {
	if d.db != nil {
		d.db.Close()
	}
}
