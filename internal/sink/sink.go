// Package sink relays extracted listings to where they are stored.
package sink

import (
	"context"
	"fmt"

	"go-indeed-relay/internal/config"
	"go-indeed-relay/internal/scraper"
)

// New builds the dispatcher selected by cfg.Kind. The returned close func releases its resources.
func New(ctx context.Context, cfg config.SinkConfig) (scraper.Dispatcher, func(), error) {
	switch cfg.Kind {
	case config.SinkHTTP:
		return NewHTTPDispatcher(cfg.URL, cfg.Timeout, cfg.InsecureSkipVerify), func() {}, nil
	case config.SinkPostgres:
		pg, err := NewPostgresDispatcher(ctx, cfg.DatabaseURL, cfg.Timeout)
		if err != nil {
			return nil, nil, err
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, nil, err
		}
		return pg, pg.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown sink kind %q", cfg.Kind)
	}
}
