package postgres

import (
	"context"

	ierr "github.com/dojocycle/dojocycle/internal/errors"
	"github.com/dojocycle/dojocycle/internal/logger"
	sentryService "github.com/dojocycle/dojocycle/internal/sentry"
)

// SentryClient wraps the database with Sentry span tracking around transactions
type SentryClient struct {
	db     *DB
	sentry *sentryService.Service
	logger *logger.Logger
}

// NewSentryClient creates a new Sentry-instrumented transaction client
func NewSentryClient(db *DB, sentry *sentryService.Service, logger *logger.Logger) IClient {
	return &SentryClient{
		db:     db,
		sentry: sentry,
		logger: logger,
	}
}

// WithTx wraps the given function in a transaction with Sentry span tracking
func (c *SentryClient) WithTx(ctx context.Context, fn func(context.Context) error) error {
	span, spanCtx := c.sentry.StartDBSpan(ctx, "postgres.transaction", map[string]interface{}{
		"operation": "transaction",
	})
	if span != nil {
		defer span.Finish()
	}

	return c.db.WithTx(spanCtx, fn)
}

func (c *SentryClient) Ping(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return ierr.WithError(err).
			WithHint("Database is unreachable").
			Mark(ierr.ErrDatabase)
	}
	return nil
}
