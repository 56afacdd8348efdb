package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	ierr "github.com/dojocycle/dojocycle/internal/errors"
	"github.com/dojocycle/dojocycle/internal/logger"
	"github.com/dojocycle/dojocycle/internal/types"
)

// slowQuery is the duration above which a successful query is logged at warn level.
const slowQuery = 250 * time.Millisecond

// queryTracer logs one statement with its duration, tenant and transaction.
type queryTracer struct {
	logger   *logger.Logger
	query    string
	params   interface{}
	tenantID string
	txID     string
	start    time.Time
}

func newQueryTracer(ctx context.Context, logger *logger.Logger, query string, params interface{}, txID string) *queryTracer {
	return &queryTracer{
		logger:   logger,
		query:    query,
		params:   params,
		tenantID: types.GetTenantID(ctx),
		txID:     txID,
		start:    time.Now(),
	}
}

// done logs the outcome. sql.ErrNoRows is a lookup miss, not a failure.
func (qt *queryTracer) done(err error) {
	elapsed := time.Since(qt.start)
	fields := []interface{}{
		"duration_ms", elapsed.Milliseconds(),
		"query", qt.query,
		"params", fmt.Sprintf("%+v", qt.params),
		"tenant_id", qt.tenantID,
	}
	if qt.txID != "" {
		fields = append(fields, "tx_id", qt.txID)
	}

	switch {
	case err != nil && !ierr.Is(err, sql.ErrNoRows):
		fields = append(fields, "error", err.Error())
		qt.logger.Errorw("database query failed", fields...)
	case elapsed > slowQuery:
		qt.logger.Warnw("slow database query", fields...)
	default:
		qt.logger.Debugw("database query completed", fields...)
	}
}

// TracedQuerier logs every statement run through the wrapped Querier.
type TracedQuerier struct {
	Querier
	logger *logger.Logger
	txID   string
}

func NewTracedQuerier(q Querier, logger *logger.Logger, txID string) *TracedQuerier {
	return &TracedQuerier{
		Querier: q,
		logger:  logger,
		txID:    txID,
	}
}

func (tq *TracedQuerier) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	tracer := newQueryTracer(ctx, tq.logger, query, args, tq.txID)
	result, err := tq.Querier.ExecContext(ctx, query, args...)
	tracer.done(err)
	return result, err
}

func (tq *TracedQuerier) NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error) {
	tracer := newQueryTracer(ctx, tq.logger, query, arg, tq.txID)
	result, err := tq.Querier.NamedExecContext(ctx, query, arg)
	tracer.done(err)
	return result, err
}

func (tq *TracedQuerier) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	tracer := newQueryTracer(ctx, tq.logger, query, args, tq.txID)
	err := tq.Querier.GetContext(ctx, dest, query, args...)
	tracer.done(err)
	return err
}

func (tq *TracedQuerier) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	tracer := newQueryTracer(ctx, tq.logger, query, args, tq.txID)
	err := tq.Querier.SelectContext(ctx, dest, query, args...)
	tracer.done(err)
	return err
}
