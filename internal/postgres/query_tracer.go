package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/brokerdesk/brokerdesk/internal/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// slowQuery is the duration above which a statement is logged at warn
const slowQuery = 250 * time.Millisecond

var queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "brokerdesk_db_query_duration_seconds",
	Help:    "Duration of database statements by verb and outcome.",
	Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
}, []string{"verb", "outcome"})

// TracedQuerier times every statement, records it in a histogram and logs it
// with the request ids found in the context.
type TracedQuerier struct {
	Querier
	logger *logger.Logger
	txID   string
}

// NewTracedQuerier wraps q. txID is empty outside a transaction.
func NewTracedQuerier(q Querier, logger *logger.Logger, txID string) *TracedQuerier {
	return &TracedQuerier{
		Querier: q,
		logger:  logger,
		txID:    txID,
	}
}

// trace starts the clock for query and returns the func that stops it
func (tq *TracedQuerier) trace(ctx context.Context, query string, args []interface{}) func(error) {
	start := time.Now()
	return func(err error) {
		elapsed := time.Since(start)

		outcome := "ok"
		// no rows is an answer, not a failure
		if err != nil && !IsNoRows(err) {
			outcome = "error"
		}
		queryDuration.WithLabelValues(verb(query), outcome).Observe(elapsed.Seconds())

		fields := []interface{}{
			"duration_ms", elapsed.Milliseconds(),
			"query", query,
			"args", len(args),
		}
		if tq.txID != "" {
			fields = append(fields, "tx_id", tq.txID)
		}

		log := tq.logger.WithContext(ctx)
		switch {
		case outcome == "error":
			log.Errorw("database query failed", append(fields, "error", err.Error())...)
		case elapsed > slowQuery:
			log.Warnw("slow database query", fields...)
		default:
			log.Debugw("database query completed", fields...)
		}
	}
}

// verb is the leading SQL keyword, used as a low cardinality label
func verb(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.ToLower(fields[0])
}

func (tq *TracedQuerier) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	done := tq.trace(ctx, query, args)
	result, err := tq.Querier.ExecContext(ctx, query, args...)
	done(err)
	return result, err
}

func (tq *TracedQuerier) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	done := tq.trace(ctx, query, args)
	rows, err := tq.Querier.QueryContext(ctx, query, args...)
	done(err)
	return rows, err
}

func (tq *TracedQuerier) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	done := tq.trace(ctx, query, args)
	err := tq.Querier.GetContext(ctx, dest, query, args...)
	done(err)
	return err
}

func (tq *TracedQuerier) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	done := tq.trace(ctx, query, args)
	err := tq.Querier.SelectContext(ctx, dest, query, args...)
	done(err)
	return err
}

func (tq *TracedQuerier) NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error) {
	done := tq.trace(ctx, query, []interface{}{arg})
	result, err := tq.Querier.NamedExecContext(ctx, query, arg)
	done(err)
	return result, err
}
