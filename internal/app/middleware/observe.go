package middleware

import (
	"context"
	"log/slog"
	"time"

	"staysearch/internal/app/queries"
)

// QueryLogging logs every query with its key, duration and outcome.
func QueryLogging(log *slog.Logger) QueryMiddleware {
	if log == nil {
		panic("middleware: logger required")
	}
	return func(next queries.Bus) queries.Bus {
		nextFn := wrapQuery(next)
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			start := time.Now()
			res, err := nextFn(ctx, q)
			if err != nil {
				log.WarnContext(ctx, "query failed", "query", q.Key(), "duration", time.Since(start), "error", err)
				return res, err
			}
			log.DebugContext(ctx, "query handled", "query", q.Key(), "duration", time.Since(start))
			return res, nil
		})
	}
}

// QueryObserver receives timing for each handled query.
type QueryObserver interface {
	ObserveQuery(key string, d time.Duration, err error)
}

func QueryMetrics(o QueryObserver) QueryMiddleware {
	if o == nil {
		panic("middleware: observer required")
	}
	return func(next queries.Bus) queries.Bus {
		nextFn := wrapQuery(next)
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			start := time.Now()
			res, err := nextFn(ctx, q)
			o.ObserveQuery(q.Key(), time.Since(start), err)
			return res, err
		})
	}
}
