package cache

import (
	"context"

	"github.com/getsentry/sentry-go"
)

// traceGet opens a sentry span for a lookup when the request carries a hub.
// The returned func records the outcome and closes the span.
func traceGet(ctx context.Context, backend, key string) func(hit bool) {
	if sentry.GetHubFromContext(ctx) == nil {
		return func(bool) {}
	}

	span := sentry.StartSpan(ctx, "db.cache")
	span.Description = "cache." + backend + ".get"
	span.SetData("key", key)

	return func(hit bool) {
		span.SetData("hit", hit)
		span.Finish()
	}
}
