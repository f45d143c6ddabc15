package logger

import (
	"context"

	"github.com/brokerdesk/brokerdesk/internal/types"
)

// WithContext returns a logger carrying the request, tenant and user ids found
// in ctx. Missing ids are left out.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	var fields []interface{}
	if id := types.GetRequestID(ctx); id != "" {
		fields = append(fields, "request_id", id)
	}
	if id := types.GetTenantID(ctx); id != "" {
		fields = append(fields, "tenant_id", id)
	}
	if id := types.GetUserID(ctx); id != "" {
		fields = append(fields, "user_id", id)
	}
	if len(fields) == 0 {
		return l
	}
	return &Logger{SugaredLogger: l.SugaredLogger.With(fields...)}
}
