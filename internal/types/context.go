package types

import (
	"context"
)

// ContextKey is a type for the keys of values stored in the context
type ContextKey string

const (
	CtxRequestID ContextKey = "ctx_request_id"
	CtxTenantID  ContextKey = "ctx_tenant_id"
	CtxUserID    ContextKey = "ctx_user_id"
	CtxSession   ContextKey = "ctx_session"
	CtxJWT       ContextKey = "ctx_jwt"

	// Default values
	DefaultTenantID = "00000000-0000-0000-0000-000000000000"
	DefaultUserID   = "00000000-0000-0000-0000-000000000000"
)

const (
	HeaderAuthorization = "Authorization"
	HeaderRequestID     = "X-Request-ID"
)

func GetUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(CtxUserID).(string); ok {
		return userID
	}
	return ""
}

func GetTenantID(ctx context.Context) string {
	if tenantID, ok := ctx.Value(CtxTenantID).(string); ok {
		return tenantID
	}
	return ""
}

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(CtxRequestID).(string); ok {
		return requestID
	}
	return ""
}

func GetJWT(ctx context.Context) string {
	if jwt, ok := ctx.Value(CtxJWT).(string); ok {
		return jwt
	}
	return ""
}

// SetSession stores the authenticated session in the context together with
// the plain user and tenant ids used for logging.
func SetSession(ctx context.Context, sess *Session) context.Context {
	ctx = context.WithValue(ctx, CtxSession, sess)
	if sess != nil {
		ctx = context.WithValue(ctx, CtxUserID, sess.UserID)
		ctx = context.WithValue(ctx, CtxTenantID, sess.TenantID)
	}
	return ctx
}

// GetSession returns the session stored by the auth middleware, or nil
func GetSession(ctx context.Context) *Session {
	if sess, ok := ctx.Value(CtxSession).(*Session); ok {
		return sess
	}
	return nil
}
