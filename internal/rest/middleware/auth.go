package middleware

import (
	"context"
	"strings"

	"github.com/brokerdesk/brokerdesk/internal/auth"
	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/brokerdesk/brokerdesk/internal/logger"
	"github.com/brokerdesk/brokerdesk/internal/types"
	"github.com/gin-gonic/gin"
)

// AuthenticateMiddleware validates the Bearer token in the Authorization
// header and stores the resulting session in the request context. Every
// route behind it can rely on types.GetSession returning a session.
func AuthenticateMiddleware(provider auth.Provider, logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(types.HeaderAuthorization)
		if authHeader == "" {
			abortUnauthenticated(c, "missing authorization header", "Please sign in to continue")
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			abortUnauthenticated(c, "malformed authorization header", "Invalid authorization header format")
			return
		}

		claims, err := provider.ValidateToken(c.Request.Context(), strings.TrimSpace(tokenString))
		if err != nil {
			logger.Debugw("failed to validate token", "error", err)
			abortUnauthenticated(c, "invalid token", "Your session has expired, please sign in again")
			return
		}

		if claims == nil || claims.UserID == "" {
			abortUnauthenticated(c, "token without subject", "Invalid token claims")
			return
		}

		sess := types.NewSession(claims.UserID, claims.TenantID, claims.Email)
		ctx := types.SetSession(c.Request.Context(), sess)
		ctx = context.WithValue(ctx, types.CtxJWT, tokenString)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context, msg, hint string) {
	c.Error(ierr.NewError(msg).
		WithHint(hint).
		Mark(ierr.ErrUnauthenticated))
	c.Abort()
}
