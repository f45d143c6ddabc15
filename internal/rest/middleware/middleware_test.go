package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brokerdesk/brokerdesk/internal/auth"
	"github.com/brokerdesk/brokerdesk/internal/config"
	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/brokerdesk/brokerdesk/internal/logger"
	"github.com/brokerdesk/brokerdesk/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MiddlewareSuite struct {
	suite.Suite
	cfg      *config.Configuration
	log      *logger.Logger
	provider auth.Provider
	token    string
}

func TestMiddleware(t *testing.T) {
	suite.Run(t, new(MiddlewareSuite))
}

func (s *MiddlewareSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	s.cfg = config.GetDefaultConfig()
	s.cfg.Auth = config.AuthConfig{Provider: types.AuthProviderLocal, Secret: "test-secret"}
	s.log = logger.NewNopLogger()
	s.provider = auth.NewProvider(s.cfg)

	resp, err := s.provider.SignUp(context.Background(), auth.AuthRequest{
		UserID:   "user_agent",
		TenantID: "tenant_office",
		Email:    "agent@brokerdesk.test",
		Password: "correct-horse",
	})
	s.Require().NoError(err)
	s.token = resp.AuthToken
}

// engine mounts handler behind the standard chain and echoes the session
func (s *MiddlewareSuite) engine(extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(RequestIDMiddleware, ErrorHandler(s.log, nil), AuthenticateMiddleware(s.provider, s.log))
	handlers := append(extra, func(c *gin.Context) {
		sess := types.GetSession(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{
			"user_id":   sess.UserID,
			"tenant_id": sess.TenantID,
			"jwt":       types.GetJWT(c.Request.Context()) != "",
		})
	})
	r.GET("/me", handlers...)
	return r
}

func (s *MiddlewareSuite) do(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authHeader != "" {
		req.Header.Set(types.HeaderAuthorization, authHeader)
	}
	req.Header.Set(types.HeaderRequestID, "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (s *MiddlewareSuite) TestValidTokenSetsSession() {
	w := s.do(s.engine(), "Bearer "+s.token)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("req-1", w.Header().Get(types.HeaderRequestID))

	var body map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Equal("user_agent", body["user_id"])
	s.Equal("tenant_office", body["tenant_id"])
	s.Equal(true, body["jwt"])
}

func (s *MiddlewareSuite) TestRejectedHeaders() {
	tests := []struct {
		name   string
		header string
		hint   string
	}{
		{name: "missing", header: "", hint: "Please sign in to continue"},
		{name: "not bearer", header: "Basic abc", hint: "Invalid authorization header format"},
		{name: "empty bearer", header: "Bearer  ", hint: "Invalid authorization header format"},
		{name: "garbage token", header: "Bearer not-a-jwt", hint: "Your session has expired, please sign in again"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			w := s.do(s.engine(), tt.header)
			s.Equal(http.StatusUnauthorized, w.Code)
			resp := decodeError(s.T(), w)
			s.False(resp.Success)
			s.Equal(tt.hint, resp.Error.Display)
			s.Equal("req-1", resp.Error.RequestID)
		})
	}
}

func (s *MiddlewareSuite) TestTokenFromOtherSecretRejected() {
	other := config.GetDefaultConfig()
	other.Auth = config.AuthConfig{Provider: types.AuthProviderLocal, Secret: "another-secret"}
	resp, err := auth.NewProvider(other).SignUp(context.Background(), auth.AuthRequest{
		Email:    "intruder@brokerdesk.test",
		Password: "correct-horse",
	})
	s.Require().NoError(err)

	w := s.do(s.engine(), "Bearer "+resp.AuthToken)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *MiddlewareSuite) TestRateLimitPerUser() {
	limit := RateLimitMiddleware(config.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, Burst: 2})
	r := s.engine(limit)

	s.Equal(http.StatusOK, s.do(r, "Bearer "+s.token).Code)
	s.Equal(http.StatusOK, s.do(r, "Bearer "+s.token).Code)

	w := s.do(r, "Bearer "+s.token)
	s.Equal(http.StatusTooManyRequests, w.Code)
	s.Equal("Too many requests, please slow down", decodeError(s.T(), w).Error.Display)

	// another user has a bucket of their own
	resp, err := s.provider.SignUp(context.Background(), auth.AuthRequest{
		UserID:   "user_second",
		TenantID: "tenant_office",
		Email:    "second@brokerdesk.test",
		Password: "correct-horse",
	})
	s.Require().NoError(err)
	s.Equal(http.StatusOK, s.do(r, "Bearer "+resp.AuthToken).Code)
}

func (s *MiddlewareSuite) TestRateLimitDisabled() {
	r := s.engine(RateLimitMiddleware(config.RateLimitConfig{Enabled: false, RequestsPerSecond: 0.001, Burst: 1}))
	for i := 0; i < 5; i++ {
		s.Equal(http.StatusOK, s.do(r, "Bearer "+s.token).Code)
	}
}

func TestErrorHandlerStatusAndDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		err     error
		status  int
		display string
	}{
		{
			name:    "not found",
			err:     ierr.NewError("document doc_1 not found").WithHint("Document not found").Mark(ierr.ErrNotFound),
			status:  http.StatusNotFound,
			display: "Document not found",
		},
		{
			name:    "version conflict",
			err:     ierr.NewError("duplicate version").WithHint("This version already exists").Mark(ierr.ErrVersionConflict),
			status:  http.StatusConflict,
			display: "This version already exists",
		},
		{
			name:    "no hint",
			err:     ierr.NewError("boom").Mark(ierr.ErrSystem),
			status:  http.StatusInternalServerError,
			display: defaultDisplayMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(ErrorHandler(logger.NewNopLogger(), nil))
			r.GET("/", func(c *gin.Context) { _ = c.Error(tt.err) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.display, decodeError(t, w).Error.Display)
		})
	}
}

func TestErrorHandlerReportableDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(ErrorHandler(logger.NewNopLogger(), nil))
	r.GET("/", func(c *gin.Context) {
		_ = c.Error(ierr.NewError("bad sort").
			WithHint("Invalid sort field").
			WithReportableDetails(map[string]any{"field": "price"}).
			Mark(ierr.ErrValidation))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "price", resp.Error.Details["field"])
}
