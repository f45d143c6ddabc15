package testutil

import (
	"context"

	"github.com/brokerdesk/brokerdesk/internal/types"
)

const (
	TestTenantID = "tenant_test"
	TestUserID   = "user_test"
	OtherUserID  = "user_other"
)

// NewTestSession returns the session most tests run as
func NewTestSession() *types.Session {
	return types.NewSession(TestUserID, TestTenantID, "agent@brokerdesk.test")
}

// NewOtherSession is a second agent of the same tenant
func NewOtherSession() *types.Session {
	return types.NewSession(OtherUserID, TestTenantID, "other@brokerdesk.test")
}

// SetupContext creates a context carrying the test session and a request id
func SetupContext() context.Context {
	ctx := context.WithValue(context.Background(), types.CtxRequestID, types.GenerateUUID())
	return types.SetSession(ctx, NewTestSession())
}
