package types

import (
	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
)

// Session is the authenticated identity a record call runs as. It is passed
// explicitly to every service and repository method so ownership scoping is
// visible at the call site.
type Session struct {
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id"`
	Email    string `json:"email,omitempty"`
}

// NewSession builds a session, defaulting the tenant when the token carried none
func NewSession(userID, tenantID, email string) *Session {
	if tenantID == "" {
		tenantID = DefaultTenantID
	}
	return &Session{UserID: userID, TenantID: tenantID, Email: email}
}

// Validate fails when there is no usable session. Services call it before
// doing any I/O.
func (s *Session) Validate() error {
	if s == nil || s.UserID == "" || s.TenantID == "" {
		return ierr.NewError("no authenticated session").
			WithHint("Please sign in to continue").
			Mark(ierr.ErrUnauthenticated)
	}
	return nil
}

// Owns reports whether a record stamped with the given tenant and owner belongs to the session
func (s *Session) Owns(tenantID, ownerID string) bool {
	return s != nil && s.TenantID == tenantID && s.UserID == ownerID
}
