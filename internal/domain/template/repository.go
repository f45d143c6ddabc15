package template

import (
	"context"

	"github.com/brokerdesk/brokerdesk/internal/types"
)

// Repository stores templates per tenant. Templates are shared by every
// agent of the tenant, so only the tenant half of the session scopes them.
type Repository interface {
	Create(ctx context.Context, tmpl *Template) error
	// GetLatest returns the active template of a kind
	GetLatest(ctx context.Context, sess *types.Session, kind types.DocumentType) (*Template, error)
	List(ctx context.Context, sess *types.Session) ([]*Template, error)
}
