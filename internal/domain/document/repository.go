package document

import (
	"context"

	"github.com/brokerdesk/brokerdesk/internal/types"
)

// Repository defines the interface for document data access. Every method is
// scoped to the session's tenant and owner; a record owned by someone else is
// reported as not found.
type Repository interface {
	Create(ctx context.Context, sess *types.Session, doc *Document) error
	Get(ctx context.Context, sess *types.Session, id string) (*Document, error)
	List(ctx context.Context, sess *types.Session, filter *types.DocumentFilter) ([]*Document, error)
	Count(ctx context.Context, sess *types.Session, filter *types.DocumentFilter) (int, error)
	Update(ctx context.Context, sess *types.Session, doc *Document) error
	Delete(ctx context.Context, sess *types.Session, id string) error
	// GetLatestVersion returns the highest version of a chain
	GetLatestVersion(ctx context.Context, sess *types.Session, logicalID string) (*Document, error)
}
