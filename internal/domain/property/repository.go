package property

import (
	"context"

	"github.com/brokerdesk/brokerdesk/internal/types"
)

type Repository interface {
	Create(ctx context.Context, sess *types.Session, property *Property) error
	Get(ctx context.Context, sess *types.Session, id string) (*Property, error)
	List(ctx context.Context, sess *types.Session, filter *types.PropertyFilter) ([]*Property, error)
	Count(ctx context.Context, sess *types.Session, filter *types.PropertyFilter) (int, error)
	Update(ctx context.Context, sess *types.Session, property *Property) error
	Delete(ctx context.Context, sess *types.Session, id string) error
}
