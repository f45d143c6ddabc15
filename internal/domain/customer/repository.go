package customer

import (
	"context"

	"github.com/brokerdesk/brokerdesk/internal/types"
)

// Repository defines the interface for customer data access
type Repository interface {
	Create(ctx context.Context, sess *types.Session, customer *Customer) error
	Get(ctx context.Context, sess *types.Session, id string) (*Customer, error)
	List(ctx context.Context, sess *types.Session, filter *types.CustomerFilter) ([]*Customer, error)
	Count(ctx context.Context, sess *types.Session, filter *types.CustomerFilter) (int, error)
	Update(ctx context.Context, sess *types.Session, customer *Customer) error
	Delete(ctx context.Context, sess *types.Session, id string) error
}
