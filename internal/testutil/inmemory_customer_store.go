package testutil

import (
	"context"
	"strings"

	"github.com/brokerdesk/brokerdesk/internal/domain/customer"
	"github.com/brokerdesk/brokerdesk/internal/types"
)

// InMemoryCustomerStore implements customer.Repository
type InMemoryCustomerStore struct {
	*InMemoryStore[*customer.Customer]
}

func NewInMemoryCustomerStore() *InMemoryCustomerStore {
	return &InMemoryCustomerStore{
		InMemoryStore: NewInMemoryStore[*customer.Customer](),
	}
}

// Helper to copy customer. Profiles are replaced, never mutated in place.
func copyCustomer(c *customer.Customer) *customer.Customer {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Tags = append([]string{}, c.Tags...)
	return &cp
}

func customerFilterFn(sess *types.Session, f *types.CustomerFilter) FilterFunc[*customer.Customer] {
	return func(ctx context.Context, c *customer.Customer) bool {
		if !sess.Owns(c.TenantID, c.OwnerID) {
			return false
		}
		if f == nil {
			return true
		}
		if !matchesSearch(f.Search, c.Name, c.Notes, c.Email) {
			return false
		}
		if f.Role != "" && c.Role != f.Role {
			return false
		}
		if f.Status != "" && c.Status != f.Status {
			return false
		}
		if !anyTag(c.Tags, f.Tags) {
			return false
		}
		return f.TimeRangeFilter.Contains(c.CreatedAt)
	}
}

func customerSortFn(f *types.CustomerFilter) SortFunc[*customer.Customer] {
	var q *types.QueryFilter
	if f != nil {
		q = f.QueryFilter
	}
	desc := q.GetOrder() == types.OrderDesc

	return func(a, b *customer.Customer) bool {
		var less, equal bool
		switch q.GetSort() {
		case "name":
			less, equal = strings.ToLower(a.Name) < strings.ToLower(b.Name), strings.EqualFold(a.Name, b.Name)
		case "updated_at":
			less, equal = a.UpdatedAt.Before(b.UpdatedAt), a.UpdatedAt.Equal(b.UpdatedAt)
		default:
			less, equal = a.CreatedAt.Before(b.CreatedAt), a.CreatedAt.Equal(b.CreatedAt)
		}
		if equal {
			return a.ID < b.ID
		}
		return less != desc
	}
}

func (s *InMemoryCustomerStore) Create(ctx context.Context, sess *types.Session, c *customer.Customer) error {
	stored := copyCustomer(c)
	stored.TenantID = sess.TenantID
	stored.OwnerID = sess.UserID
	return s.InMemoryStore.Create(ctx, c.ID, stored)
}

func (s *InMemoryCustomerStore) Get(ctx context.Context, sess *types.Session, id string) (*customer.Customer, error) {
	c, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.Owns(c.TenantID, c.OwnerID) {
		return nil, notFound(id)
	}
	return copyCustomer(c), nil
}

func (s *InMemoryCustomerStore) List(ctx context.Context, sess *types.Session, filter *types.CustomerFilter) ([]*customer.Customer, error) {
	if filter == nil {
		filter = types.NewCustomerFilter()
	}
	items, err := s.InMemoryStore.List(ctx, filter, customerFilterFn(sess, filter), customerSortFn(filter))
	if err != nil {
		return nil, err
	}
	out := make([]*customer.Customer, 0, len(items))
	for _, c := range items {
		out = append(out, copyCustomer(c))
	}
	return out, nil
}

func (s *InMemoryCustomerStore) Count(ctx context.Context, sess *types.Session, filter *types.CustomerFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, customerFilterFn(sess, filter))
}

func (s *InMemoryCustomerStore) Update(ctx context.Context, sess *types.Session, c *customer.Customer) error {
	existing, err := s.Get(ctx, sess, c.ID)
	if err != nil {
		return err
	}
	stored := copyCustomer(c)
	stored.TenantID, stored.OwnerID = existing.TenantID, existing.OwnerID
	return s.InMemoryStore.Update(ctx, c.ID, stored)
}

func (s *InMemoryCustomerStore) Delete(ctx context.Context, sess *types.Session, id string) error {
	if _, err := s.Get(ctx, sess, id); err != nil {
		return err
	}
	return s.InMemoryStore.Delete(ctx, id)
}
