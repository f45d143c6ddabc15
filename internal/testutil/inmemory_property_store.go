package testutil

import (
	"context"
	"strings"

	"github.com/brokerdesk/brokerdesk/internal/domain/property"
	"github.com/brokerdesk/brokerdesk/internal/types"
)

// InMemoryPropertyStore implements property.Repository
type InMemoryPropertyStore struct {
	*InMemoryStore[*property.Property]
}

func NewInMemoryPropertyStore() *InMemoryPropertyStore {
	return &InMemoryPropertyStore{
		InMemoryStore: NewInMemoryStore[*property.Property](),
	}
}

func copyProperty(p *property.Property) *property.Property {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Tags = append([]string{}, p.Tags...)
	return &cp
}

func propertyFilterFn(sess *types.Session, f *types.PropertyFilter) FilterFunc[*property.Property] {
	return func(ctx context.Context, p *property.Property) bool {
		if !sess.Owns(p.TenantID, p.OwnerID) {
			return false
		}
		if f == nil {
			return true
		}
		if !matchesSearch(f.Search, p.Title, p.Notes, p.Address) {
			return false
		}
		if f.Type != "" && p.Type != f.Type {
			return false
		}
		if f.ListingType != "" && p.ListingType != f.ListingType {
			return false
		}
		if f.Status != "" && p.Status != f.Status {
			return false
		}
		if f.City != "" && !strings.EqualFold(p.City, f.City) {
			return false
		}
		if !anyTag(p.Tags, f.Tags) {
			return false
		}
		if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
			return false
		}
		if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
			return false
		}
		return f.TimeRangeFilter.Contains(p.CreatedAt)
	}
}

func propertySortFn(f *types.PropertyFilter) SortFunc[*property.Property] {
	var q *types.QueryFilter
	if f != nil {
		q = f.QueryFilter
	}
	desc := q.GetOrder() == types.OrderDesc

	return func(a, b *property.Property) bool {
		var less, equal bool
		switch q.GetSort() {
		case "title":
			less, equal = a.Title < b.Title, a.Title == b.Title
		case "price":
			less, equal = a.Price.LessThan(b.Price), a.Price.Equal(b.Price)
		case "area_sqm":
			less, equal = a.AreaSqm.LessThan(b.AreaSqm), a.AreaSqm.Equal(b.AreaSqm)
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

func (s *InMemoryPropertyStore) Create(ctx context.Context, sess *types.Session, p *property.Property) error {
	stored := copyProperty(p)
	stored.TenantID = sess.TenantID
	stored.OwnerID = sess.UserID
	return s.InMemoryStore.Create(ctx, p.ID, stored)
}

func (s *InMemoryPropertyStore) Get(ctx context.Context, sess *types.Session, id string) (*property.Property, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.Owns(p.TenantID, p.OwnerID) {
		return nil, notFound(id)
	}
	return copyProperty(p), nil
}

func (s *InMemoryPropertyStore) List(ctx context.Context, sess *types.Session, filter *types.PropertyFilter) ([]*property.Property, error) {
	if filter == nil {
		filter = types.NewPropertyFilter()
	}
	items, err := s.InMemoryStore.List(ctx, filter, propertyFilterFn(sess, filter), propertySortFn(filter))
	if err != nil {
		return nil, err
	}
	out := make([]*property.Property, 0, len(items))
	for _, p := range items {
		out = append(out, copyProperty(p))
	}
	return out, nil
}

func (s *InMemoryPropertyStore) Count(ctx context.Context, sess *types.Session, filter *types.PropertyFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, propertyFilterFn(sess, filter))
}

func (s *InMemoryPropertyStore) Update(ctx context.Context, sess *types.Session, p *property.Property) error {
	existing, err := s.Get(ctx, sess, p.ID)
	if err != nil {
		return err
	}
	stored := copyProperty(p)
	stored.TenantID, stored.OwnerID = existing.TenantID, existing.OwnerID
	return s.InMemoryStore.Update(ctx, p.ID, stored)
}

func (s *InMemoryPropertyStore) Delete(ctx context.Context, sess *types.Session, id string) error {
	if _, err := s.Get(ctx, sess, id); err != nil {
		return err
	}
	return s.InMemoryStore.Delete(ctx, id)
}
