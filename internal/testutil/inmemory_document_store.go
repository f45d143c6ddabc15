package testutil

import (
	"context"
	"strings"

	"github.com/brokerdesk/brokerdesk/internal/domain/document"
	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/brokerdesk/brokerdesk/internal/types"
)

// InMemoryDocumentStore implements document.Repository
type InMemoryDocumentStore struct {
	*InMemoryStore[*document.Document]
}

func NewInMemoryDocumentStore() *InMemoryDocumentStore {
	return &InMemoryDocumentStore{
		InMemoryStore: NewInMemoryStore[*document.Document](),
	}
}

func copyDocument(d *document.Document) *document.Document {
	if d == nil {
		return nil
	}
	c := *d
	c.Tags = append([]string{}, d.Tags...)
	return &c
}

// documentFilterFn builds the predicate the postgres repository expresses in SQL
func documentFilterFn(sess *types.Session, f *types.DocumentFilter) FilterFunc[*document.Document] {
	return func(ctx context.Context, d *document.Document) bool {
		if !sess.Owns(d.TenantID, d.OwnerID) {
			return false
		}
		if f == nil {
			return true
		}
		if !matchesSearch(f.Search, d.Name, d.Notes) {
			return false
		}
		if f.Type != "" && d.Type != f.Type {
			return false
		}
		if f.Status != "" && d.Status != f.Status {
			return false
		}
		if f.Department != "" && d.Department != f.Department {
			return false
		}
		if !anyTag(d.Tags, f.Tags) {
			return false
		}
		if f.HasSignature != nil && d.HasSignature != *f.HasSignature {
			return false
		}
		if f.MinSize != nil && d.Size < *f.MinSize {
			return false
		}
		if f.MaxSize != nil && d.Size > *f.MaxSize {
			return false
		}
		if f.LogicalID != "" && d.LogicalID != f.LogicalID {
			return false
		}
		return f.TimeRangeFilter.Contains(d.CreatedAt)
	}
}

func documentSortFn(f *types.DocumentFilter) SortFunc[*document.Document] {
	var q *types.QueryFilter
	if f != nil {
		q = f.QueryFilter
	}
	desc := q.GetOrder() == types.OrderDesc

	return func(a, b *document.Document) bool {
		var less, equal bool
		switch q.GetSort() {
		case "name":
			less, equal = a.Name < b.Name, a.Name == b.Name
		case "size":
			less, equal = a.Size < b.Size, a.Size == b.Size
		case "version":
			less, equal = a.Version < b.Version, a.Version == b.Version
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

func (s *InMemoryDocumentStore) Create(ctx context.Context, sess *types.Session, d *document.Document) error {
	if d == nil {
		return ierr.NewError("document cannot be nil").
			WithHint("Document cannot be nil").
			Mark(ierr.ErrValidation)
	}

	stored := copyDocument(d)
	stored.TenantID = sess.TenantID
	stored.OwnerID = sess.UserID

	// mirrors the (tenant_id, logical_id, version) unique index
	taken, _ := s.InMemoryStore.Count(ctx, func(_ context.Context, o *document.Document) bool {
		return o.TenantID == stored.TenantID && o.LogicalID == stored.LogicalID && o.Version == stored.Version
	})
	if taken > 0 {
		return ierr.NewErrorf("version %d of %s exists", d.Version, d.LogicalID).
			WithHintf("Version %d of this document already exists", d.Version).
			Mark(ierr.ErrVersionConflict)
	}

	return s.InMemoryStore.Create(ctx, d.ID, stored)
}

func (s *InMemoryDocumentStore) Get(ctx context.Context, sess *types.Session, id string) (*document.Document, error) {
	d, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.Owns(d.TenantID, d.OwnerID) {
		return nil, notFound(id)
	}
	return copyDocument(d), nil
}

func (s *InMemoryDocumentStore) List(ctx context.Context, sess *types.Session, filter *types.DocumentFilter) ([]*document.Document, error) {
	if filter == nil {
		filter = types.NewDocumentFilter()
	}
	items, err := s.InMemoryStore.List(ctx, filter, documentFilterFn(sess, filter), documentSortFn(filter))
	if err != nil {
		return nil, err
	}
	out := make([]*document.Document, 0, len(items))
	for _, d := range items {
		out = append(out, copyDocument(d))
	}
	return out, nil
}

func (s *InMemoryDocumentStore) Count(ctx context.Context, sess *types.Session, filter *types.DocumentFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, documentFilterFn(sess, filter))
}

func (s *InMemoryDocumentStore) Update(ctx context.Context, sess *types.Session, d *document.Document) error {
	existing, err := s.Get(ctx, sess, d.ID)
	if err != nil {
		return err
	}
	stored := copyDocument(d)
	stored.TenantID, stored.OwnerID = existing.TenantID, existing.OwnerID
	return s.InMemoryStore.Update(ctx, d.ID, stored)
}

func (s *InMemoryDocumentStore) Delete(ctx context.Context, sess *types.Session, id string) error {
	if _, err := s.Get(ctx, sess, id); err != nil {
		return err
	}
	return s.InMemoryStore.Delete(ctx, id)
}

func (s *InMemoryDocumentStore) GetLatestVersion(ctx context.Context, sess *types.Session, logicalID string) (*document.Document, error) {
	f := types.NewDocumentFilter()
	f.LogicalID = logicalID
	versions, err := s.InMemoryStore.List(ctx, nil, documentFilterFn(sess, f), func(a, b *document.Document) bool {
		return a.Version > b.Version
	})
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, notFound(strings.TrimSpace(logicalID))
	}
	return copyDocument(versions[0]), nil
}
