package testutil

import (
	"context"
	"sync"

	"github.com/brokerdesk/brokerdesk/internal/domain/template"
	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/brokerdesk/brokerdesk/internal/types"
)

// InMemoryTemplateStore implements template.Repository. Insertion order stands
// in for created_at so back to back uploads keep a stable order.
type InMemoryTemplateStore struct {
	*InMemoryStore[*template.Template]

	mu  sync.Mutex
	seq map[string]int
	n   int
}

func NewInMemoryTemplateStore() *InMemoryTemplateStore {
	return &InMemoryTemplateStore{
		InMemoryStore: NewInMemoryStore[*template.Template](),
		seq:           make(map[string]int),
	}
}

func (s *InMemoryTemplateStore) Create(ctx context.Context, tmpl *template.Template) error {
	cp := *tmpl
	if err := s.InMemoryStore.Create(ctx, tmpl.ID, &cp); err != nil {
		return err
	}

	s.mu.Lock()
	s.n++
	s.seq[tmpl.ID] = s.n
	s.mu.Unlock()
	return nil
}

func (s *InMemoryTemplateStore) GetLatest(ctx context.Context, sess *types.Session, kind types.DocumentType) (*template.Template, error) {
	items, err := s.list(ctx, sess, kind)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ierr.NewErrorf("no %s template", kind).
			WithHint("No template has been uploaded for this document type").
			Mark(ierr.ErrNotFound)
	}
	return items[0], nil
}

func (s *InMemoryTemplateStore) List(ctx context.Context, sess *types.Session) ([]*template.Template, error) {
	return s.list(ctx, sess, "")
}

func (s *InMemoryTemplateStore) list(ctx context.Context, sess *types.Session, kind types.DocumentType) ([]*template.Template, error) {
	s.mu.Lock()
	seq := make(map[string]int, len(s.seq))
	for k, v := range s.seq {
		seq[k] = v
	}
	s.mu.Unlock()

	items, err := s.InMemoryStore.List(ctx, nil,
		func(_ context.Context, t *template.Template) bool {
			return t.TenantID == sess.TenantID && (kind == "" || t.Kind == kind)
		},
		func(a, b *template.Template) bool {
			return seq[a.ID] > seq[b.ID]
		})
	if err != nil {
		return nil, err
	}

	out := make([]*template.Template, 0, len(items))
	for _, t := range items {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}
