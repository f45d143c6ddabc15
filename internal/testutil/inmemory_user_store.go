package testutil

import (
	"context"
	"strings"

	"github.com/brokerdesk/brokerdesk/internal/domain/user"
	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
)

// InMemoryUserStore implements user.Repository
type InMemoryUserStore struct {
	*InMemoryStore[*user.User]
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{
		InMemoryStore: NewInMemoryStore[*user.User](),
	}
}

func (s *InMemoryUserStore) Create(ctx context.Context, u *user.User) error {
	if _, err := s.GetByEmail(ctx, u.Email); err == nil {
		return ierr.NewErrorf("email %s taken", u.Email).
			WithHint("An account with this email already exists").
			Mark(ierr.ErrAlreadyExists)
	}
	cp := *u
	return s.InMemoryStore.Create(ctx, u.ID, &cp)
}

func (s *InMemoryUserStore) GetByID(ctx context.Context, id string) (*user.User, error) {
	u, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	cp := *u
	return &cp, nil
}

func (s *InMemoryUserStore) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	items, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, u *user.User) bool {
		return u.Email == email
	}, nil)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, notFound(email)
	}
	cp := *items[0]
	return &cp, nil
}
