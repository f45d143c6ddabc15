package user

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	// GetByEmail is used by login, before any tenant is known
	GetByEmail(ctx context.Context, email string) (*User, error)
}
