package postgres

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/brokerdesk/brokerdesk/internal/domain/user"
	"github.com/brokerdesk/brokerdesk/internal/logger"
	"github.com/brokerdesk/brokerdesk/internal/postgres"
)

const userNotFound = "User not found"

var userColumns = []string{"id", "tenant_id", "email", "name", "password_hash", "created_at", "updated_at"}

type userRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewUserRepository(db *postgres.DB, logger *logger.Logger) user.Repository {
	return &userRepository{db: db, logger: logger}
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	query, args, err := qb().Insert("users").
		Columns(userColumns...).
		Values(u.ID, u.TenantID, u.Email, u.Name, u.PasswordHash, u.CreatedAt, u.UpdatedAt).
		ToSql()
	if err != nil {
		return buildError(err)
	}

	_, err = r.db.GetQuerier(ctx).ExecContext(ctx, query, args...)
	return postgres.WrapError(err, userNotFound)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	query, args, err := qb().Select(userColumns...).From("users").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, buildError(err)
	}

	var u user.User
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &u, query, args...); err != nil {
		return nil, postgres.WrapError(err, userNotFound)
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query, args, err := qb().Select(userColumns...).
		From("users").
		Where(sq.Expr("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email)))).
		ToSql()
	if err != nil {
		return nil, buildError(err)
	}

	var u user.User
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &u, query, args...); err != nil {
		return nil, postgres.WrapError(err, userNotFound)
	}
	return &u, nil
}
