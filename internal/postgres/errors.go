package postgres

import (
	"database/sql"
	"errors"

	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/lib/pq"
)

const (
	pqUniqueViolation     pq.ErrorCode = "23505"
	pqForeignKeyViolation pq.ErrorCode = "23503"
)

// IsUniqueViolation reports whether err is a unique constraint violation
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

// IsForeignKeyViolation reports whether err is a foreign key violation
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation
}

// IsNoRows reports whether err means the query matched nothing
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// WrapError turns a driver error into a marked internal error. Missing rows
// become not found with the given hint so callers cannot tell a missing
// record from one owned by someone else.
func WrapError(err error, notFoundHint string) error {
	switch {
	case err == nil:
		return nil
	case IsNoRows(err):
		return ierr.WithError(err).
			WithHint(notFoundHint).
			Mark(ierr.ErrNotFound)
	case IsUniqueViolation(err):
		return ierr.WithError(err).
			WithHint("A record with the same identity already exists").
			Mark(ierr.ErrAlreadyExists)
	case IsForeignKeyViolation(err):
		return ierr.WithError(err).
			WithHint("A referenced record does not exist").
			Mark(ierr.ErrValidation)
	default:
		return ierr.WithError(err).
			WithHint("Database operation failed").
			Mark(ierr.ErrDatabase)
	}
}
