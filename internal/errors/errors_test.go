package errors_test

import (
	"fmt"
	"net/http"
	"testing"

	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusFromErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", ierr.NewError("no document").Mark(ierr.ErrNotFound), http.StatusNotFound},
		{"validation", ierr.NewErrorf("field %s", "deposit").Mark(ierr.ErrValidation), http.StatusBadRequest},
		{"invalid operation", ierr.NewError("no storage").Mark(ierr.ErrInvalidOperation), http.StatusBadRequest},
		{"unauthenticated", ierr.NewError("bad token").Mark(ierr.ErrUnauthenticated), http.StatusUnauthorized},
		{"version conflict", ierr.NewError("version taken").Mark(ierr.ErrVersionConflict), http.StatusConflict},
		{"rate limited", ierr.NewError("slow down").Mark(ierr.ErrRateLimited), http.StatusTooManyRequests},
		{"wrapped", fmt.Errorf("generate: %w", ierr.NewError("missing").Mark(ierr.ErrNotFound)), http.StatusNotFound},
		{"unmarked", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ierr.HTTPStatusFromErr(tt.err))
		})
	}
}

func TestBuilderKeepsHintAndMark(t *testing.T) {
	err := ierr.NewError("template missing").
		WithHintf("No template for %s", "rental_agreement").
		WithMessagef("resolve %s", "tmpl_1").
		Mark(ierr.ErrInvalidOperation)

	assert.True(t, ierr.IsInvalidOperation(err))
	assert.False(t, ierr.IsValidation(err))
	assert.Contains(t, errors.GetAllHints(err), "No template for rental_agreement")
	assert.Contains(t, err.Error(), "resolve tmpl_1")
}
