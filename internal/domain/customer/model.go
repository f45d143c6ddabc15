package customer

import (
	"net/mail"
	"strings"

	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/brokerdesk/brokerdesk/internal/types"
)

// Customer is a party the brokerage works with. Role selects which Profile
// variant is active.
type Customer struct {
	ID      string               `db:"id" json:"id"`
	Name    string               `db:"name" json:"name"`
	Email   string               `db:"email" json:"email"`
	Phone   string               `db:"phone" json:"phone"`
	Notes   string               `db:"notes" json:"notes"`
	Tags    []string             `db:"tags" json:"tags"`
	Status  types.CustomerStatus `db:"status" json:"status"`
	Role    types.CustomerRole   `db:"role" json:"role"`
	Profile Profile              `db:"-" json:"profile"`

	types.BaseModel
}

func (c *Customer) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ierr.NewError("customer name is required").
			WithHint("Customer name is required").
			Mark(ierr.ErrValidation)
	}
	if c.Email != "" {
		if _, err := mail.ParseAddress(c.Email); err != nil {
			return ierr.WithError(err).
				WithHint("Customer email is not a valid address").
				Mark(ierr.ErrValidation)
		}
	}
	if err := c.Status.Validate(); err != nil {
		return err
	}
	if err := c.Role.Validate(); err != nil {
		return err
	}
	if c.Profile == nil {
		return ierr.NewErrorf("missing %s profile", c.Role).
			WithHintf("A %s profile is required", c.Role).
			Mark(ierr.ErrValidation)
	}
	if c.Profile.Role() != c.Role {
		return ierr.NewErrorf("profile is for %s, customer role is %s", c.Profile.Role(), c.Role).
			WithHint("Customer profile does not match the customer role").
			Mark(ierr.ErrValidation)
	}
	return c.Profile.Validate()
}
