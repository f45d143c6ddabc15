package types

import (
	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/samber/lo"
)

// CustomerRole discriminates the customer profile variant
type CustomerRole string

const (
	CustomerRoleBuyer    CustomerRole = "buyer"
	CustomerRoleSeller   CustomerRole = "seller"
	CustomerRoleTenant   CustomerRole = "tenant"
	CustomerRoleLandlord CustomerRole = "landlord"
)

var CustomerRoles = []CustomerRole{
	CustomerRoleBuyer,
	CustomerRoleSeller,
	CustomerRoleTenant,
	CustomerRoleLandlord,
}

func (r CustomerRole) Validate() error {
	if !lo.Contains(CustomerRoles, r) {
		return ierr.NewErrorf("invalid customer role %q", r).
			WithHintf("Customer role must be one of %v", CustomerRoles).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CustomerStatus tracks where a customer is in the brokerage pipeline
type CustomerStatus string

const (
	CustomerStatusLead     CustomerStatus = "lead"
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusClosed   CustomerStatus = "closed"
	CustomerStatusInactive CustomerStatus = "inactive"
)

var CustomerStatuses = []CustomerStatus{
	CustomerStatusLead,
	CustomerStatusActive,
	CustomerStatusClosed,
	CustomerStatusInactive,
}

func (s CustomerStatus) Validate() error {
	if !lo.Contains(CustomerStatuses, s) {
		return ierr.NewErrorf("invalid customer status %q", s).
			WithHintf("Customer status must be one of %v", CustomerStatuses).
			Mark(ierr.ErrValidation)
	}
	return nil
}

var CustomerSortFields = []string{"created_at", "updated_at", "name"}

// CustomerFilter selects customers owned by the session user
type CustomerFilter struct {
	*QueryFilter
	*TimeRangeFilter

	Search string         `json:"search,omitempty" form:"search"`
	Role   CustomerRole   `json:"role,omitempty" form:"role"`
	Status CustomerStatus `json:"status,omitempty" form:"status"`
	Tags   []string       `json:"tags,omitempty" form:"tags"`
}

func NewCustomerFilter() *CustomerFilter {
	return &CustomerFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

func (f *CustomerFilter) Validate() error {
	if f == nil {
		return nil
	}
	if err := f.QueryFilter.Validate(); err != nil {
		return err
	}
	if err := f.QueryFilter.ValidateSort(CustomerSortFields...); err != nil {
		return err
	}
	if err := f.TimeRangeFilter.Validate(); err != nil {
		return err
	}
	if f.Role != "" {
		if err := f.Role.Validate(); err != nil {
			return err
		}
	}
	if f.Status != "" {
		if err := f.Status.Validate(); err != nil {
			return err
		}
	}
	return nil
}
