package dto

import (
	"encoding/json"
	"strings"

	"github.com/brokerdesk/brokerdesk/internal/domain/customer"
	"github.com/brokerdesk/brokerdesk/internal/types"
	"github.com/brokerdesk/brokerdesk/internal/validator"
)

type CreateCustomerRequest struct {
	Name   string               `json:"name" validate:"required,notblank,max=255"`
	Email  string               `json:"email" validate:"omitempty,email"`
	Phone  string               `json:"phone" validate:"omitempty,max=50"`
	Notes  string               `json:"notes"`
	Tags   []string             `json:"tags"`
	Status types.CustomerStatus `json:"status"`
	Role   types.CustomerRole   `json:"role" validate:"required"`
	// Profile is decoded as the variant named by Role
	Profile json.RawMessage `json:"profile"`
}

func (r *CreateCustomerRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.Role.Validate()
}

func (r *CreateCustomerRequest) ToCustomer(sess *types.Session) (*customer.Customer, error) {
	profile, err := customer.UnmarshalProfile(r.Role, r.Profile)
	if err != nil {
		return nil, err
	}
	status := r.Status
	if status == "" {
		status = types.CustomerStatusLead
	}
	c := &customer.Customer{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CUSTOMER),
		Name:      strings.TrimSpace(r.Name),
		Email:     strings.TrimSpace(r.Email),
		Phone:     r.Phone,
		Notes:     r.Notes,
		Tags:      normalizeTags(r.Tags),
		Status:    status,
		Role:      r.Role,
		Profile:   profile,
		BaseModel: types.GetDefaultBaseModel(sess),
	}
	return c, c.Validate()
}

// UpdateCustomerRequest is a partial update. Changing Role replaces the
// profile, so a new one must come with it.
type UpdateCustomerRequest struct {
	Name    *string               `json:"name" validate:"omitempty,notblank,max=255"`
	Email   *string               `json:"email" validate:"omitempty,email"`
	Phone   *string               `json:"phone" validate:"omitempty,max=50"`
	Notes   *string               `json:"notes"`
	Tags    *[]string             `json:"tags"`
	Status  *types.CustomerStatus `json:"status"`
	Role    *types.CustomerRole   `json:"role"`
	Profile json.RawMessage       `json:"profile"`
}

func (r *UpdateCustomerRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// Apply copies the set fields onto c and validates the result
func (r *UpdateCustomerRequest) Apply(c *customer.Customer) error {
	if r.Name != nil {
		c.Name = strings.TrimSpace(*r.Name)
	}
	if r.Email != nil {
		c.Email = strings.TrimSpace(*r.Email)
	}
	if r.Phone != nil {
		c.Phone = *r.Phone
	}
	if r.Notes != nil {
		c.Notes = *r.Notes
	}
	if r.Tags != nil {
		c.Tags = normalizeTags(*r.Tags)
	}
	if r.Status != nil {
		c.Status = *r.Status
	}

	role := c.Role
	if r.Role != nil {
		role = *r.Role
	}
	if role != c.Role || len(r.Profile) > 0 {
		profile, err := customer.UnmarshalProfile(role, r.Profile)
		if err != nil {
			return err
		}
		c.Role, c.Profile = role, profile
	}
	return c.Validate()
}

type CustomerResponse struct {
	*customer.Customer
}

// ListCustomersResponse represents the response for listing customers
type ListCustomersResponse = types.ListResponse[*CustomerResponse]
