package dto

import (
	"strings"

	"github.com/brokerdesk/brokerdesk/internal/domain/property"
	"github.com/brokerdesk/brokerdesk/internal/types"
	"github.com/brokerdesk/brokerdesk/internal/validator"
	"github.com/shopspring/decimal"
)

type CreatePropertyRequest struct {
	Title       string               `json:"title" validate:"required,notblank,max=255"`
	Type        types.PropertyType   `json:"type" validate:"required"`
	ListingType types.ListingType    `json:"listing_type" validate:"required"`
	Address     string               `json:"address"`
	City        string               `json:"city" validate:"omitempty,max=100"`
	District    string               `json:"district" validate:"omitempty,max=100"`
	Price       decimal.Decimal      `json:"price"`
	Currency    string               `json:"currency"`
	AreaSqm     decimal.Decimal      `json:"area_sqm"`
	Rooms       int                  `json:"rooms" validate:"min=0"`
	Notes       string               `json:"notes"`
	Tags        []string             `json:"tags"`
	Status      types.PropertyStatus `json:"status"`
}

func (r *CreatePropertyRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *CreatePropertyRequest) ToProperty(sess *types.Session) (*property.Property, error) {
	status := r.Status
	if status == "" {
		status = types.PropertyStatusAvailable
	}
	currency := strings.ToUpper(strings.TrimSpace(r.Currency))
	if currency == "" {
		currency = "TRY"
	}
	p := &property.Property{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PROPERTY),
		Title:       strings.TrimSpace(r.Title),
		Type:        r.Type,
		ListingType: r.ListingType,
		Address:     r.Address,
		City:        r.City,
		District:    r.District,
		Price:       r.Price,
		Currency:    currency,
		AreaSqm:     r.AreaSqm,
		Rooms:       r.Rooms,
		Notes:       r.Notes,
		Tags:        normalizeTags(r.Tags),
		Status:      status,
		BaseModel:   types.GetDefaultBaseModel(sess),
	}
	return p, p.Validate()
}

type UpdatePropertyRequest struct {
	Title       *string               `json:"title" validate:"omitempty,notblank,max=255"`
	Type        *types.PropertyType   `json:"type"`
	ListingType *types.ListingType    `json:"listing_type"`
	Address     *string               `json:"address"`
	City        *string               `json:"city" validate:"omitempty,max=100"`
	District    *string               `json:"district" validate:"omitempty,max=100"`
	Price       *decimal.Decimal      `json:"price"`
	Currency    *string               `json:"currency"`
	AreaSqm     *decimal.Decimal      `json:"area_sqm"`
	Rooms       *int                  `json:"rooms" validate:"omitempty,min=0"`
	Notes       *string               `json:"notes"`
	Tags        *[]string             `json:"tags"`
	Status      *types.PropertyStatus `json:"status"`
}

func (r *UpdatePropertyRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// Apply copies the set fields onto p and validates the result
func (r *UpdatePropertyRequest) Apply(p *property.Property) error {
	if r.Title != nil {
		p.Title = strings.TrimSpace(*r.Title)
	}
	if r.Type != nil {
		p.Type = *r.Type
	}
	if r.ListingType != nil {
		p.ListingType = *r.ListingType
	}
	if r.Address != nil {
		p.Address = *r.Address
	}
	if r.City != nil {
		p.City = *r.City
	}
	if r.District != nil {
		p.District = *r.District
	}
	if r.Price != nil {
		p.Price = *r.Price
	}
	if r.Currency != nil {
		p.Currency = strings.ToUpper(strings.TrimSpace(*r.Currency))
	}
	if r.AreaSqm != nil {
		p.AreaSqm = *r.AreaSqm
	}
	if r.Rooms != nil {
		p.Rooms = *r.Rooms
	}
	if r.Notes != nil {
		p.Notes = *r.Notes
	}
	if r.Tags != nil {
		p.Tags = normalizeTags(*r.Tags)
	}
	if r.Status != nil {
		p.Status = *r.Status
	}
	return p.Validate()
}

type PropertyResponse struct {
	*property.Property
}

// ListPropertiesResponse represents the response for listing properties
type ListPropertiesResponse = types.ListResponse[*PropertyResponse]
