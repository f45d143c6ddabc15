package types

import (
	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type PropertyType string

const (
	PropertyTypeApartment  PropertyType = "apartment"
	PropertyTypeHouse      PropertyType = "house"
	PropertyTypeLand       PropertyType = "land"
	PropertyTypeCommercial PropertyType = "commercial"
)

var PropertyTypes = []PropertyType{
	PropertyTypeApartment,
	PropertyTypeHouse,
	PropertyTypeLand,
	PropertyTypeCommercial,
}

func (t PropertyType) Validate() error {
	if !lo.Contains(PropertyTypes, t) {
		return ierr.NewErrorf("invalid property type %q", t).
			WithHintf("Property type must be one of %v", PropertyTypes).
			Mark(ierr.ErrValidation)
	}
	return nil
}

type ListingType string

const (
	ListingTypeSale ListingType = "sale"
	ListingTypeRent ListingType = "rent"
)

func (t ListingType) Validate() error {
	if t != ListingTypeSale && t != ListingTypeRent {
		return ierr.NewErrorf("invalid listing type %q", t).
			WithHint("Listing type must be either sale or rent").
			Mark(ierr.ErrValidation)
	}
	return nil
}

type PropertyStatus string

const (
	PropertyStatusAvailable PropertyStatus = "available"
	PropertyStatusReserved  PropertyStatus = "reserved"
	PropertyStatusSold      PropertyStatus = "sold"
	PropertyStatusRented    PropertyStatus = "rented"
	PropertyStatusInactive  PropertyStatus = "inactive"
)

var PropertyStatuses = []PropertyStatus{
	PropertyStatusAvailable,
	PropertyStatusReserved,
	PropertyStatusSold,
	PropertyStatusRented,
	PropertyStatusInactive,
}

func (s PropertyStatus) Validate() error {
	if !lo.Contains(PropertyStatuses, s) {
		return ierr.NewErrorf("invalid property status %q", s).
			WithHintf("Property status must be one of %v", PropertyStatuses).
			Mark(ierr.ErrValidation)
	}
	return nil
}

var PropertySortFields = []string{"created_at", "updated_at", "title", "price", "area_sqm"}

// PropertyFilter selects listings owned by the session user
type PropertyFilter struct {
	*QueryFilter
	*TimeRangeFilter

	Search      string           `json:"search,omitempty" form:"search"`
	Type        PropertyType     `json:"type,omitempty" form:"type"`
	ListingType ListingType      `json:"listing_type,omitempty" form:"listing_type"`
	Status      PropertyStatus   `json:"status,omitempty" form:"status"`
	City        string           `json:"city,omitempty" form:"city"`
	Tags        []string         `json:"tags,omitempty" form:"tags"`
	MinPrice    *decimal.Decimal `json:"min_price,omitempty" form:"min_price"`
	MaxPrice    *decimal.Decimal `json:"max_price,omitempty" form:"max_price"`
}

func NewPropertyFilter() *PropertyFilter {
	return &PropertyFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

func (f *PropertyFilter) Validate() error {
	if f == nil {
		return nil
	}
	if err := f.QueryFilter.Validate(); err != nil {
		return err
	}
	if err := f.QueryFilter.ValidateSort(PropertySortFields...); err != nil {
		return err
	}
	if err := f.TimeRangeFilter.Validate(); err != nil {
		return err
	}
	if f.Type != "" {
		if err := f.Type.Validate(); err != nil {
			return err
		}
	}
	if f.ListingType != "" {
		if err := f.ListingType.Validate(); err != nil {
			return err
		}
	}
	if f.Status != "" {
		if err := f.Status.Validate(); err != nil {
			return err
		}
	}
	if f.MinPrice != nil && f.MaxPrice != nil && f.MaxPrice.LessThan(*f.MinPrice) {
		return ierr.NewError("max_price must not be less than min_price").
			WithHint("Maximum price must not be less than minimum price").
			Mark(ierr.ErrValidation)
	}
	return nil
}
