package property

import (
	"strings"

	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/brokerdesk/brokerdesk/internal/types"
	"github.com/shopspring/decimal"
)

// Property is a listing managed by an agent
type Property struct {
	ID          string               `db:"id" json:"id"`
	Title       string               `db:"title" json:"title"`
	Type        types.PropertyType   `db:"type" json:"type"`
	ListingType types.ListingType    `db:"listing_type" json:"listing_type"`
	Address     string               `db:"address" json:"address"`
	City        string               `db:"city" json:"city"`
	District    string               `db:"district" json:"district"`
	Price       decimal.Decimal      `db:"price" json:"price"`
	Currency    string               `db:"currency" json:"currency"`
	AreaSqm     decimal.Decimal      `db:"area_sqm" json:"area_sqm"`
	Rooms       int                  `db:"rooms" json:"rooms"`
	Notes       string               `db:"notes" json:"notes"`
	Tags        []string             `db:"tags" json:"tags"`
	Status      types.PropertyStatus `db:"status" json:"status"`

	types.BaseModel
}

func (p *Property) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return ierr.NewError("property title is required").
			WithHint("Property title is required").
			Mark(ierr.ErrValidation)
	}
	if err := p.Type.Validate(); err != nil {
		return err
	}
	if err := p.ListingType.Validate(); err != nil {
		return err
	}
	if err := p.Status.Validate(); err != nil {
		return err
	}
	if p.Price.IsNegative() {
		return ierr.NewError("price must not be negative").
			WithHint("Price must not be negative").
			Mark(ierr.ErrValidation)
	}
	if p.AreaSqm.IsNegative() || p.Rooms < 0 {
		return ierr.NewError("area and rooms must not be negative").
			WithHint("Area and rooms must not be negative").
			Mark(ierr.ErrValidation)
	}
	if len(p.Currency) != 3 {
		return ierr.NewErrorf("invalid currency %q", p.Currency).
			WithHint("Currency must be a three letter ISO code").
			Mark(ierr.ErrValidation)
	}
	return nil
}
