package customer

import (
	"encoding/json"
	"strings"
	"time"

	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/brokerdesk/brokerdesk/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Profile is the role specific part of a customer. Only the types in this
// package implement it.
type Profile interface {
	Role() types.CustomerRole
	Validate() error
	isProfile()
}

type BuyerProfile struct {
	BudgetMin       decimal.Decimal      `json:"budget_min"`
	BudgetMax       decimal.Decimal      `json:"budget_max"`
	PreferredCities []string             `json:"preferred_cities"`
	PropertyTypes   []types.PropertyType `json:"property_types"`
	MinRooms        int                  `json:"min_rooms"`
}

type SellerProfile struct {
	PropertyID      string          `json:"property_id"`
	AskingPrice     decimal.Decimal `json:"asking_price"`
	ListingDeadline *time.Time      `json:"listing_deadline,omitempty"`
}

type TenantProfile struct {
	MaxRent    decimal.Decimal `json:"max_rent"`
	MoveInDate *time.Time      `json:"move_in_date,omitempty"`
	Occupants  int             `json:"occupants"`
	HasPets    bool            `json:"has_pets"`
}

type LandlordProfile struct {
	PropertyIDs     []string `json:"property_ids"`
	IBAN            string   `json:"iban"`
	ManagedByAgency bool     `json:"managed_by_agency"`
}

func (BuyerProfile) Role() types.CustomerRole    { return types.CustomerRoleBuyer }
func (SellerProfile) Role() types.CustomerRole   { return types.CustomerRoleSeller }
func (TenantProfile) Role() types.CustomerRole   { return types.CustomerRoleTenant }
func (LandlordProfile) Role() types.CustomerRole { return types.CustomerRoleLandlord }

func (BuyerProfile) isProfile()    {}
func (SellerProfile) isProfile()   {}
func (TenantProfile) isProfile()   {}
func (LandlordProfile) isProfile() {}

func (p BuyerProfile) Validate() error {
	if p.BudgetMin.IsNegative() || p.BudgetMax.IsNegative() {
		return profileError("budget must not be negative")
	}
	if !p.BudgetMax.IsZero() && p.BudgetMax.LessThan(p.BudgetMin) {
		return profileError("maximum budget must not be less than minimum budget")
	}
	if p.MinRooms < 0 {
		return profileError("minimum rooms must not be negative")
	}
	for _, t := range p.PropertyTypes {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (p SellerProfile) Validate() error {
	if p.AskingPrice.IsNegative() {
		return profileError("asking price must not be negative")
	}
	return nil
}

func (p TenantProfile) Validate() error {
	if p.MaxRent.IsNegative() {
		return profileError("maximum rent must not be negative")
	}
	if p.Occupants < 0 {
		return profileError("occupants must not be negative")
	}
	return nil
}

func (p LandlordProfile) Validate() error {
	iban := strings.ReplaceAll(p.IBAN, " ", "")
	if iban != "" && (len(iban) < 15 || len(iban) > 34) {
		return profileError("IBAN must be between 15 and 34 characters")
	}
	if len(lo.Uniq(p.PropertyIDs)) != len(p.PropertyIDs) {
		return profileError("property ids must be unique")
	}
	return nil
}

func profileError(hint string) error {
	return ierr.NewError(hint).
		WithHint(strings.ToUpper(hint[:1]) + hint[1:]).
		Mark(ierr.ErrValidation)
}

// EmptyProfile returns the zero profile for a role
func EmptyProfile(role types.CustomerRole) (Profile, error) {
	switch role {
	case types.CustomerRoleBuyer:
		return BuyerProfile{}, nil
	case types.CustomerRoleSeller:
		return SellerProfile{}, nil
	case types.CustomerRoleTenant:
		return TenantProfile{}, nil
	case types.CustomerRoleLandlord:
		return LandlordProfile{}, nil
	}
	return nil, role.Validate()
}

// MarshalProfile encodes the active variant. A nil profile encodes as {}.
func MarshalProfile(p Profile) ([]byte, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrSystem)
	}
	return data, nil
}

// UnmarshalProfile decodes data as the variant named by role. Fields belonging
// to other variants are ignored.
func UnmarshalProfile(role types.CustomerRole, data []byte) (Profile, error) {
	if len(data) == 0 {
		data = []byte("{}")
	}

	var (
		p   Profile
		err error
	)
	switch role {
	case types.CustomerRoleBuyer:
		var v BuyerProfile
		err = json.Unmarshal(data, &v)
		p = v
	case types.CustomerRoleSeller:
		var v SellerProfile
		err = json.Unmarshal(data, &v)
		p = v
	case types.CustomerRoleTenant:
		var v TenantProfile
		err = json.Unmarshal(data, &v)
		p = v
	case types.CustomerRoleLandlord:
		var v LandlordProfile
		err = json.Unmarshal(data, &v)
		p = v
	default:
		return nil, role.Validate()
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Invalid %s profile", role).
			Mark(ierr.ErrValidation)
	}
	return p, nil
}
