package service

import (
	"testing"

	"github.com/brokerdesk/brokerdesk/internal/api/dto"
	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/brokerdesk/brokerdesk/internal/testutil"
	"github.com/brokerdesk/brokerdesk/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type PropertyServiceSuite struct {
	testutil.BaseServiceTestSuite
	service PropertyService
}

func TestPropertyService(t *testing.T) {
	suite.Run(t, new(PropertyServiceSuite))
}

func (s *PropertyServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	stores := s.GetStores()
	s.service = NewPropertyService(NewServiceParams(
		s.GetLogger(), s.GetConfig(), s.GetDB(), s.GetFiller(), s.GetStorage(),
		stores.DocumentRepo, stores.CustomerRepo, stores.PropertyRepo, stores.TemplateRepo, stores.UserRepo,
	))
}

func (s *PropertyServiceSuite) create(title string, price int64) *dto.PropertyResponse {
	resp, err := s.service.CreateProperty(s.GetContext(), s.GetSession(), &dto.CreatePropertyRequest{
		Title:       title,
		Type:        types.PropertyTypeApartment,
		ListingType: types.ListingTypeRent,
		City:        "İstanbul",
		Price:       decimal.NewFromInt(price),
		AreaSqm:     decimal.NewFromInt(95),
		Rooms:       3,
	})
	s.Require().NoError(err)
	return resp
}

func (s *PropertyServiceSuite) TestCreatePropertyDefaults() {
	p := s.create("Moda 3+1", 25000)
	s.Equal("TRY", p.Currency)
	s.Equal(types.PropertyStatusAvailable, p.Status)
	s.Equal(testutil.TestUserID, p.OwnerID)
}

func (s *PropertyServiceSuite) TestCreatePropertyRejectsNegativePrice() {
	_, err := s.service.CreateProperty(s.GetContext(), s.GetSession(), &dto.CreatePropertyRequest{
		Title:       "Broken",
		Type:        types.PropertyTypeHouse,
		ListingType: types.ListingTypeSale,
		Price:       decimal.NewFromInt(-1),
	})
	s.True(ierr.IsValidation(err))
}

func (s *PropertyServiceSuite) TestListPropertiesByPrice() {
	s.create("Moda 3+1", 25000)
	s.create("Fenerbahçe 2+1", 18000)
	s.create("Caddebostan 4+1", 40000)

	lo, hi := decimal.NewFromInt(20000), decimal.NewFromInt(30000)
	filter := types.NewPropertyFilter()
	filter.MinPrice, filter.MaxPrice = &lo, &hi
	list, err := s.service.ListProperties(s.GetContext(), s.GetSession(), filter)
	s.Require().NoError(err)
	s.Require().Len(list.Items, 1)
	s.Equal("Moda 3+1", list.Items[0].Title)

	filter = types.NewPropertyFilter()
	filter.City = "İSTANBUL"
	list, err = s.service.ListProperties(s.GetContext(), s.GetSession(), filter)
	s.Require().NoError(err)
	s.Len(list.Items, 3)
	s.Equal(3, list.Pagination.Total)
}

func (s *PropertyServiceSuite) TestUpdateProperty() {
	p := s.create("Moda 3+1", 25000)

	status := types.PropertyStatusRented
	price := decimal.NewFromInt(27000)
	resp, err := s.service.UpdateProperty(s.GetContext(), s.GetSession(), p.ID, &dto.UpdatePropertyRequest{
		Status: &status,
		Price:  &price,
	})
	s.Require().NoError(err)
	s.Equal(types.PropertyStatusRented, resp.Status)
	s.True(resp.Price.Equal(price))

	currency := "lira"
	_, err = s.service.UpdateProperty(s.GetContext(), s.GetSession(), p.ID, &dto.UpdatePropertyRequest{Currency: &currency})
	s.True(ierr.IsValidation(err))
}

func (s *PropertyServiceSuite) TestOtherAgentsCannotSeeProperties() {
	p := s.create("Moda 3+1", 25000)
	other := s.GetOtherSession()

	_, err := s.service.GetProperty(s.GetContext(), other, p.ID)
	s.True(ierr.IsNotFound(err))
	s.True(ierr.IsNotFound(s.service.DeleteProperty(s.GetContext(), other, p.ID)))

	list, err := s.service.ListProperties(s.GetContext(), other, nil)
	s.Require().NoError(err)
	s.Empty(list.Items)
}
