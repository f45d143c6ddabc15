package service

import (
	"encoding/json"
	"testing"

	"github.com/brokerdesk/brokerdesk/internal/api/dto"
	"github.com/brokerdesk/brokerdesk/internal/domain/customer"
	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/brokerdesk/brokerdesk/internal/testutil"
	"github.com/brokerdesk/brokerdesk/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type CustomerServiceSuite struct {
	testutil.BaseServiceTestSuite
	service CustomerService
}

func TestCustomerService(t *testing.T) {
	suite.Run(t, new(CustomerServiceSuite))
}

func (s *CustomerServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	stores := s.GetStores()
	s.service = NewCustomerService(NewServiceParams(
		s.GetLogger(), s.GetConfig(), s.GetDB(), s.GetFiller(), s.GetStorage(),
		stores.DocumentRepo, stores.CustomerRepo, stores.PropertyRepo, stores.TemplateRepo, stores.UserRepo,
	))
}

func (s *CustomerServiceSuite) createBuyer(name string) *dto.CustomerResponse {
	resp, err := s.service.CreateCustomer(s.GetContext(), s.GetSession(), &dto.CreateCustomerRequest{
		Name:    name,
		Email:   "ayse@example.com",
		Role:    types.CustomerRoleBuyer,
		Tags:    []string{"vip"},
		Profile: json.RawMessage(`{"budget_min":"3000000","budget_max":"5000000","preferred_cities":["İstanbul"],"min_rooms":2}`),
	})
	s.Require().NoError(err)
	return resp
}

func (s *CustomerServiceSuite) TestCreateCustomerDecodesProfileForRole() {
	resp := s.createBuyer("Ayşe Demir")

	s.Equal(types.CustomerStatusLead, resp.Status)
	s.Equal(testutil.TestUserID, resp.OwnerID)
	profile, ok := resp.Profile.(customer.BuyerProfile)
	s.Require().True(ok)
	s.True(profile.BudgetMax.Equal(decimal.NewFromInt(5000000)))
	s.Equal([]string{"İstanbul"}, profile.PreferredCities)
}

func (s *CustomerServiceSuite) TestCreateCustomerValidation() {
	tests := []struct {
		name string
		req  *dto.CreateCustomerRequest
	}{
		{"blank name", &dto.CreateCustomerRequest{Name: "  ", Role: types.CustomerRoleBuyer}},
		{"unknown role", &dto.CreateCustomerRequest{Name: "Ali", Role: "investor"}},
		{"bad email", &dto.CreateCustomerRequest{Name: "Ali", Email: "not-an-email", Role: types.CustomerRoleTenant}},
		{"inverted budget", &dto.CreateCustomerRequest{
			Name: "Ali", Role: types.CustomerRoleBuyer,
			Profile: json.RawMessage(`{"budget_min":"5","budget_max":"1"}`),
		}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.CreateCustomer(s.GetContext(), s.GetSession(), tt.req)
			s.True(ierr.IsValidation(err), "got %v", err)
		})
	}
}

func (s *CustomerServiceSuite) TestRoleChangeReplacesProfile() {
	c := s.createBuyer("Ayşe Demir")

	role := types.CustomerRoleTenant
	resp, err := s.service.UpdateCustomer(s.GetContext(), s.GetSession(), c.ID, &dto.UpdateCustomerRequest{
		Role:    &role,
		Profile: json.RawMessage(`{"max_rent":"30000","occupants":3,"has_pets":true}`),
	})
	s.Require().NoError(err)
	s.Equal(types.CustomerRoleTenant, resp.Role)
	profile, ok := resp.Profile.(customer.TenantProfile)
	s.Require().True(ok)
	s.Equal(3, profile.Occupants)
	s.True(profile.HasPets)

	got, err := s.service.GetCustomer(s.GetContext(), s.GetSession(), c.ID)
	s.Require().NoError(err)
	s.IsType(customer.TenantProfile{}, got.Profile)
}

func (s *CustomerServiceSuite) TestListCustomersFilters() {
	s.createBuyer("Ayşe Demir")
	_, err := s.service.CreateCustomer(s.GetContext(), s.GetSession(), &dto.CreateCustomerRequest{
		Name: "Mehmet Kaya",
		Role: types.CustomerRoleLandlord,
	})
	s.Require().NoError(err)

	filter := types.NewCustomerFilter()
	filter.Role = types.CustomerRoleLandlord
	list, err := s.service.ListCustomers(s.GetContext(), s.GetSession(), filter)
	s.Require().NoError(err)
	s.Require().Len(list.Items, 1)
	s.Equal("Mehmet Kaya", list.Items[0].Name)

	filter = types.NewCustomerFilter()
	filter.Sort = lo.ToPtr("name")
	filter.Order = lo.ToPtr(types.OrderAsc)
	list, err = s.service.ListCustomers(s.GetContext(), s.GetSession(), filter)
	s.Require().NoError(err)
	s.Equal([]string{"Ayşe Demir", "Mehmet Kaya"}, lo.Map(list.Items, func(c *dto.CustomerResponse, _ int) string { return c.Name }))
	s.Equal(2, list.Pagination.Total)
}

func (s *CustomerServiceSuite) TestOtherAgentsCannotSeeCustomers() {
	c := s.createBuyer("Ayşe Demir")
	other := s.GetOtherSession()

	_, err := s.service.GetCustomer(s.GetContext(), other, c.ID)
	s.True(ierr.IsNotFound(err))

	name := "Hijacked"
	_, err = s.service.UpdateCustomer(s.GetContext(), other, c.ID, &dto.UpdateCustomerRequest{Name: &name})
	s.True(ierr.IsNotFound(err))

	s.True(ierr.IsNotFound(s.service.DeleteCustomer(s.GetContext(), other, c.ID)))

	list, err := s.service.ListCustomers(s.GetContext(), other, nil)
	s.Require().NoError(err)
	s.Empty(list.Items)

	got, err := s.service.GetCustomer(s.GetContext(), s.GetSession(), c.ID)
	s.Require().NoError(err)
	s.Equal("Ayşe Demir", got.Name)
}

func (s *CustomerServiceSuite) TestDeleteCustomer() {
	c := s.createBuyer("Ayşe Demir")
	s.Require().NoError(s.service.DeleteCustomer(s.GetContext(), s.GetSession(), c.ID))

	_, err := s.service.GetCustomer(s.GetContext(), s.GetSession(), c.ID)
	s.True(ierr.IsNotFound(err))
}
