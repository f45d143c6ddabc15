package service

import (
	"context"

	"github.com/brokerdesk/brokerdesk/internal/api/dto"
	"github.com/brokerdesk/brokerdesk/internal/domain/customer"
	"github.com/brokerdesk/brokerdesk/internal/types"
	"github.com/samber/lo"
)

type CustomerService interface {
	CreateCustomer(ctx context.Context, sess *types.Session, req *dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	GetCustomer(ctx context.Context, sess *types.Session, id string) (*dto.CustomerResponse, error)
	ListCustomers(ctx context.Context, sess *types.Session, filter *types.CustomerFilter) (*dto.ListCustomersResponse, error)
	UpdateCustomer(ctx context.Context, sess *types.Session, id string, req *dto.UpdateCustomerRequest) (*dto.CustomerResponse, error)
	DeleteCustomer(ctx context.Context, sess *types.Session, id string) error
}

type customerService struct {
	ServiceParams
}

func NewCustomerService(params ServiceParams) CustomerService {
	return &customerService{
		ServiceParams: params,
	}
}

func (s *customerService) CreateCustomer(ctx context.Context, sess *types.Session, req *dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cust, err := req.ToCustomer(sess)
	if err != nil {
		return nil, err
	}

	if err := s.CustomerRepo.Create(ctx, sess, cust); err != nil {
		return nil, err
	}
	return &dto.CustomerResponse{Customer: cust}, nil
}

func (s *customerService) GetCustomer(ctx context.Context, sess *types.Session, id string) (*dto.CustomerResponse, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	cust, err := s.CustomerRepo.Get(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	return &dto.CustomerResponse{Customer: cust}, nil
}

func (s *customerService) ListCustomers(ctx context.Context, sess *types.Session, filter *types.CustomerFilter) (*dto.ListCustomersResponse, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	if filter == nil {
		filter = types.NewCustomerFilter()
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	customers, err := s.CustomerRepo.List(ctx, sess, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.CustomerRepo.Count(ctx, sess, filter)
	if err != nil {
		return nil, err
	}

	items := lo.Map(customers, func(c *customer.Customer, _ int) *dto.CustomerResponse {
		return &dto.CustomerResponse{Customer: c}
	})
	resp := types.NewListResponse(items, total, filter)
	return &resp, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, sess *types.Session, id string, req *dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cust, err := s.CustomerRepo.Get(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if err := req.Apply(cust); err != nil {
		return nil, err
	}
	cust.Touch(sess)

	if err := s.CustomerRepo.Update(ctx, sess, cust); err != nil {
		return nil, err
	}
	return &dto.CustomerResponse{Customer: cust}, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, sess *types.Session, id string) error {
	if err := sess.Validate(); err != nil {
		return err
	}
	return s.CustomerRepo.Delete(ctx, sess, id)
}
