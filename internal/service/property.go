package service

import (
	"context"

	"github.com/brokerdesk/brokerdesk/internal/api/dto"
	"github.com/brokerdesk/brokerdesk/internal/domain/property"
	"github.com/brokerdesk/brokerdesk/internal/types"
	"github.com/samber/lo"
)

type PropertyService interface {
	CreateProperty(ctx context.Context, sess *types.Session, req *dto.CreatePropertyRequest) (*dto.PropertyResponse, error)
	GetProperty(ctx context.Context, sess *types.Session, id string) (*dto.PropertyResponse, error)
	ListProperties(ctx context.Context, sess *types.Session, filter *types.PropertyFilter) (*dto.ListPropertiesResponse, error)
	UpdateProperty(ctx context.Context, sess *types.Session, id string, req *dto.UpdatePropertyRequest) (*dto.PropertyResponse, error)
	DeleteProperty(ctx context.Context, sess *types.Session, id string) error
}

type propertyService struct {
	ServiceParams
}

func NewPropertyService(params ServiceParams) PropertyService {
	return &propertyService{
		ServiceParams: params,
	}
}

func (s *propertyService) CreateProperty(ctx context.Context, sess *types.Session, req *dto.CreatePropertyRequest) (*dto.PropertyResponse, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	prop, err := req.ToProperty(sess)
	if err != nil {
		return nil, err
	}

	if err := s.PropertyRepo.Create(ctx, sess, prop); err != nil {
		return nil, err
	}
	return &dto.PropertyResponse{Property: prop}, nil
}

func (s *propertyService) GetProperty(ctx context.Context, sess *types.Session, id string) (*dto.PropertyResponse, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	prop, err := s.PropertyRepo.Get(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	return &dto.PropertyResponse{Property: prop}, nil
}

func (s *propertyService) ListProperties(ctx context.Context, sess *types.Session, filter *types.PropertyFilter) (*dto.ListPropertiesResponse, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	if filter == nil {
		filter = types.NewPropertyFilter()
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	properties, err := s.PropertyRepo.List(ctx, sess, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.PropertyRepo.Count(ctx, sess, filter)
	if err != nil {
		return nil, err
	}

	items := lo.Map(properties, func(p *property.Property, _ int) *dto.PropertyResponse {
		return &dto.PropertyResponse{Property: p}
	})
	resp := types.NewListResponse(items, total, filter)
	return &resp, nil
}

func (s *propertyService) UpdateProperty(ctx context.Context, sess *types.Session, id string, req *dto.UpdatePropertyRequest) (*dto.PropertyResponse, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	prop, err := s.PropertyRepo.Get(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if err := req.Apply(prop); err != nil {
		return nil, err
	}
	prop.Touch(sess)

	if err := s.PropertyRepo.Update(ctx, sess, prop); err != nil {
		return nil, err
	}
	return &dto.PropertyResponse{Property: prop}, nil
}

func (s *propertyService) DeleteProperty(ctx context.Context, sess *types.Session, id string) error {
	if err := sess.Validate(); err != nil {
		return err
	}
	return s.PropertyRepo.Delete(ctx, sess, id)
}
