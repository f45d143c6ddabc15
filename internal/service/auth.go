package service

import (
	"context"
	"strings"

	"github.com/brokerdesk/brokerdesk/internal/api/dto"
	authProvider "github.com/brokerdesk/brokerdesk/internal/auth"
	"github.com/brokerdesk/brokerdesk/internal/domain/user"
	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/brokerdesk/brokerdesk/internal/types"
)

type AuthService interface {
	SignUp(ctx context.Context, req *dto.SignUpRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
}

type authService struct {
	ServiceParams
	authProvider authProvider.Provider
}

func NewAuthService(params ServiceParams, provider authProvider.Provider) AuthService {
	return &authService{
		ServiceParams: params,
		authProvider:  provider,
	}
}

// SignUp creates a new user and returns an auth token
func (s *authService) SignUp(ctx context.Context, req *dto.SignUpRequest) (*dto.AuthResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := req.Validate(); err != nil {
		return nil, err
	}
	email := req.Email

	existing, err := s.UserRepo.GetByEmail(ctx, email)
	if existing != nil {
		return nil, ierr.NewError("user already exists").
			WithHint("An account with this email already exists").
			WithReportableDetails(map[string]interface{}{
				"email": email,
			}).
			Mark(ierr.ErrAlreadyExists)
	}
	if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}

	u := user.NewUser(email, req.Name, req.TenantID)

	authResponse, err := s.authProvider.SignUp(ctx, authProvider.AuthRequest{
		UserID:   u.ID,
		TenantID: u.TenantID,
		Email:    email,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}

	// supabase assigns its own ids
	u.ID = authResponse.UserID
	if s.authProvider.GetProvider() == types.AuthProviderLocal {
		u.PasswordHash = authResponse.ProviderToken
	}

	if err := s.UserRepo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.Logger.Infow("user signed up", "user_id", u.ID, "tenant_id", u.TenantID)
	return &dto.AuthResponse{
		Token:    authResponse.AuthToken,
		UserID:   u.ID,
		TenantID: u.TenantID,
	}, nil
}

// Login authenticates a user and returns an auth token. An unknown email
// and a wrong password fail the same way.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := req.Validate(); err != nil {
		return nil, err
	}
	email := req.Email

	u, err := s.UserRepo.GetByEmail(ctx, email)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, ierr.NewError("invalid credentials").
				WithHint("Invalid email or password").
				Mark(ierr.ErrUnauthenticated)
		}
		return nil, err
	}

	authResponse, err := s.authProvider.Login(ctx, authProvider.AuthRequest{
		UserID:   u.ID,
		TenantID: u.TenantID,
		Email:    u.Email,
		Password: req.Password,
	}, &authProvider.Credentials{
		UserID:       u.ID,
		TenantID:     u.TenantID,
		PasswordHash: u.PasswordHash,
	})
	if err != nil {
		return nil, err
	}

	if authResponse.UserID != u.ID {
		return nil, ierr.NewError("token subject does not match user").
			WithHint("Invalid email or password").
			Mark(ierr.ErrUnauthenticated)
	}

	return &dto.AuthResponse{
		Token:    authResponse.AuthToken,
		UserID:   u.ID,
		TenantID: u.TenantID,
	}, nil
}
