package service

import (
	"testing"
	"time"

	"github.com/brokerdesk/brokerdesk/internal/api/dto"
	authProvider "github.com/brokerdesk/brokerdesk/internal/auth"
	"github.com/brokerdesk/brokerdesk/internal/config"
	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/brokerdesk/brokerdesk/internal/testutil"
	"github.com/brokerdesk/brokerdesk/internal/types"
	"github.com/stretchr/testify/suite"
)

type AuthServiceSuite struct {
	testutil.BaseServiceTestSuite
	provider authProvider.Provider
	service  AuthService
}

func TestAuthService(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}

func (s *AuthServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.GetConfig().Auth = config.AuthConfig{
		Provider: types.AuthProviderLocal,
		Secret:   "test-secret",
		TokenTTL: time.Hour,
	}
	stores := s.GetStores()
	s.provider = authProvider.NewProvider(s.GetConfig())
	s.service = NewAuthService(NewServiceParams(
		s.GetLogger(), s.GetConfig(), s.GetDB(), s.GetFiller(), s.GetStorage(),
		stores.DocumentRepo, stores.CustomerRepo, stores.PropertyRepo, stores.TemplateRepo, stores.UserRepo,
	), s.provider)
}

func (s *AuthServiceSuite) signUp() *dto.AuthResponse {
	resp, err := s.service.SignUp(s.GetContext(), &dto.SignUpRequest{
		Email:    "Agent@Example.com ",
		Password: "correct-horse",
		Name:     "Zeynep",
		TenantID: "agency_1",
	})
	s.Require().NoError(err)
	return resp
}

func (s *AuthServiceSuite) TestSignUpIssuesUsableToken() {
	resp := s.signUp()
	s.Equal("agency_1", resp.TenantID)

	claims, err := s.provider.ValidateToken(s.GetContext(), resp.Token)
	s.Require().NoError(err)
	s.Equal(resp.UserID, claims.UserID)
	s.Equal("agency_1", claims.TenantID)

	u, err := s.GetStores().UserRepo.GetByEmail(s.GetContext(), "agent@example.com")
	s.Require().NoError(err)
	s.Equal(resp.UserID, u.ID)
	s.NotEmpty(u.PasswordHash)
	s.NotEqual("correct-horse", u.PasswordHash)
}

func (s *AuthServiceSuite) TestSignUpTwiceFails() {
	s.signUp()
	_, err := s.service.SignUp(s.GetContext(), &dto.SignUpRequest{
		Email:    "agent@example.com",
		Password: "another-pass",
	})
	s.True(ierr.IsAlreadyExists(err))
}

func (s *AuthServiceSuite) TestSignUpValidation() {
	_, err := s.service.SignUp(s.GetContext(), &dto.SignUpRequest{Email: "agent@example.com", Password: "short"})
	s.True(ierr.IsValidation(err))

	_, err = s.service.SignUp(s.GetContext(), &dto.SignUpRequest{Email: "nope", Password: "long-enough"})
	s.True(ierr.IsValidation(err))
}

func (s *AuthServiceSuite) TestLogin() {
	signup := s.signUp()

	resp, err := s.service.Login(s.GetContext(), &dto.LoginRequest{Email: "agent@example.com", Password: "correct-horse"})
	s.Require().NoError(err)
	s.Equal(signup.UserID, resp.UserID)
	s.Equal("agency_1", resp.TenantID)
	s.NotEmpty(resp.Token)
}

func (s *AuthServiceSuite) TestLoginNormalizesEmail() {
	signup := s.signUp()

	resp, err := s.service.Login(s.GetContext(), &dto.LoginRequest{Email: " AGENT@example.com ", Password: "correct-horse"})
	s.Require().NoError(err)
	s.Equal(signup.UserID, resp.UserID)
}

func (s *AuthServiceSuite) TestLoginFailuresLookTheSame() {
	s.signUp()

	_, wrongPassword := s.service.Login(s.GetContext(), &dto.LoginRequest{Email: "agent@example.com", Password: "wrong-horse"})
	_, unknownEmail := s.service.Login(s.GetContext(), &dto.LoginRequest{Email: "ghost@example.com", Password: "correct-horse"})

	s.True(ierr.IsUnauthenticated(wrongPassword))
	s.True(ierr.IsUnauthenticated(unknownEmail))
}
