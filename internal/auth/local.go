package auth

import (
	"context"
	"time"

	"github.com/brokerdesk/brokerdesk/internal/config"
	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/brokerdesk/brokerdesk/internal/types"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = 30 * 24 * time.Hour

// localAuth keeps password hashes in our own user table and signs HS256 tokens
type localAuth struct {
	AuthConfig config.AuthConfig
	now        func() time.Time
}

func NewLocalAuth(cfg *config.Configuration) *localAuth {
	return &localAuth{
		AuthConfig: cfg.Auth,
		now:        time.Now,
	}
}

func (a *localAuth) GetProvider() types.AuthProvider {
	return types.AuthProviderLocal
}

func (a *localAuth) SignUp(ctx context.Context, req AuthRequest) (*AuthResponse, error) {
	if len(req.Password) < 8 {
		return nil, ierr.NewError("password too short").
			WithHint("Password must be at least 8 characters").
			Mark(ierr.ErrValidation)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to hash password").
			Mark(ierr.ErrSystem)
	}

	userID := req.UserID
	if userID == "" {
		userID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_USER)
	}
	tenantID := req.TenantID
	if tenantID == "" {
		tenantID = types.DefaultTenantID
	}

	authToken, err := a.generateToken(userID, tenantID, req.Email)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		ProviderToken: string(hashedPassword),
		AuthToken:     authToken,
		UserID:        userID,
		TenantID:      tenantID,
	}, nil
}

func (a *localAuth) Login(ctx context.Context, req AuthRequest, stored *Credentials) (*AuthResponse, error) {
	if stored == nil {
		return nil, invalidCredentials()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(req.Password)); err != nil {
		return nil, invalidCredentials()
	}

	authToken, err := a.generateToken(stored.UserID, stored.TenantID, req.Email)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		ProviderToken: stored.PasswordHash,
		AuthToken:     authToken,
		UserID:        stored.UserID,
		TenantID:      stored.TenantID,
	}, nil
}

func (a *localAuth) ValidateToken(ctx context.Context, token string) (*Claims, error) {
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ierr.NewErrorf("unexpected signing method: %v", token.Header["alg"]).
				Mark(ierr.ErrUnauthenticated)
		}
		return []byte(a.AuthConfig.Secret), nil
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid or expired token").
			Mark(ierr.ErrUnauthenticated)
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok || !parsedToken.Valid {
		return nil, ierr.NewError("invalid token claims").
			WithHint("Invalid token claims").
			Mark(ierr.ErrUnauthenticated)
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return nil, ierr.NewError("token missing user ID").
			WithHint("Token missing user ID").
			Mark(ierr.ErrUnauthenticated)
	}

	tenantID, _ := claims["tenant_id"].(string)
	if tenantID == "" {
		tenantID = types.DefaultTenantID
	}
	email, _ := claims["email"].(string)

	return &Claims{UserID: userID, TenantID: tenantID, Email: email}, nil
}

func (a *localAuth) generateToken(userID, tenantID, email string) (string, error) {
	ttl := a.AuthConfig.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	now := a.now()

	claims := jwt.MapClaims{
		"user_id":   userID,
		"tenant_id": tenantID,
		"email":     email,
		"exp":       now.Add(ttl).Unix(),
		"iat":       now.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(a.AuthConfig.Secret))
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to generate token").
			Mark(ierr.ErrSystem)
	}
	return signed, nil
}

func invalidCredentials() error {
	return ierr.NewError("invalid credentials").
		WithHint("Invalid email or password").
		Mark(ierr.ErrUnauthenticated)
}
