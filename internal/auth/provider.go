package auth

import (
	"context"

	"github.com/brokerdesk/brokerdesk/internal/config"
	"github.com/brokerdesk/brokerdesk/internal/types"
)

type AuthRequest struct {
	UserID   string
	TenantID string
	Email    string
	Password string
}

// Credentials is what the user store keeps for a local login
type Credentials struct {
	UserID       string
	TenantID     string
	PasswordHash string
}

type AuthResponse struct {
	// ProviderToken is the bcrypt hash for local auth and the provider's
	// access token otherwise
	ProviderToken string
	AuthToken     string
	UserID        string
	TenantID      string
}

// Claims is the identity carried by a validated token
type Claims struct {
	UserID   string
	TenantID string
	Email    string
}

type Provider interface {
	GetProvider() types.AuthProvider
	SignUp(ctx context.Context, req AuthRequest) (*AuthResponse, error)
	Login(ctx context.Context, req AuthRequest, stored *Credentials) (*AuthResponse, error)
	ValidateToken(ctx context.Context, token string) (*Claims, error)
}

func NewProvider(cfg *config.Configuration) Provider {
	switch cfg.Auth.Provider {
	case types.AuthProviderSupabase:
		return NewSupabaseAuth(cfg)
	default:
		return NewLocalAuth(cfg)
	}
}
