package services

import (
	"context"

	"github.com/SscSPs/unit_availability_app/internal/core/domain"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
)

// TokenSvcFacade defines the interface for token management services.
type TokenSvcFacade interface {
	// IssueSession creates an access token and a fresh refresh token for user,
	// storing the refresh token hash.
	IssueSession(ctx context.Context, user *domain.User) (*domain.SessionTokens, error)

	// RefreshSession validates refreshToken against userID's stored hash and rotates it.
	RefreshSession(ctx context.Context, userID, refreshToken string) (*domain.SessionTokens, error)

	// RevokeSession forgets the stored refresh token.
	RevokeSession(ctx context.Context, userID string) error
}

// GoogleOAuthSvcFacade defines the interface for Google OAuth operations.
type GoogleOAuthSvcFacade interface {
	// GenerateStateString creates a secure random string to be used as a CSRF token for OAuth flow.
	GenerateStateString(ctx context.Context) (string, error)
	// GetGoogleLoginURL returns the URL to redirect the user to for Google login.
	GetGoogleLoginURL(ctx context.Context, state string) string
	// ExchangeCodeForToken exchanges an OAuth authorization code for a token.
	ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error)
	// ValidateGoogleIDToken validates an ID token string from Google and returns its payload.
	ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error)
	// SignIn exchanges code, validates the ID token and opens a session for
	// the approved user owning the Google e-mail.
	SignIn(ctx context.Context, code string) (*domain.AuthSession, error)
}
