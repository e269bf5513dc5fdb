package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/unit_availability_app/internal/apperrors"
	"github.com/SscSPs/unit_availability_app/internal/core/domain"
	portsrepo "github.com/SscSPs/unit_availability_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/unit_availability_app/internal/core/ports/services"
	"github.com/SscSPs/unit_availability_app/internal/utils"
	"github.com/SscSPs/unit_availability_app/pkg/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

// googleOAuthService implements the GoogleOAuthSvcFacade.
type googleOAuthService struct {
	BaseService
	clientID     string
	oauth2Config *oauth2.Config
	users        portsrepo.UserReader
	profiles     portsrepo.ProfileRepositoryFacade
	tokens       portssvc.TokenSvcFacade
	validate     func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)
}

// NewGoogleOAuthService creates a new instance of googleOAuthService.
func NewGoogleOAuthService(
	cfg *config.Config,
	users portsrepo.UserReader,
	profiles portsrepo.ProfileRepositoryFacade,
	tokens portssvc.TokenSvcFacade,
) portssvc.GoogleOAuthSvcFacade {
	return &googleOAuthService{
		BaseService: newBaseService(),
		clientID:    cfg.GoogleClientID,
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
			Endpoint:     google.Endpoint,
		},
		users:    users,
		profiles: profiles,
		tokens:   tokens,
		validate: idtoken.Validate,
	}
}

var _ portssvc.GoogleOAuthSvcFacade = (*googleOAuthService)(nil)

// GenerateStateString creates a secure random string to be used as a CSRF token for OAuth flow.
func (s *googleOAuthService) GenerateStateString(ctx context.Context) (string, error) {
	// 16 bytes -> 32 char hex string
	state, err := utils.GenerateSecureRandomString(16)
	if err != nil {
		return "", fmt.Errorf("failed to generate state string for OAuth: %w", err)
	}
	return state, nil
}

func (s *googleOAuthService) GetGoogleLoginURL(ctx context.Context, state string) string {
	return s.oauth2Config.AuthCodeURL(state)
}

func (s *googleOAuthService) ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange oauth code for token: %w", err)
	}
	return token, nil
}

func (s *googleOAuthService) ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error) {
	if s.clientID == "" {
		return nil, errors.New("google client ID is not configured in the application")
	}
	payload, err := s.validate(ctx, idTokenString, s.clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: google ID token validation failed: %v", apperrors.ErrUnauthorized, err)
	}
	return payload, nil
}

// SignIn never creates accounts: Google only proves ownership of an e-mail
// that already went through registration and approval.
func (s *googleOAuthService) SignIn(ctx context.Context, code string) (*domain.AuthSession, error) {
	token, err := s.ExchangeCodeForToken(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}
	idTokenString, ok := token.Extra("id_token").(string)
	if !ok || idTokenString == "" {
		return nil, errors.New("ID token not found in Google's token response")
	}
	payload, err := s.ValidateGoogleIDToken(ctx, idTokenString)
	if err != nil {
		return nil, err
	}
	return s.signInWithPayload(ctx, payload)
}

func (s *googleOAuthService) signInWithPayload(ctx context.Context, payload *idtoken.Payload) (*domain.AuthSession, error) {
	email, _ := payload.Claims["email"].(string)
	verified, _ := payload.Claims["email_verified"].(bool)
	if email == "" || !verified {
		return nil, fmt.Errorf("%w: google account has no verified email", apperrors.ErrUnauthorized)
	}

	user, err := s.users.FindUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no registered account for this google email", apperrors.ErrUnauthorized)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is inactive", apperrors.ErrUnauthorized)
	}
	if !user.IsApproved {
		return nil, apperrors.ErrNotApproved
	}

	tokens, err := s.tokens.IssueSession(ctx, user)
	if err != nil {
		return nil, err
	}
	profile, err := s.profiles.FindProfileByUserID(ctx, user.UserID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	s.LogInfo(ctx, "User signed in with Google", slog.String("user_id", user.UserID), slog.String("google_sub", payload.Subject))
	return &domain.AuthSession{Tokens: *tokens, User: domain.UserWithProfile{User: *user, Profile: profile}}, nil
}
