package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/unit_availability_app/internal/apperrors"
	"github.com/SscSPs/unit_availability_app/internal/core/domain"
	portsrepo "github.com/SscSPs/unit_availability_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/unit_availability_app/internal/core/ports/services"
	"github.com/SscSPs/unit_availability_app/internal/metrics"
	"github.com/SscSPs/unit_availability_app/internal/notify"
	"github.com/SscSPs/unit_availability_app/internal/ratelimit"
	"github.com/SscSPs/unit_availability_app/internal/utils"
	"github.com/google/uuid"
)

// RateLimiter counts attempts per key. ratelimit.Limiter implements it.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (ratelimit.Decision, error)
}

// otpService implements OTPSvcFacade.
type otpService struct {
	BaseService
	userRepo    portsrepo.UserReader
	profileRepo portsrepo.ProfileRepositoryFacade
	otpRepo     portsrepo.OTPRepositoryFacade
	tokens      portssvc.TokenSvcFacade
	limiter     RateLimiter
	dispatcher  notify.Dispatcher
	expiry      time.Duration
	metrics     *metrics.Metrics
	generate    func() (string, error)
}

// OTPServiceOption configures the OTP service.
type OTPServiceOption func(*otpService)

// WithOTPExpiry sets how long issued codes stay valid.
func WithOTPExpiry(d time.Duration) OTPServiceOption {
	return func(s *otpService) {
		if d > 0 {
			s.expiry = d
		}
	}
}

// WithOTPMetrics records issuance and verification outcomes.
func WithOTPMetrics(m *metrics.Metrics) OTPServiceOption {
	return func(s *otpService) {
		s.metrics = m
	}
}

// WithOTPGenerator replaces the random code generator.
func WithOTPGenerator(fn func() (string, error)) OTPServiceOption {
	return func(s *otpService) {
		s.generate = fn
	}
}

// WithOTPClock pins the clock.
func WithOTPClock(now func() time.Time) OTPServiceOption {
	return func(s *otpService) {
		s.Now = now
	}
}

// NewOTPService creates the one-time code service.
func NewOTPService(
	userRepo portsrepo.UserReader,
	profileRepo portsrepo.ProfileRepositoryFacade,
	otpRepo portsrepo.OTPRepositoryFacade,
	tokens portssvc.TokenSvcFacade,
	limiter RateLimiter,
	dispatcher notify.Dispatcher,
	opts ...OTPServiceOption,
) portssvc.OTPSvcFacade {
	s := &otpService{
		BaseService: newBaseService(),
		userRepo:    userRepo,
		profileRepo: profileRepo,
		otpRepo:     otpRepo,
		tokens:      tokens,
		limiter:     limiter,
		dispatcher:  dispatcher,
		expiry:      10 * time.Minute,
		generate:    utils.GenerateOTPCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.OTPSvcFacade = (*otpService)(nil)

func otpRateKey(userID string) string {
	return "otp:" + userID
}

func (s *otpService) RequestCode(ctx context.Context, email string) (*domain.OTPIssue, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.count("unknown_user")
			return nil, fmt.Errorf("%w: user not found", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if err := s.checkEligible(*user); err != nil {
		return nil, err
	}

	decision, err := s.limiter.Allow(ctx, otpRateKey(user.UserID))
	if err != nil {
		s.LogError(ctx, err, "OTP rate limit check failed", slog.String("user_id", user.UserID))
		return nil, err
	}
	if !decision.Allowed {
		s.count("rate_limited")
		s.LogWarn(ctx, "OTP rate limit reached",
			slog.String("user_id", user.UserID),
			slog.Time("reset", decision.Reset),
		)
		return nil, apperrors.ErrRateLimited
	}
	return s.issue(ctx, *user)
}

// IssueCode skips the request limiter; approval hands out one code on its own account.
func (s *otpService) IssueCode(ctx context.Context, user domain.User) (*domain.OTPIssue, error) {
	if err := s.checkEligible(user); err != nil {
		return nil, err
	}
	return s.issue(ctx, user)
}

func (s *otpService) checkEligible(user domain.User) error {
	if !user.IsApproved {
		s.count("not_approved")
		return apperrors.ErrNotApproved
	}
	if !user.IsActive {
		return fmt.Errorf("%w: account is inactive", apperrors.ErrForbidden)
	}
	return nil
}

func (s *otpService) issue(ctx context.Context, user domain.User) (*domain.OTPIssue, error) {
	code, err := s.generate()
	if err != nil {
		return nil, err
	}
	now := s.clock()
	token := domain.OTPToken{
		OTPTokenID: uuid.NewString(),
		UserID:     user.UserID,
		Code:       code,
		Purpose:    domain.OTPPurposeLogin,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.expiry),
	}
	if err := s.otpRepo.SaveOTPToken(ctx, token); err != nil {
		s.LogError(ctx, err, "Failed to persist OTP token", slog.String("user_id", user.UserID))
		return nil, fmt.Errorf("failed to save otp token: %w", err)
	}
	s.count("issued")

	issue := &domain.OTPIssue{
		UserID:           user.UserID,
		Code:             code,
		ExpiresAt:        token.ExpiresAt,
		ExpiresInMinutes: int(s.expiry / time.Minute),
	}

	msg := notify.BuildOTPEmail(notify.OTPEmailData{
		Name:             user.FullName(),
		Code:             code,
		ExpiresInMinutes: issue.ExpiresInMinutes,
	})
	msg.To = user.Email
	msg.UserID = user.UserID
	if err := s.dispatcher.Submit(msg); err != nil {
		s.LogError(ctx, err, "Failed to queue OTP email", slog.String("user_id", user.UserID))
		issue.Warning = fmt.Sprintf("login code created but the email could not be queued: %v", err)
	}

	s.LogInfo(ctx, "OTP issued", slog.String("user_id", user.UserID), slog.Time("expires_at", token.ExpiresAt))
	return issue, nil
}

func (s *otpService) VerifyCode(ctx context.Context, email, code string) (*domain.AuthSession, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.countVerify("invalid")
			return nil, apperrors.ErrInvalidOrExpiredCode
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !user.IsActive {
		s.countVerify("invalid")
		return nil, apperrors.ErrInvalidOrExpiredCode
	}

	token, err := s.otpRepo.ConsumeOTPToken(ctx, user.UserID, code, s.clock())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.countVerify("invalid")
			s.LogInfo(ctx, "OTP verification failed", slog.String("user_id", user.UserID))
			return nil, apperrors.ErrInvalidOrExpiredCode
		}
		return nil, fmt.Errorf("failed to consume otp token: %w", err)
	}
	s.countVerify("ok")

	tokens, err := s.tokens.IssueSession(ctx, user)
	if err != nil {
		return nil, err
	}
	profile, err := s.profileRepo.FindProfileByUserID(ctx, user.UserID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	s.LogInfo(ctx, "OTP verified", slog.String("user_id", user.UserID), slog.String("otp_token_id", token.OTPTokenID))
	return &domain.AuthSession{
		Tokens: *tokens,
		User:   domain.UserWithProfile{User: *user, Profile: profile},
	}, nil
}

func (s *otpService) count(result string) {
	if s.metrics != nil {
		s.metrics.OTPIssued.WithLabelValues(result).Inc()
	}
}

func (s *otpService) countVerify(result string) {
	if s.metrics != nil {
		s.metrics.OTPVerified.WithLabelValues(result).Inc()
	}
}
