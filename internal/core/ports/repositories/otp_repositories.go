package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/unit_availability_app/internal/core/domain"
)

// OTPRepositoryFacade stores one-time login codes.
type OTPRepositoryFacade interface {
	// SaveOTPToken persists a new token.
	SaveOTPToken(ctx context.Context, token domain.OTPToken) error

	// ConsumeOTPToken atomically marks used the newest unused token of userID
	// matching code and unexpired at now, and returns it. When no token
	// qualifies it returns apperrors.ErrNotFound. Concurrent calls never
	// consume the same token twice.
	ConsumeOTPToken(ctx context.Context, userID, code string, now time.Time) (*domain.OTPToken, error)

	// DeleteExpiredOTPTokens removes tokens that expired before cutoff.
	DeleteExpiredOTPTokens(ctx context.Context, cutoff time.Time) (int64, error)
}
