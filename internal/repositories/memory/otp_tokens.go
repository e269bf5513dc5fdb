package memory

import (
	"context"
	"time"

	"github.com/SscSPs/unit_availability_app/internal/apperrors"
	"github.com/SscSPs/unit_availability_app/internal/core/domain"
)

func (s *Store) SaveOTPToken(ctx context.Context, token domain.OTPToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.otps = append(s.otps, token)
	return nil
}

func (s *Store) ConsumeOTPToken(ctx context.Context, userID, code string, now time.Time) (*domain.OTPToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	best := -1
	for i, t := range s.otps {
		if t.UserID != userID || t.Code != code || !t.IsRedeemable(now) {
			continue
		}
		if best < 0 || t.CreatedAt.After(s.otps[best].CreatedAt) {
			best = i
		}
	}
	if best < 0 {
		return nil, apperrors.ErrNotFound
	}
	s.otps[best].Used = true
	t := s.otps[best]
	return &t, nil
}

func (s *Store) DeleteExpiredOTPTokens(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.otps[:0]
	var removed int64
	for _, t := range s.otps {
		if t.ExpiresAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	s.otps = kept
	return removed, nil
}

// OTPTokens returns a copy of the tokens of userID.
func (s *Store) OTPTokens(userID string) []domain.OTPToken {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.OTPToken
	for _, t := range s.otps {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out
}
