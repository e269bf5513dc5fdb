package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/unit_availability_app/internal/apperrors"
	"github.com/SscSPs/unit_availability_app/internal/core/domain"
)

func (s *Store) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &u, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emails[emailKey(email)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	u := s.users[id]
	return &u, nil
}

func (s *Store) ListApprovedUsers(ctx context.Context, userIDs []string) ([]domain.UserWithProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	match := idFilter(userIDs)
	out := make([]domain.UserWithProfile, 0)
	for id, u := range s.users {
		if !u.IsApproved || !match(id) {
			continue
		}
		uwp := domain.UserWithProfile{User: u}
		if p, ok := s.profiles[id]; ok {
			uwp.Profile = &p
		}
		out = append(out, uwp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (s *Store) UpdateUser(ctx context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.putUserLocked(user)
}

// putUserLocked replaces an existing user, keeping the e-mail index unique.
// checkUserLocked reports whether putUserLocked would accept user.
func (s *Store) checkUserLocked(user domain.User) error {
	if _, ok := s.users[user.UserID]; !ok {
		return apperrors.ErrNotFound
	}
	if owner, taken := s.emails[emailKey(user.Email)]; taken && owner != user.UserID {
		return fmt.Errorf("%w: email already in use", apperrors.ErrDuplicate)
	}
	return nil
}

func (s *Store) putUserLocked(user domain.User) error {
	if err := s.checkUserLocked(user); err != nil {
		return err
	}
	delete(s.emails, emailKey(s.users[user.UserID].Email))
	s.emails[emailKey(user.Email)] = user.UserID
	s.users[user.UserID] = user
	return nil
}

func (s *Store) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, expiry time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.RefreshTokenHash = &refreshTokenHash
	u.RefreshTokenExpiryTime = &expiry
	s.users[userID] = u
	return nil
}

func (s *Store) ClearRefreshToken(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.RefreshTokenHash = nil
	u.RefreshTokenExpiryTime = nil
	s.users[userID] = u
	return nil
}

func (s *Store) CreateRegistration(ctx context.Context, user domain.User, profile domain.Profile, request domain.AccessRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := emailKey(user.Email)
	if _, taken := s.emails[key]; taken {
		return fmt.Errorf("%w: email already registered", apperrors.ErrDuplicate)
	}
	if _, exists := s.users[user.UserID]; exists {
		return apperrors.ErrDuplicate
	}
	s.users[user.UserID] = user
	s.emails[key] = user.UserID
	s.profiles[profile.UserID] = profile
	s.requests[request.AccessRequestID] = request
	return nil
}

// CreateUser inserts a user without a registration. It seeds fixtures.
func (s *Store) CreateUser(ctx context.Context, user domain.User, profile *domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := emailKey(user.Email)
	if _, taken := s.emails[key]; taken {
		return fmt.Errorf("%w: email already registered", apperrors.ErrDuplicate)
	}
	s.users[user.UserID] = user
	s.emails[key] = user.UserID
	if profile != nil {
		s.profiles[profile.UserID] = *profile
	}
	return nil
}

func (s *Store) FindProfileByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &p, nil
}

func (s *Store) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p)
	}
	return out, nil
}

func (s *Store) ListProfilesByUnitIDs(ctx context.Context, unitIDs []string) ([]domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	match := idFilter(unitIDs)
	if unitIDs == nil {
		match = func(string) bool { return false }
	}
	out := make([]domain.Profile, 0)
	for _, p := range s.profiles {
		if p.UnitID != nil && match(*p.UnitID) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Store) SaveProfile(ctx context.Context, profile domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[profile.UserID]; !ok {
		return fmt.Errorf("%w: user %s", apperrors.ErrNotFound, profile.UserID)
	}
	if profile.UnitID != nil {
		if _, ok := s.units[*profile.UnitID]; !ok {
			return fmt.Errorf("%w: unit %s", apperrors.ErrValidation, *profile.UnitID)
		}
	}
	s.profiles[profile.UserID] = profile
	return nil
}
