package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/unit_availability_app/internal/apperrors"
	"github.com/SscSPs/unit_availability_app/internal/core/domain"
	portsrepo "github.com/SscSPs/unit_availability_app/internal/core/ports/repositories"
)

func (s *Store) FindAccessRequestByID(ctx context.Context, requestID string) (*domain.AccessRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.requests[requestID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &r, nil
}

func (s *Store) ListAccessRequests(ctx context.Context, query portsrepo.AccessRequestQuery) ([]domain.AccessRequestDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	match := idFilter(query.UserIDs)
	out := make([]domain.AccessRequestDetails, 0)
	for _, r := range s.requests {
		if query.Status != nil && r.Status != *query.Status {
			continue
		}
		profile, hasProfile := s.profiles[r.UserID]
		unassigned := !hasProfile || profile.UnitID == nil
		if !match(r.UserID) && !(query.IncludeUnassignedPending && unassigned && r.Status == domain.AccessRequestPending) {
			continue
		}
		user := s.users[r.UserID]
		d := domain.AccessRequestDetails{
			AccessRequest: r,
			Email:         user.Email,
			FirstName:     user.FirstName,
			LastName:      user.LastName,
			Phone:         user.Phone,
			Role:          domain.RoleUser,
		}
		if hasProfile {
			d.Role = profile.Role
			d.UnitID = cloneString(profile.UnitID)
			if profile.UnitID != nil {
				d.UnitName = s.units[*profile.UnitID].Name
			}
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})
	return out, nil
}

func (s *Store) DecideAccessRequest(ctx context.Context, decision domain.AccessRequestDecision) (*domain.AccessRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[decision.AccessRequestID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if err := r.CheckTransition(); err != nil {
		return nil, err
	}

	if decision.Status == domain.AccessRequestApproved {
		// Validate everything before the first write.
		if decision.User != nil {
			if err := s.checkUserLocked(*decision.User); err != nil {
				return nil, err
			}
		}
		if decision.Profile != nil && decision.Profile.UnitID != nil {
			if _, ok := s.units[*decision.Profile.UnitID]; !ok {
				return nil, fmt.Errorf("%w: unit %s", apperrors.ErrValidation, *decision.Profile.UnitID)
			}
		}
		if decision.User != nil {
			if err := s.putUserLocked(*decision.User); err != nil {
				return nil, err
			}
		}
		if decision.Profile != nil {
			s.profiles[decision.Profile.UserID] = *decision.Profile
		}
	}

	decidedBy := decision.DecidedBy
	decidedAt := decision.DecidedAt
	r.Status = decision.Status
	r.ApprovedBy = &decidedBy
	r.ApprovedAt = &decidedAt
	r.RejectionReason = decision.RejectionReason
	s.requests[r.AccessRequestID] = r
	return &r, nil
}
