package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/unit_availability_app/internal/apperrors"
	"github.com/SscSPs/unit_availability_app/internal/core/domain"
	portsrepo "github.com/SscSPs/unit_availability_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/unit_availability_app/internal/core/ports/services"
	"github.com/SscSPs/unit_availability_app/internal/metrics"
	"github.com/SscSPs/unit_availability_app/internal/notify"
)

// accessRequestService implements the access request workflow.
type accessRequestService struct {
	BaseService
	requests   portsrepo.AccessRequestRepositoryFacade
	users      portsrepo.UserReader
	profiles   portsrepo.ProfileRepositoryFacade
	units      portsrepo.UnitReader
	locations  portsrepo.LocationRepositoryFacade
	scope      portssvc.ScopeSvcFacade
	otp        portssvc.OTPSvcFacade
	dispatcher notify.Dispatcher
	metrics    *metrics.Metrics
	loginURL   string
}

// AccessRequestServiceOption configures the access request service.
type AccessRequestServiceOption func(*accessRequestService)

// WithAccessRequestMetrics records decisions.
func WithAccessRequestMetrics(m *metrics.Metrics) AccessRequestServiceOption {
	return func(s *accessRequestService) {
		s.metrics = m
	}
}

// WithLoginURL sets the link included in approval e-mails.
func WithLoginURL(url string) AccessRequestServiceOption {
	return func(s *accessRequestService) {
		s.loginURL = url
	}
}

// NewAccessRequestService creates the workflow service.
func NewAccessRequestService(
	repos portsrepo.RepositoryProvider,
	scope portssvc.ScopeSvcFacade,
	otp portssvc.OTPSvcFacade,
	dispatcher notify.Dispatcher,
	opts ...AccessRequestServiceOption,
) portssvc.AccessRequestSvcFacade {
	s := &accessRequestService{
		BaseService: newBaseService(),
		requests:    repos.AccessRequestRepo,
		users:       repos.UserRepo,
		profiles:    repos.ProfileRepo,
		units:       repos.UnitRepo,
		locations:   repos.LocationRepo,
		scope:       scope,
		otp:         otp,
		dispatcher:  dispatcher,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.AccessRequestSvcFacade = (*accessRequestService)(nil)

func (s *accessRequestService) ListAccessRequests(ctx context.Context, caller domain.Caller, filter portssvc.AccessRequestFilter) ([]domain.AccessRequestDetails, error) {
	if !caller.CanManage() {
		return nil, apperrors.ErrForbidden
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, *filter.Status)
	}

	visible, err := s.scope.VisibleUsers(ctx, caller)
	if err != nil {
		return nil, err
	}
	if filter.UnitID != nil {
		members, err := s.scope.SubtreeMembers(ctx, *filter.UnitID)
		if err != nil {
			return nil, err
		}
		visible = visible.Narrow(members)
	}

	query := portsrepo.AccessRequestQuery{Status: filter.Status, UserIDs: nilIfAll(visible)}
	if !visible.IsAll() {
		// Pending users without a unit would otherwise be invisible to every scoped manager.
		query.IncludeUnassignedPending = filter.UnitID == nil
	}
	return s.requests.ListAccessRequests(ctx, query)
}

// loadTarget reads a request with its owner and checks the caller may act on it.
func (s *accessRequestService) loadTarget(ctx context.Context, caller domain.Caller, requestID string) (*domain.AccessRequest, *domain.User, domain.Profile, error) {
	if !caller.CanManage() {
		return nil, nil, domain.Profile{}, apperrors.ErrForbidden
	}
	req, err := s.requests.FindAccessRequestByID(ctx, requestID)
	if err != nil {
		return nil, nil, domain.Profile{}, err
	}
	user, err := s.users.FindUserByID(ctx, req.UserID)
	if err != nil {
		return nil, nil, domain.Profile{}, fmt.Errorf("failed to load request owner: %w", err)
	}
	profile := domain.Profile{UserID: user.UserID, Role: domain.RoleUser, CreatedAt: s.clock()}
	existing, err := s.profiles.FindProfileByUserID(ctx, user.UserID)
	switch {
	case err == nil:
		profile = *existing
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, nil, domain.Profile{}, fmt.Errorf("failed to load request owner profile: %w", err)
	}

	visible, err := s.scope.VisibleUsers(ctx, caller)
	if err != nil {
		return nil, nil, domain.Profile{}, err
	}
	unassignedPending := profile.UnitID == nil && req.Status == domain.AccessRequestPending
	if !visible.Contains(req.UserID) && !unassignedPending {
		return nil, nil, domain.Profile{}, fmt.Errorf("%w: request is outside your scope", apperrors.ErrForbidden)
	}
	return req, user, profile, nil
}

func (s *accessRequestService) ApproveAccessRequest(ctx context.Context, caller domain.Caller, requestID string, overrides domain.ApprovalOverrides) (*portssvc.ApprovalResult, error) {
	req, user, profile, err := s.loadTarget(ctx, caller, requestID)
	if err != nil {
		return nil, err
	}
	if err := req.CheckTransition(); err != nil {
		return nil, err
	}
	if overrides.Email != nil {
		email := normalizeEmail(*overrides.Email)
		overrides.Email = &email
	}
	if err := s.validateOverrides(ctx, caller, user.UserID, overrides); err != nil {
		return nil, err
	}

	now := s.clock()
	newUser, newProfile := overrides.Apply(*user, profile)
	newUser.IsApproved = true
	newUser.UpdatedAt = now
	newProfile.UpdatedAt = now
	if !caller.CanGrant(newProfile.Role) {
		return nil, fmt.Errorf("%w: cannot approve a %s", apperrors.ErrForbidden, newProfile.Role)
	}

	decided, err := s.requests.DecideAccessRequest(ctx, domain.AccessRequestDecision{
		AccessRequestID: req.AccessRequestID,
		Status:          domain.AccessRequestApproved,
		DecidedBy:       caller.UserID,
		DecidedAt:       now,
		User:            &newUser,
		Profile:         &newProfile,
	})
	if err != nil {
		return nil, err
	}
	s.countDecision(domain.AccessRequestApproved)
	s.LogInfo(ctx, "Access request approved",
		slog.String("access_request_id", decided.AccessRequestID),
		slog.String("user_id", newUser.UserID),
		slog.String("approved_by", caller.UserID),
	)

	// The approval is committed; nothing below may turn it into a failure.
	result := &portssvc.ApprovalResult{Request: *decided}
	issue, err := s.otp.IssueCode(ctx, newUser)
	if err != nil {
		s.LogError(ctx, err, "Failed to issue OTP after approval", slog.String("user_id", newUser.UserID))
		result.Warnings = append(result.Warnings, fmt.Sprintf("login code could not be issued: %v", err))
	} else {
		result.OTP = issue
		if issue.Warning != "" {
			result.Warnings = append(result.Warnings, issue.Warning)
		}
	}

	msg := notify.BuildApprovalEmail(notify.ApprovalEmailData{Name: newUser.FullName(), LoginURL: s.loginURL})
	msg.To = newUser.Email
	msg.UserID = newUser.UserID
	if err := s.dispatcher.Submit(msg); err != nil {
		s.LogError(ctx, err, "Failed to queue approval email", slog.String("user_id", newUser.UserID))
		result.Warnings = append(result.Warnings, fmt.Sprintf("approval email could not be queued: %v", err))
	}
	return result, nil
}

func (s *accessRequestService) RejectAccessRequest(ctx context.Context, caller domain.Caller, requestID string, reason string) (*domain.AccessRequest, error) {
	req, _, _, err := s.loadTarget(ctx, caller, requestID)
	if err != nil {
		return nil, err
	}
	if err := req.CheckTransition(); err != nil {
		return nil, err
	}

	decided, err := s.requests.DecideAccessRequest(ctx, domain.AccessRequestDecision{
		AccessRequestID: req.AccessRequestID,
		Status:          domain.AccessRequestRejected,
		DecidedBy:       caller.UserID,
		DecidedAt:       s.clock(),
		RejectionReason: strings.TrimSpace(reason),
	})
	if err != nil {
		return nil, err
	}
	s.countDecision(domain.AccessRequestRejected)
	s.LogInfo(ctx, "Access request rejected",
		slog.String("access_request_id", decided.AccessRequestID),
		slog.String("rejected_by", caller.UserID),
	)
	return decided, nil
}

// validateOverrides checks references and prevents scoped managers from
// granting more than they hold.
func (s *accessRequestService) validateOverrides(ctx context.Context, caller domain.Caller, targetUserID string, o domain.ApprovalOverrides) error {
	if o.Role != nil {
		if !o.Role.IsValid() {
			return fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, *o.Role)
		}
		if !caller.CanGrant(*o.Role) {
			return fmt.Errorf("%w: cannot grant role %s", apperrors.ErrForbidden, *o.Role)
		}
	}
	if o.UnitID != nil && !o.ClearUnit {
		if err := checkUnitAssignable(ctx, s.units, s.scope, caller, *o.UnitID); err != nil {
			return err
		}
	}
	if o.CityID != nil {
		if _, err := s.locations.FindLocationByID(ctx, *o.CityID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: city not found", apperrors.ErrValidation)
			}
			return err
		}
	}
	if o.Email != nil {
		if *o.Email == "" {
			return fmt.Errorf("%w: email must not be empty", apperrors.ErrValidation)
		}
		other, err := s.users.FindUserByEmail(ctx, *o.Email)
		switch {
		case err == nil && other.UserID != targetUserID:
			return fmt.Errorf("%w: email already in use", apperrors.ErrDuplicate)
		case err != nil && !errors.Is(err, apperrors.ErrNotFound):
			return err
		}
	}
	return nil
}

func (s *accessRequestService) countDecision(status domain.AccessRequestStatus) {
	if s.metrics != nil {
		s.metrics.AccessDecisions.WithLabelValues(string(status)).Inc()
	}
}

// checkUnitAssignable verifies unitID exists and, for scoped callers, lies
// inside the caller's own unit scope.
func checkUnitAssignable(ctx context.Context, units portsrepo.UnitReader, scope portssvc.ScopeSvcFacade, caller domain.Caller, unitID string) error {
	if _, err := units.FindUnitByID(ctx, unitID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: unit not found", apperrors.ErrValidation)
		}
		return err
	}
	if caller.IsUnrestricted() {
		return nil
	}
	tree, err := scope.LoadTree(ctx)
	if err != nil {
		return err
	}
	unitScope := domain.ResolveUnitScope(caller, tree)
	for _, id := range unitScope.UnitIDs {
		if id == unitID {
			return nil
		}
	}
	return fmt.Errorf("%w: unit is outside your scope", apperrors.ErrForbidden)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
