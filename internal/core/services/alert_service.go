package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/unit_availability_app/internal/apperrors"
	"github.com/SscSPs/unit_availability_app/internal/core/domain"
	portsrepo "github.com/SscSPs/unit_availability_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/unit_availability_app/internal/core/ports/services"
	"github.com/SscSPs/unit_availability_app/internal/notify"
)

// alertService fans a manager message out to the notification queue.
type alertService struct {
	BaseService
	users      portsrepo.UserReader
	units      portsrepo.UnitReader
	scope      portssvc.ScopeSvcFacade
	dispatcher notify.Dispatcher
}

// NewAlertService creates the alert service.
func NewAlertService(users portsrepo.UserReader, units portsrepo.UnitReader, scope portssvc.ScopeSvcFacade, dispatcher notify.Dispatcher) portssvc.AlertSvcFacade {
	return &alertService{
		BaseService: newBaseService(),
		users:       users,
		units:       units,
		scope:       scope,
		dispatcher:  dispatcher,
	}
}

var _ portssvc.AlertSvcFacade = (*alertService)(nil)

func (s *alertService) SendAlert(ctx context.Context, caller domain.Caller, alert domain.Alert) (*domain.AlertResult, error) {
	if !caller.CanManage() {
		return nil, apperrors.ErrForbidden
	}
	alert.Subject = strings.TrimSpace(alert.Subject)
	alert.Message = strings.TrimSpace(alert.Message)
	if alert.Subject == "" || alert.Message == "" {
		return nil, fmt.Errorf("%w: subject and message are required", apperrors.ErrValidation)
	}
	if strings.ContainsAny(alert.Subject, "\r\n") {
		return nil, fmt.Errorf("%w: subject must be a single line", apperrors.ErrValidation)
	}
	if alert.Audience == "" {
		alert.Audience = domain.AlertToAll
	}
	if !alert.Audience.IsValid() {
		return nil, fmt.Errorf("%w: unknown audience %q", apperrors.ErrValidation, alert.Audience)
	}

	visible, err := s.scope.VisibleUsers(ctx, caller)
	if err != nil {
		return nil, err
	}
	if alert.UnitID != nil {
		if err := checkUnitAssignable(ctx, s.units, s.scope, caller, *alert.UnitID); err != nil {
			return nil, err
		}
		members, err := s.scope.SubtreeMembers(ctx, *alert.UnitID)
		if err != nil {
			return nil, err
		}
		visible = visible.Narrow(members)
	} else if !caller.IsUnrestricted() {
		return nil, fmt.Errorf("%w: a unit is required", apperrors.ErrValidation)
	}

	recipients, err := s.users.ListApprovedUsers(ctx, nilIfAll(visible))
	if err != nil {
		return nil, err
	}

	result := &domain.AlertResult{}
	for _, r := range recipients {
		if r.UserID == caller.UserID || !r.IsActive || !alert.Audience.Includes(r.Role()) {
			continue
		}
		result.Recipients++
		msg := notify.BuildAlertEmail(notify.AlertEmailData{
			SenderName: caller.Email,
			Subject:    alert.Subject,
			Message:    alert.Message,
		})
		msg.To = r.Email
		msg.UserID = r.UserID
		if err := s.dispatcher.Submit(msg); err != nil {
			result.Failed++
			s.LogWarn(ctx, "Failed to queue alert email", slog.String("user_id", r.UserID), slog.String("error", err.Error()))
			continue
		}
		result.Queued++
	}

	s.LogInfo(ctx, "Alert sent",
		slog.String("sender_id", caller.UserID),
		slog.String("audience", string(alert.Audience)),
		slog.Int("recipients", result.Recipients),
		slog.Int("queued", result.Queued),
	)
	return result, nil
}
