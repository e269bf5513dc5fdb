package services

import (
	"context"

	"github.com/SscSPs/unit_availability_app/internal/core/domain"
)

// AlertSvcFacade lets managers broadcast messages.
type AlertSvcFacade interface {
	SendAlert(ctx context.Context, caller domain.Caller, alert domain.Alert) (*domain.AlertResult, error)
}
