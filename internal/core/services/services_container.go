package services

import (
	"time"

	portsrepo "github.com/SscSPs/unit_availability_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/unit_availability_app/internal/core/ports/services"
	"github.com/SscSPs/unit_availability_app/internal/metrics"
	"github.com/SscSPs/unit_availability_app/internal/notify"
	"github.com/SscSPs/unit_availability_app/internal/ratelimit"
	"github.com/SscSPs/unit_availability_app/pkg/config"
	"github.com/ulule/limiter/v3"
)

// Dependencies are the infrastructure pieces services need besides repositories.
// A nil Dispatcher drops notifications and a nil OTPLimiter counts in process.
type Dependencies struct {
	OTPLimiter RateLimiter
	Dispatcher notify.Dispatcher
	Metrics    *metrics.Metrics
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, deps Dependencies) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}
	if deps.Dispatcher == nil {
		deps.Dispatcher = notify.Discard{}
	}
	if deps.OTPLimiter == nil {
		rate := limiter.Rate{Period: cfg.OTPRateWindow, Limit: int64(cfg.OTPRateLimit)}
		if rate.Period <= 0 {
			rate.Period = time.Hour
		}
		if rate.Limit <= 0 {
			rate.Limit = 5
		}
		deps.OTPLimiter = ratelimit.NewMemory(rate, "otp")
	}

	// Scope resolution is shared by every service that filters by visibility.
	container.Scope = NewScopeService(repos.UserRepo, repos.ProfileRepo, repos.UnitRepo)

	container.Token = NewTokenService(cfg, repos.UserRepo)
	container.OTP = NewOTPService(
		repos.UserRepo,
		repos.ProfileRepo,
		repos.OTPRepo,
		container.Token,
		deps.OTPLimiter,
		deps.Dispatcher,
		WithOTPExpiry(time.Duration(cfg.OTPExpiryMinutes)*time.Minute),
		WithOTPMetrics(deps.Metrics),
	)

	container.User = NewUserService(repos, container.Scope)
	container.Unit = NewUnitService(repos.UnitRepo, repos.UserRepo, container.Scope)
	container.Location = NewLocationService(repos.LocationRepo)
	container.AccessRequest = NewAccessRequestService(
		repos,
		container.Scope,
		container.OTP,
		deps.Dispatcher,
		WithAccessRequestMetrics(deps.Metrics),
		WithLoginURL(cfg.FrontendBaseURL),
	)
	container.Report = NewReportService(repos.ReportRepo, repos.LocationRepo, container.Scope)
	container.Alert = NewAlertService(repos.UserRepo, repos.UnitRepo, container.Scope, deps.Dispatcher)
	container.GoogleOAuth = NewGoogleOAuthService(cfg, repos.UserRepo, repos.ProfileRepo, container.Token)

	return container
}
