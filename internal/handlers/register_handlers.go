package handlers

import (
	"github.com/SscSPs/unit_availability_app/cmd/docs"
	"github.com/SscSPs/unit_availability_app/internal/analytics"
	portssvc "github.com/SscSPs/unit_availability_app/internal/core/ports/services"
	"github.com/SscSPs/unit_availability_app/internal/metrics"
	"github.com/SscSPs/unit_availability_app/internal/middleware"
	"github.com/SscSPs/unit_availability_app/internal/ratelimit"
	"github.com/SscSPs/unit_availability_app/pkg/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RouterDeps carries the infrastructure the routes need besides services.
// Every field is optional.
type RouterDeps struct {
	Metrics     *metrics.Metrics
	AuthLimiter *ratelimit.Limiter
	Tracker     *analytics.Tracker
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	deps RouterDeps,
) {
	r.GET("/health", getHealth)
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	auth := newAuthHandler(services, cfg)
	limit := func(c *gin.Context) { c.Next() }
	if deps.AuthLimiter != nil {
		limit = middleware.RateLimit(deps.AuthLimiter)
	}

	public := r.Group("/api/v1")
	registerAuthRoutes(public, auth, limit)
	registerGoogleOAuthRoutes(public, newGoogleOAuthHandler(services.GoogleOAuth), limit)

	setupAPIV1Routes(r, cfg, services, auth, deps)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the authenticated /api/v1 group and delegates
// to specific entity route registrations.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	auth *authHandler,
	deps RouterDeps,
) {
	v1 := r.Group("/api/v1",
		middleware.AuthMiddleware(cfg.JWTSecret),
		middleware.LoadCaller(services.Scope),
		middleware.PosthogMiddleware(deps.Tracker),
	)

	registerSessionRoutes(v1, auth)
	registerUserRoutes(v1, services.User)
	registerUnitRoutes(v1, services.Unit)
	registerLocationRoutes(v1, services.Location)
	registerAccessRequestRoutes(v1, newAccessRequestHandler(services.AccessRequest, deps.Tracker, cfg.OTPDebugExpose))
	registerReportRoutes(v1, newReportHandler(services.Report, deps.Tracker))
	registerAlertRoutes(v1, services.Alert, deps.Tracker)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
