package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/unit_availability_app/internal/analytics"
	"github.com/SscSPs/unit_availability_app/internal/core/domain"
	portsrepo "github.com/SscSPs/unit_availability_app/internal/core/ports/repositories"
	"github.com/SscSPs/unit_availability_app/internal/core/services"
	"github.com/SscSPs/unit_availability_app/internal/handlers"
	"github.com/SscSPs/unit_availability_app/internal/metrics"
	"github.com/SscSPs/unit_availability_app/internal/middleware"
	"github.com/SscSPs/unit_availability_app/internal/notify"
	"github.com/SscSPs/unit_availability_app/internal/ratelimit"
	"github.com/SscSPs/unit_availability_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/unit_availability_app/internal/repositories/memory"
	"github.com/SscSPs/unit_availability_app/pkg/config"
	"github.com/SscSPs/unit_availability_app/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/ulule/limiter/v3"
)

const (
	shutdownTimeout = 15 * time.Second
	otpSweepEvery   = time.Hour
)

// memoryLocations mirrors the seed migration for STORAGE_DRIVER=memory.
var memoryLocations = []domain.Location{
	{LocationID: "b6c7e1a2-0001-4a51-9a0e-000000000001", Name: "Jerusalem", NameHe: "ירושלים", LocationType: "city", Region: "Jerusalem"},
	{LocationID: "b6c7e1a2-0001-4a51-9a0e-000000000002", Name: "Tel Aviv-Yafo", NameHe: "תל אביב-יפו", LocationType: "city", Region: "Center"},
	{LocationID: "b6c7e1a2-0001-4a51-9a0e-000000000003", Name: "Haifa", NameHe: "חיפה", LocationType: "city", Region: "North"},
	{LocationID: "b6c7e1a2-0001-4a51-9a0e-000000000004", Name: "Beersheba", NameHe: "באר שבע", LocationType: "city", Region: "South"},
	{LocationID: "b6c7e1a2-0001-4a51-9a0e-000000000005", Name: "Home", NameHe: "בית", LocationType: "site"},
}

func newServeCmd(logger *slog.Logger) *cobra.Command {
	var skipMigrations bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, logger, cfg, !skipMigrations)
		},
	}
	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "Do not apply migrations on startup")
	return cmd
}

func serve(ctx context.Context, logger *slog.Logger, cfg *config.Config, migrateOnStart bool) error {
	repos, closeRepos, err := openRepositories(ctx, logger, cfg, migrateOnStart)
	if err != nil {
		return err
	}
	defer closeRepos()

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = ratelimit.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer func() { _ = redisClient.Close() }()
		logger.Info("Rate limit counters shared through Redis.")
	}

	otpLimiter, err := ratelimit.New(redisClient, limiter.Rate{Period: cfg.OTPRateWindow, Limit: int64(cfg.OTPRateLimit)}, "otp")
	if err != nil {
		return err
	}
	authRate, err := ratelimit.ParseRate(cfg.AuthIPRate)
	if err != nil {
		return err
	}
	authLimiter, err := ratelimit.New(redisClient, authRate, "auth-ip")
	if err != nil {
		return err
	}

	m := metrics.New()

	var notifier notify.Notifier = notify.NewLogNotifier(logger)
	if cfg.SMTPHost != "" {
		notifier = notify.NewSMTPNotifier(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
	} else {
		logger.Warn("SMTP_HOST not set. E-mails will be logged instead of sent.")
	}
	queue := notify.NewQueue(notifier,
		notify.WithWorkers(cfg.NotifyWorkers),
		notify.WithCapacity(cfg.NotifyQueueSize),
		notify.WithMaxAttempts(cfg.NotifyMaxAttempts),
		notify.WithLogger(logger),
		notify.WithMetrics(m),
	)
	// Workers outlive the signal context so Shutdown can drain the buffer.
	queue.Start(context.WithoutCancel(ctx))
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := queue.Shutdown(sctx); err != nil {
			logger.Error("Notification queue did not drain", slog.String("error", err.Error()))
		}
	}()

	tracker := analytics.NewTracker(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	defer tracker.Close()

	container := services.NewServiceContainer(cfg, repos, services.Dependencies{
		OTPLimiter: otpLimiter,
		Dispatcher: queue,
		Metrics:    m,
	})

	go sweepExpiredOTPs(ctx, logger, repos.OTPRepo)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(middleware.MetricsMiddleware(m))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if err := r.SetTrustedProxies(nil); err != nil {
		return fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	handlers.RegisterRoutes(r, cfg, container, handlers.RouterDeps{
		Metrics:     m,
		AuthLimiter: authLimiter,
		Tracker:     tracker,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed to run: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("Stopped")
	return nil
}

// openRepositories builds the configured persistence adapter.
func openRepositories(ctx context.Context, logger *slog.Logger, cfg *config.Config, migrateOnStart bool) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StorageDriver == config.StorageMemory {
		logger.Warn("Using in-memory storage. Data is lost on restart.")
		store := memory.NewStore()
		store.SeedLocations(memoryLocations...)
		return memory.NewRepositoryProvider(store), func() {}, nil
	}

	if migrateOnStart {
		if err := runMigrations(logger, cfg.DatabaseURL, cfg.MigrationsPath, false); err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
	}

	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}
	logger.Info("Database connection pool established.")
	return pgsql.NewRepositoryProvider(pool), func() { database.ClosePgxPool(pool) }, nil
}

// sweepExpiredOTPs periodically removes codes that can no longer be redeemed.
func sweepExpiredOTPs(ctx context.Context, logger *slog.Logger, otps portsrepo.OTPRepositoryFacade) {
	ticker := time.NewTicker(otpSweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := otps.DeleteExpiredOTPTokens(ctx, now)
			if err != nil {
				logger.Error("Failed to delete expired login codes", slog.String("error", err.Error()))
				continue
			}
			if n > 0 {
				logger.Info("Deleted expired login codes", slog.Int64("count", n))
			}
		}
	}
}
