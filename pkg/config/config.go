package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const insecureJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Storage drivers.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	StorageDriver  string
	MigrationsPath string

	JWTSecret                  string
	JWTExpiryDuration          time.Duration
	JWTIssuer                  string
	RefreshTokenExpiryDuration time.Duration

	// One-time codes
	OTPExpiryMinutes int
	OTPRateLimit     int
	OTPRateWindow    time.Duration
	OTPDebugExpose   bool // echo issued codes in responses; never in production

	// AuthIPRate limits unauthenticated auth endpoints per client IP, in limiter notation.
	AuthIPRate string
	RedisURL   string

	// Outgoing mail. An empty host logs messages instead of sending them.
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	NotifyWorkers     int
	NotifyQueueSize   int
	NotifyMaxAttempts int

	CORSAllowedOrigins []string

	// External OAuth Providers
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`
	FrontendBaseURL    string `mapstructure:"FRONTEND_BASE_URL"`

	PosthogAPIKey   string
	PosthogEndpoint string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("STORAGE_DRIVER", StoragePostgres)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("JWT_SECRET", insecureJWTSecret)
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "unit-availability-app")
	viper.SetDefault("REFRESH_TOKEN_EXPIRY_DURATION", "168h")
	viper.SetDefault("OTP_EXPIRY_MINUTES", 10)
	viper.SetDefault("OTP_RATE_LIMIT", 5)
	viper.SetDefault("OTP_RATE_WINDOW", "1h")
	viper.SetDefault("OTP_DEBUG_EXPOSE", false)
	viper.SetDefault("AUTH_IP_RATE", "20-M")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USERNAME", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("SMTP_FROM", "no-reply@localhost")
	viper.SetDefault("NOTIFY_WORKERS", 2)
	viper.SetDefault("NOTIFY_QUEUE_SIZE", 256)
	viper.SetDefault("NOTIFY_MAX_ATTEMPTS", 3)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REDIRECT_URL", "")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	viper.SetDefault("POSTHOG_ENDPOINT", "https://eu.i.posthog.com")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:    viper.GetString("PGSQL_URL"),
		Port:           viper.GetString("PORT"),
		IsProduction:   viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:  viper.GetBool("ENABLE_DB_CHECK"),
		StorageDriver:  strings.ToLower(viper.GetString("STORAGE_DRIVER")),
		MigrationsPath: viper.GetString("MIGRATIONS_PATH"),

		JWTSecret:                  viper.GetString("JWT_SECRET"),
		JWTExpiryDuration:          durationOrDefault("JWT_EXPIRY_DURATION", time.Hour),
		JWTIssuer:                  viper.GetString("JWT_ISSUER"),
		RefreshTokenExpiryDuration: durationOrDefault("REFRESH_TOKEN_EXPIRY_DURATION", 7*24*time.Hour),

		OTPExpiryMinutes: positiveOrDefault("OTP_EXPIRY_MINUTES", 10),
		OTPRateLimit:     positiveOrDefault("OTP_RATE_LIMIT", 5),
		OTPRateWindow:    durationOrDefault("OTP_RATE_WINDOW", time.Hour),
		OTPDebugExpose:   viper.GetBool("OTP_DEBUG_EXPOSE"),

		AuthIPRate: viper.GetString("AUTH_IP_RATE"),
		RedisURL:   viper.GetString("REDIS_URL"),

		SMTPHost:     viper.GetString("SMTP_HOST"),
		SMTPPort:     positiveOrDefault("SMTP_PORT", 587),
		SMTPUsername: viper.GetString("SMTP_USERNAME"),
		SMTPPassword: viper.GetString("SMTP_PASSWORD"),
		SMTPFrom:     viper.GetString("SMTP_FROM"),

		NotifyWorkers:     positiveOrDefault("NOTIFY_WORKERS", 2),
		NotifyQueueSize:   positiveOrDefault("NOTIFY_QUEUE_SIZE", 256),
		NotifyMaxAttempts: positiveOrDefault("NOTIFY_MAX_ATTEMPTS", 3),

		CORSAllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),

		GoogleClientID:     viper.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: viper.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  viper.GetString("GOOGLE_REDIRECT_URL"),
		FrontendBaseURL:    viper.GetString("FRONTEND_BASE_URL"),

		PosthogAPIKey:   viper.GetString("POSTHOG_API_KEY"),
		PosthogEndpoint: viper.GetString("POSTHOG_ENDPOINT"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "unit-availability-app"
	}
	if cfg.StorageDriver == StoragePostgres && cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.GoogleClientID == "" {
		log.Println("Warning: GOOGLE_CLIENT_ID not set. Google sign-in will not function.")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects combinations that must never reach production.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StoragePostgres, StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if !c.IsProduction {
		if c.JWTSecret == insecureJWTSecret {
			log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
		}
		return nil
	}
	if c.JWTSecret == insecureJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if c.OTPDebugExpose {
		return fmt.Errorf("OTP_DEBUG_EXPOSE must be disabled in production")
	}
	if c.StorageDriver == StorageMemory {
		return fmt.Errorf("STORAGE_DRIVER=memory is not allowed in production")
	}
	return nil
}

// durationOrDefault parses key as a duration, falling back with a warning.
func durationOrDefault(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def)
		}
		return def
	}
	return d
}

func positiveOrDefault(key string, def int) int {
	n := viper.GetInt(key)
	if n <= 0 {
		log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %d.\n", key, viper.GetString(key), def)
		return def
	}
	return n
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
