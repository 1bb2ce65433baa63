package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"venuebooking/internal/domain"
	"venuebooking/internal/pkg/timeslot"
)

const (
	defaultHTTPAddr          = ":8080"
	defaultDatabaseURL       = "venues.db"
	defaultJWTSecret         = "change-me-jwt-secret"
	defaultJWTAccessTTL      = "24h"
	defaultCodeAttempts      = "5"
	defaultFreeHoursCacheTTL = "30s"
	defaultPublishTimeout    = "5s"
	defaultEmailQueue        = "reservation.email"
	defaultAppBaseURL        = "http://localhost:3000"
	defaultRetentionDays     = "90"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	DatabaseURL string

	JWTSecret    string
	JWTAccessTTL time.Duration

	Statuses *domain.StatusCatalog
	Roles    RoleMap
	Slots    timeslot.Catalog

	ReservationCodeAttempts int

	CacheEnabled      bool
	FreeHoursCacheTTL time.Duration

	RabbitMQURL    string
	EmailQueue     string
	PublishTimeout time.Duration
	AppBaseURL     string

	CORSAllowedOrigins []string

	NotificationRetentionDays int
}

// LoadDotEnv reads .env when present. A missing file is not an error.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("config: no .env file loaded: %v", err)
	}
}

func Load() (*Config, error) {
	cfg := &Config{}
	appEnv := strings.TrimSpace(getEnv("APP_ENV", getEnv("ENV", "dev")))
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.HTTPAddr = strings.TrimSpace(getEnv("HTTP_ADDR", defaultHTTPAddr))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))

	var err error
	cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}

	cfg.Statuses, err = LoadStatusCatalog()
	if err != nil {
		return nil, err
	}

	cfg.Roles, err = ParseRoleSynonyms(getEnv("ROLE_SYNONYMS", defaultRoleSynonyms))
	if err != nil {
		return nil, err
	}

	cfg.Slots, err = ParseSlotCatalog(getEnv("SLOT_STARTS", defaultSlotStarts), getEnv("SLOT_WIDTH", defaultSlotWidth))
	if err != nil {
		return nil, err
	}

	cfg.ReservationCodeAttempts, err = parseIntEnv("RESERVATION_CODE_ATTEMPTS", defaultCodeAttempts)
	if err != nil {
		return nil, err
	}

	cfg.CacheEnabled = parseBoolEnv("CACHE_ENABLED", "true")
	cfg.FreeHoursCacheTTL, err = parseDurationEnv("FREE_HOURS_CACHE_TTL", defaultFreeHoursCacheTTL)
	if err != nil {
		return nil, err
	}

	cfg.RabbitMQURL = strings.TrimSpace(getEnv("RABBITMQ_URL", getEnv("AMQP_URL", "")))
	cfg.EmailQueue = strings.TrimSpace(getEnv("EMAIL_QUEUE", defaultEmailQueue))
	cfg.PublishTimeout, err = parseDurationEnv("RABBITMQ_PUBLISH_TIMEOUT", defaultPublishTimeout)
	if err != nil {
		return nil, err
	}
	cfg.AppBaseURL = strings.TrimRight(strings.TrimSpace(getEnv("APP_BASE_URL", defaultAppBaseURL)), "/")

	cfg.CORSAllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", cfg.AppBaseURL))

	cfg.NotificationRetentionDays, err = parseIntEnv("NOTIFICATION_RETENTION_DAYS", defaultRetentionDays)
	if err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	log.Printf("config loaded: env=%s addr=%s initial_status=%s approved_status=%s slots=%d cache=%t mailer=%t",
		cfg.AppEnv, cfg.HTTPAddr, cfg.Statuses.Initial().Label, cfg.Statuses.Approved().Label,
		cfg.Slots.Len(), cfg.CacheEnabled, cfg.RabbitMQURL != "")

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.ReservationCodeAttempts < 1 {
		return fmt.Errorf("RESERVATION_CODE_ATTEMPTS must be >= 1")
	}
	if cfg.FreeHoursCacheTTL <= 0 {
		return fmt.Errorf("FREE_HOURS_CACHE_TTL must be > 0")
	}
	if cfg.NotificationRetentionDays < 1 {
		return fmt.Errorf("NOTIFICATION_RETENTION_DAYS must be >= 1")
	}
	if cfg.PublishTimeout <= 0 {
		return fmt.Errorf("RABBITMQ_PUBLISH_TIMEOUT must be > 0")
	}
	if cfg.RabbitMQURL != "" && cfg.EmailQueue == "" {
		return fmt.Errorf("EMAIL_QUEUE must not be empty when RABBITMQ_URL is set")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if !strings.HasPrefix(cfg.DatabaseURL, "postgres") && !strings.HasPrefix(cfg.DatabaseURL, "mysql://") {
			return fmt.Errorf("in prod/release DATABASE_URL must point at PostgreSQL or MySQL")
		}
	}

	return nil
}
