package config

import (
	"os"
	"strconv"
	"time"
)

// Policy constants for the access lifecycle. These mirror the governance
// policy the catalog UI documents ("renewed for one year", "revoked after a
// 30 day notice period") and must not drift from it.
const (
	// RenewalPeriod is how far an approval or renewal extends access.
	RenewalPeriod = 365 * 24 * time.Hour

	// RevocationNoticePeriod is the lead time between scheduling a revocation
	// and the revocation taking effect.
	RevocationNoticePeriod = 30 * 24 * time.Hour
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	RedisURL      string
	PostgresDSN   string

	// WorkerInterval is how often the notification worker regenerates the
	// schedule and processes due notifications.
	WorkerInterval time.Duration

	// NotificationRetentionDays controls cleanup of old sent notifications.
	NotificationRetentionDays int
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("CATALOG_GATEWAY_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	interval := 1 * time.Minute
	if raw := os.Getenv("NOTIFICATION_WORKER_INTERVAL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			interval = parsed
		}
	}

	retention := 90
	if raw := os.Getenv("NOTIFICATION_RETENTION_DAYS"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			retention = parsed
		}
	}

	return Server{
		Addr:                      addr,
		JWTSigningKey:             jwtSigningKey,
		RedisURL:                  os.Getenv("REDIS_URL"),
		PostgresDSN:               os.Getenv("POSTGRES_DSN"),
		WorkerInterval:            interval,
		NotificationRetentionDays: retention,
	}
}
