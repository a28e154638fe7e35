package config

import (
	"os"
	"time"
)

// Server captures process-level configuration for the activity service.
type Server struct {
	Addr            string
	JWTSigningKey   string
	SessionTTL      time.Duration
	ChallengeTTL    time.Duration
	CleanupInterval time.Duration
	SeedDemoData    bool
}

const (
	defaultAddr            = ":8080"
	defaultSessionTTL      = time.Hour
	defaultChallengeTTL    = 5 * time.Minute
	defaultCleanupInterval = time.Minute
)

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:            defaultAddr,
		SessionTTL:      defaultSessionTTL,
		ChallengeTTL:    defaultChallengeTTL,
		CleanupInterval: defaultCleanupInterval,
		SeedDemoData:    os.Getenv("CAMPUSHUB_NO_SEED") != "true",
	}

	if addr := os.Getenv("CAMPUSHUB_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if ttl := durationEnv("CAMPUSHUB_SESSION_TTL"); ttl > 0 {
		cfg.SessionTTL = ttl
	}
	if ttl := durationEnv("CAMPUSHUB_CHALLENGE_TTL"); ttl > 0 {
		cfg.ChallengeTTL = ttl
	}
	if interval := durationEnv("CAMPUSHUB_CLEANUP_INTERVAL"); interval > 0 {
		cfg.CleanupInterval = interval
	}

	cfg.JWTSigningKey = os.Getenv("CAMPUSHUB_JWT_SIGNING_KEY")
	if cfg.JWTSigningKey == "" {
		// Use a default for development - should be overridden in production.
		cfg.JWTSigningKey = "dev-secret-key-change-in-production"
	}

	return cfg
}

func durationEnv(key string) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0
	}
	return d
}
