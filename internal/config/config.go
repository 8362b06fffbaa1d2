// Package config loads runtime configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.
type Config struct {
	Port          string        // HTTP listen address, e.g. ":8080"
	JWTSecret     string        // secret used to verify bearer tokens
	WebhookURL    string        // Discord webhook URL; empty disables notifications
	SweepInterval time.Duration // how often the finalization sweep runs
	AdminIDs      []string      // user ids allowed to manage auctions
}

// Load reads configuration from a .env file (if present) and the
// environment. JWT_SECRET is required; everything else has a default.
func Load() (Config, error) {
	// Missing .env is fine, real deployments set the environment directly.
	_ = godotenv.Load()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return Config{}, fmt.Errorf("config: missing required env var JWT_SECRET")
	}

	sweepSeconds := 60
	if v := os.Getenv("SWEEP_INTERVAL_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("config: invalid SWEEP_INTERVAL_SECONDS: %q", v)
		}
		sweepSeconds = n
	}

	return Config{
		Port:          port(),
		JWTSecret:     secret,
		WebhookURL:    os.Getenv("DISCORD_WEBHOOK_URL"),
		SweepInterval: time.Duration(sweepSeconds) * time.Second,
		AdminIDs:      splitIDs(os.Getenv("ADMIN_IDS")),
	}, nil
}

// AdminPolicy returns the authorization predicate handed to the admin
// routes. Admin ids come from configuration, never from process-wide
// constants.
func (c Config) AdminPolicy() func(userID string) bool {
	admins := make(map[string]bool, len(c.AdminIDs))
	for _, id := range c.AdminIDs {
		admins[id] = true
	}
	return func(userID string) bool {
		return admins[userID]
	}
}

func port() string {
	if p := os.Getenv("PORT"); p != "" {
		return fmt.Sprintf(":%s", p)
	}
	return ":8080"
}

func splitIDs(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}
