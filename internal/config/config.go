package config

import (
	"fmt"
	"os"

	"adrboard/internal/models"

	"github.com/BurntSushi/toml"
)

// Config is the file-backed service configuration. Connection strings and
// secrets come from the environment; this file carries governance tuning.
type Config struct {
	Governance    GovernanceConfig    `toml:"governance"`
	Notifications NotificationsConfig `toml:"notifications"`
	Fixtures      FixturesConfig      `toml:"fixtures"`
}

// GovernanceConfig seeds thresholds for new tenants and tunes the
// maturity sweep.
type GovernanceConfig struct {
	DefaultAgeDaysThreshold int `toml:"default_age_days_threshold"`
	DefaultUserThreshold    int `toml:"default_user_threshold"`
	DefaultAdminThreshold   int `toml:"default_admin_threshold"`
	SweepIntervalMinutes    int `toml:"sweep_interval_minutes"`
}

type NotificationsConfig struct {
	WebhookURL string `toml:"webhook_url"`
}

// FixturesConfig gates the test-only seeding endpoints. Must stay off in
// production.
type FixturesConfig struct {
	Enabled bool `toml:"enabled"`
}

func defaults() *Config {
	return &Config{
		Governance: GovernanceConfig{
			DefaultAgeDaysThreshold: models.DefaultAgeDaysThreshold,
			DefaultUserThreshold:    models.DefaultUserThreshold,
			DefaultAdminThreshold:   models.DefaultAdminThreshold,
			SweepIntervalMinutes:    60,
		},
	}
}

// Load reads the TOML config at path, or returns defaults when path is
// empty.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file not found: %s", path)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	g := c.Governance
	if g.DefaultAgeDaysThreshold < 0 || g.DefaultAgeDaysThreshold > models.MaxAgeDaysThreshold {
		return fmt.Errorf("default_age_days_threshold must be between 0 and %d", models.MaxAgeDaysThreshold)
	}
	if g.DefaultUserThreshold < 0 {
		return fmt.Errorf("default_user_threshold must not be negative")
	}
	if g.DefaultAdminThreshold < 0 {
		return fmt.Errorf("default_admin_threshold must not be negative")
	}
	if g.SweepIntervalMinutes <= 0 {
		return fmt.Errorf("sweep_interval_minutes must be positive")
	}
	return nil
}
