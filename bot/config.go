// Package bot wires the domain services, handlers and configuration of the
// referral/ads bot on top of the reusable core.
package bot

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/AsilbekWeb09/Reklama-bot/core/config"
	coredatabase "github.com/AsilbekWeb09/Reklama-bot/core/database"
)

// PaymentConfig holds the requisites shown to a user after ad-text capture.
type PaymentConfig struct {
	Owner string `yaml:"owner" envconfig:"PAYMENT_OWNER"`
	Card  string `yaml:"card" envconfig:"PAYMENT_CARD"`
}

// Config aggregates core, database and application settings.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Database coredatabase.Config `yaml:"database"`

	// Channel is the public channel username used for both the
	// subscription gate and ad publication, without the leading @.
	Channel string        `yaml:"channel" envconfig:"CHANNEL_USERNAME"`
	Payment PaymentConfig `yaml:"payment"`

	// UsersPerPage sizes the admin user listing pages.
	UsersPerPage int `yaml:"users_per_page" envconfig:"USERS_PER_PAGE"`
	// SubCacheTTLMinutes bounds how long a confirmed subscription is trusted.
	SubCacheTTLMinutes int `yaml:"sub_cache_ttl_minutes" envconfig:"SUB_CACHE_TTL_MINUTES"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Config
}

// LoadConfig reads the YAML file at path, overlays environment variables and
// validates both the core and application sections.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return nil, err
	}
	if err := normalizeApp(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func normalizeApp(cfg *Config) error {
	cfg.Channel = strings.TrimPrefix(strings.TrimSpace(cfg.Channel), "@")
	if cfg.Channel == "" {
		return fmt.Errorf("channel username is required")
	}
	if cfg.UsersPerPage <= 0 {
		cfg.UsersPerPage = 10
	}
	if cfg.SubCacheTTLMinutes <= 0 {
		cfg.SubCacheTTLMinutes = 30
	}
	return nil
}
