package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/varoOP/nocomps/internal/domain"
	"github.com/varoOP/nocomps/internal/logger"
)

// SetDefaults registers the default value of every key
func SetDefaults(v *viper.Viper) {
	v.SetDefault("output", domain.DefaultOutput)
	v.SetDefault("log_level", "info")
	v.SetDefault("seadex_url", "https://releases.moe")
	v.SetDefault("anilist_url", "https://graphql.anilist.co")
	v.SetDefault("anilist_request_interval", 2*time.Second)
	v.SetDefault("http_timeout", 30*time.Second)
}

// Load loads configuration from multiple sources:
// 1. Command line flags bound to v
// 2. Environment variables (NOCOMPS_*)
// 3. Config file (config.yaml, optional)
// 4. Defaults
func Load(v *viper.Viper) (*domain.Config, error) {
	cfg := &domain.Config{
		Output:                 strings.TrimSpace(v.GetString("output")),
		LogLevel:               v.GetString("log_level"),
		SeaDexURL:              strings.TrimRight(strings.TrimSpace(v.GetString("seadex_url")), "/"),
		AniListURL:             strings.TrimSpace(v.GetString("anilist_url")),
		AniListRequestInterval: v.GetDuration("anilist_request_interval"),
		HTTPTimeout:            v.GetDuration("http_timeout"),
		DiscordWebhookURL:      strings.TrimSpace(v.GetString("discord_webhook_url")),
	}

	if cfg.Output == "" {
		return nil, fmt.Errorf("output is required (set via --output or NOCOMPS_OUTPUT)")
	}

	if _, err := logger.ParseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}

	if err := validateURL("seadex_url", cfg.SeaDexURL); err != nil {
		return nil, err
	}
	if err := validateURL("anilist_url", cfg.AniListURL); err != nil {
		return nil, err
	}
	if cfg.DiscordWebhookURL != "" {
		if err := validateURL("discord_webhook_url", cfg.DiscordWebhookURL); err != nil {
			return nil, err
		}
	}

	if cfg.AniListRequestInterval < 0 {
		return nil, fmt.Errorf("invalid anilist_request_interval: %s (must not be negative)", cfg.AniListRequestInterval)
	}
	if cfg.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("invalid http_timeout: %s (must be positive)", cfg.HTTPTimeout)
	}

	return cfg, nil
}

func validateURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid %s: %q (must be an absolute http or https URL)", key, raw)
	}
	return nil
}
