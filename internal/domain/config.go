package domain

import "time"

const (
	// ComparisonHost is the prefix of comparison links that count as a comparison.
	ComparisonHost = "https://slow.pics"

	// ReportHeader is written before the rendered table.
	ReportHeader = "## SeaDex entries with missing comparisons\n"

	DefaultOutput = "nocomps.md"
)

type Config struct {
	Output                 string        `yaml:"output" mapstructure:"output"`
	LogLevel               string        `yaml:"log_level" mapstructure:"log_level"`
	SeaDexURL              string        `yaml:"seadex_url" mapstructure:"seadex_url"`
	AniListURL             string        `yaml:"anilist_url" mapstructure:"anilist_url"`
	AniListRequestInterval time.Duration `yaml:"anilist_request_interval" mapstructure:"anilist_request_interval"`
	HTTPTimeout            time.Duration `yaml:"http_timeout" mapstructure:"http_timeout"`
	DiscordWebhookURL      string        `yaml:"discord_webhook_url,omitempty" mapstructure:"discord_webhook_url"`
}
