// Package config provides configuration management for tunebot.
// It uses Viper for flexible configuration loading with support for:
// - JSON and YAML files
// - Environment variables (TUNEBOT_ prefix)
// - Hot-reload
// - Default values
package config

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"tunebot/pkg/ui"
)

// Config represents the complete tunebot configuration.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" json:"logger" yaml:"logger"`
	Discord DiscordConfig `mapstructure:"discord" json:"discord" yaml:"discord"`
	UI      UIConfig      `mapstructure:"ui" json:"ui" yaml:"ui"`
	Search  SearchConfig  `mapstructure:"search" json:"search" yaml:"search"`
	Player  PlayerConfig  `mapstructure:"player" json:"player" yaml:"player"`
	mu      sync.RWMutex
}

// LoggerConfig for the process logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" json:"level" yaml:"level"`
	OutputPath  string `mapstructure:"output_path" json:"output_path" yaml:"output_path"`
	MaxSize     int    `mapstructure:"max_size" json:"max_size" yaml:"max_size"` // megabytes
	MaxBackups  int    `mapstructure:"max_backups" json:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" json:"max_age" yaml:"max_age"` // days
	Compress    bool   `mapstructure:"compress" json:"compress" yaml:"compress"`
	Development bool   `mapstructure:"development" json:"development" yaml:"development"`
}

// DiscordConfig for the Discord host.
type DiscordConfig struct {
	Token     string   `mapstructure:"token" json:"token" yaml:"token"`
	Prefix    string   `mapstructure:"prefix" json:"prefix" yaml:"prefix"`
	AllowFrom []string `mapstructure:"allow_from" json:"allow_from" yaml:"allow_from"`
	GuildID   string   `mapstructure:"guild_id" json:"guild_id" yaml:"guild_id"`
}

// UIConfig controls interactive messages.
type UIConfig struct {
	PaginateTimeout int          `mapstructure:"paginate_timeout" json:"paginate_timeout" yaml:"paginate_timeout"` // seconds
	PickTimeout     int          `mapstructure:"pick_timeout" json:"pick_timeout" yaml:"pick_timeout"`             // seconds
	ProgressBarSize int          `mapstructure:"progress_bar_size" json:"progress_bar_size" yaml:"progress_bar_size"`
	PageSize        int          `mapstructure:"page_size" json:"page_size" yaml:"page_size"`
	Colors          ui.Colors    `mapstructure:"colors" json:"colors" yaml:"colors"`
	Emoji           ui.PageEmoji `mapstructure:"emoji" json:"emoji" yaml:"emoji"`
	Done            string       `mapstructure:"done" json:"done" yaml:"done"`
	NotOwner        string       `mapstructure:"not_owner" json:"not_owner" yaml:"not_owner"`
	Expired         string       `mapstructure:"expired" json:"expired" yaml:"expired"`
}

// SearchConfig selects the track search backend.
type SearchConfig struct {
	Provider      string `mapstructure:"provider" json:"provider" yaml:"provider"` // youtube or static
	YouTubeAPIKey string `mapstructure:"youtube_api_key" json:"youtube_api_key" yaml:"youtube_api_key"`
	MaxResults    int    `mapstructure:"max_results" json:"max_results" yaml:"max_results"`
	CatalogPath   string `mapstructure:"catalog_path" json:"catalog_path" yaml:"catalog_path"`
}

// PlayerConfig for guild queues.
type PlayerConfig struct {
	QueueLimit int `mapstructure:"queue_limit" json:"queue_limit" yaml:"queue_limit"` // 0 means unlimited
}

// DefaultConfig returns a new Config with default values.
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	theme := ui.DefaultTheme()

	return &Config{
		Logger: LoggerConfig{
			Level:      "info",
			OutputPath: filepath.Join(homeDir, ".tunebot", "logs", "tunebot.log"),
			MaxSize:    50,
			MaxBackups: 3,
			MaxAge:     7,
			Compress:   true,
		},
		Discord: DiscordConfig{
			Prefix:    "!",
			AllowFrom: []string{},
		},
		UI: UIConfig{
			PaginateTimeout: 60,
			PickTimeout:     60,
			ProgressBarSize: 20,
			PageSize:        10,
			Colors:          theme.Colors,
			Emoji:           theme.Emoji,
			Done:            theme.Done,
			NotOwner:        theme.NotOwner,
			Expired:         theme.Expired,
		},
		Search: SearchConfig{
			Provider:   "youtube",
			MaxResults: 10,
		},
		Player: PlayerConfig{
			QueueLimit: 25,
		},
	}
}

// Theme builds the UI theme, falling back to stock glyphs and notices for
// anything left blank.
func (c *UIConfig) Theme() ui.Theme {
	theme := ui.DefaultTheme()
	if c.Colors.Main != 0 {
		theme.Colors.Main = c.Colors.Main
	}
	if c.Colors.Error != 0 {
		theme.Colors.Error = c.Colors.Error
	}
	pick := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	pick(&theme.Emoji.First, c.Emoji.First)
	pick(&theme.Emoji.Back, c.Emoji.Back)
	pick(&theme.Emoji.Next, c.Emoji.Next)
	pick(&theme.Emoji.Last, c.Emoji.Last)
	pick(&theme.Emoji.Cancel, c.Emoji.Cancel)
	pick(&theme.Done, c.Done)
	pick(&theme.NotOwner, c.NotOwner)
	pick(&theme.Expired, c.Expired)
	return theme
}

// PaginateTimeoutDuration returns the paginator timeout.
func (c *UIConfig) PaginateTimeoutDuration() time.Duration {
	return time.Duration(c.PaginateTimeout) * time.Second
}

// PickTimeoutDuration returns the picker timeout.
func (c *UIConfig) PickTimeoutDuration() time.Duration {
	return time.Duration(c.PickTimeout) * time.Second
}

// IsAllowed reports whether a Discord user may run commands. An empty list
// allows everyone.
func (c *DiscordConfig) IsAllowed(userID string) bool {
	if len(c.AllowFrom) == 0 {
		return true
	}
	for _, id := range c.AllowFrom {
		if id == userID {
			return true
		}
	}
	return false
}

func expandPath(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		home, _ := os.UserHomeDir()
		if len(path) > 1 && path[1] == '/' {
			return home + path[1:]
		}
		return home
	}
	return path
}
