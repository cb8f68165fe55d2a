package config

import (
	"testing"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Discord.Token = "token"
	cfg.Search.YouTubeAPIKey = "key"
	return cfg
}

func hasField(t *testing.T, err error, field string) {
	t.Helper()
	validationErrors, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T (%v)", err, err)
	}
	for _, validationErr := range validationErrors {
		if validationErr.Field == field {
			return
		}
	}
	t.Fatalf("expected %s validation error, got %v", field, err)
}

func TestValidateConfig_AcceptsDefaultsWithCredentials(t *testing.T) {
	if err := ValidateConfig(validConfig()); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateConfig_RequiresToken(t *testing.T) {
	cfg := validConfig()
	cfg.Discord.Token = "  "
	hasField(t, ValidateConfig(cfg), "discord.token")
}

func TestValidateConfig_RejectsPrefixWithSpace(t *testing.T) {
	cfg := validConfig()
	cfg.Discord.Prefix = "tb "
	hasField(t, ValidateConfig(cfg), "discord.prefix")
}

func TestValidateConfig_RejectsInvalidUI(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(*UIConfig)
	}{
		{"ui.paginate_timeout", func(c *UIConfig) { c.PaginateTimeout = 0 }},
		{"ui.pick_timeout", func(c *UIConfig) { c.PickTimeout = -1 }},
		{"ui.progress_bar_size", func(c *UIConfig) { c.ProgressBarSize = 0 }},
		{"ui.page_size", func(c *UIConfig) { c.PageSize = 26 }},
		{"ui.colors.main", func(c *UIConfig) { c.Colors.Main = 0x1000000 }},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg.UI)
			hasField(t, ValidateConfig(cfg), tt.field)
		})
	}
}

func TestValidateConfig_SearchProvider(t *testing.T) {
	cfg := validConfig()
	cfg.Search.Provider = "soundcloud"
	hasField(t, ValidateConfig(cfg), "search.provider")

	cfg = validConfig()
	cfg.Search.YouTubeAPIKey = ""
	hasField(t, ValidateConfig(cfg), "search.youtube_api_key")

	cfg = validConfig()
	cfg.Search.Provider = "static"
	hasField(t, ValidateConfig(cfg), "search.catalog_path")

	cfg.Search.CatalogPath = "/tmp/catalog.yaml"
	if err := ValidateConfig(cfg); err != nil {
		t.Fatalf("expected static provider with catalog to be valid, got %v", err)
	}
}

func TestValidateConfig_CollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Discord.Token = ""
	cfg.Player.QueueLimit = -1
	cfg.Logger.Level = "verbose"

	err := ValidateConfig(cfg)
	validationErrors, ok := err.(ValidationErrors)
	if !ok || len(validationErrors) != 3 {
		t.Fatalf("expected 3 validation errors, got %v", err)
	}
}
