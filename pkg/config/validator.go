package config

import (
	"fmt"
	"strings"
	"unicode"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validator validates configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new configuration validator.
func NewValidator() *Validator {
	return &Validator{
		errors: make(ValidationErrors, 0),
	}
}

// Validate validates the entire configuration.
func (v *Validator) Validate(cfg *Config) error {
	v.errors = make(ValidationErrors, 0)

	v.validateLogger(&cfg.Logger)
	v.validateDiscord(&cfg.Discord)
	v.validateUI(&cfg.UI)
	v.validateSearch(&cfg.Search)
	v.validatePlayer(&cfg.Player)

	if len(v.errors) > 0 {
		return v.errors
	}

	return nil
}

func (v *Validator) validateLogger(cfg *LoggerConfig) {
	switch strings.ToLower(strings.TrimSpace(cfg.Level)) {
	case "", "debug", "info", "warn", "error":
	default:
		v.addError("logger.level", "level must be one of: debug, info, warn, error")
	}
	if cfg.MaxSize < 0 {
		v.addError("logger.max_size", "max_size must be non-negative")
	}
	if cfg.MaxBackups < 0 {
		v.addError("logger.max_backups", "max_backups must be non-negative")
	}
	if cfg.MaxAge < 0 {
		v.addError("logger.max_age", "max_age must be non-negative")
	}
}

func (v *Validator) validateDiscord(cfg *DiscordConfig) {
	if strings.TrimSpace(cfg.Token) == "" {
		v.addError("discord.token", "bot token is required")
	}
	if cfg.Prefix == "" {
		v.addError("discord.prefix", "prefix is required")
	} else if strings.IndexFunc(cfg.Prefix, unicode.IsSpace) >= 0 {
		v.addError("discord.prefix", "prefix must not contain whitespace")
	}
}

func (v *Validator) validateUI(cfg *UIConfig) {
	if cfg.PaginateTimeout < 1 {
		v.addError("ui.paginate_timeout", "paginate_timeout must be at least 1 second")
	}
	if cfg.PickTimeout < 1 {
		v.addError("ui.pick_timeout", "pick_timeout must be at least 1 second")
	}
	if cfg.ProgressBarSize < 1 || cfg.ProgressBarSize > 100 {
		v.addError("ui.progress_bar_size", "progress_bar_size must be between 1 and 100")
	}
	if cfg.PageSize < 1 || cfg.PageSize > 25 {
		v.addError("ui.page_size", "page_size must be between 1 and 25")
	}
	if cfg.Colors.Main < 0 || cfg.Colors.Main > 0xFFFFFF {
		v.addError("ui.colors.main", "color must be a 24-bit RGB value")
	}
	if cfg.Colors.Error < 0 || cfg.Colors.Error > 0xFFFFFF {
		v.addError("ui.colors.error", "color must be a 24-bit RGB value")
	}
}

func (v *Validator) validateSearch(cfg *SearchConfig) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "youtube":
		if strings.TrimSpace(cfg.YouTubeAPIKey) == "" {
			v.addError("search.youtube_api_key", "youtube_api_key is required for the youtube provider")
		}
	case "static":
		if strings.TrimSpace(cfg.CatalogPath) == "" {
			v.addError("search.catalog_path", "catalog_path is required for the static provider")
		}
	default:
		v.addError("search.provider", "provider must be one of: youtube, static")
	}
	if cfg.MaxResults < 1 || cfg.MaxResults > 25 {
		v.addError("search.max_results", "max_results must be between 1 and 25")
	}
}

func (v *Validator) validatePlayer(cfg *PlayerConfig) {
	if cfg.QueueLimit < 0 {
		v.addError("player.queue_limit", "queue_limit must be non-negative")
	}
}

// addError adds a validation error.
func (v *Validator) addError(field, message string) {
	v.errors = append(v.errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// ValidateConfig is a convenience function to validate a configuration.
func ValidateConfig(cfg *Config) error {
	validator := NewValidator()
	return validator.Validate(cfg)
}
