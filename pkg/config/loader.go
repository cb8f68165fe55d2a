package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader handles configuration loading with Viper.
type Loader struct {
	viper *viper.Viper
}

// ConfigPathEnv names an explicit config file, overriding the search paths.
const ConfigPathEnv = "TUNEBOT_CONFIG_FILE"

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("json")

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".tunebot"))
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("TUNEBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about.
	registerDefaults(v, DefaultConfig())

	return &Loader{viper: v}
}

func registerDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("logger.level", cfg.Logger.Level)
	v.SetDefault("logger.output_path", cfg.Logger.OutputPath)
	v.SetDefault("logger.max_size", cfg.Logger.MaxSize)
	v.SetDefault("logger.max_backups", cfg.Logger.MaxBackups)
	v.SetDefault("logger.max_age", cfg.Logger.MaxAge)
	v.SetDefault("logger.compress", cfg.Logger.Compress)
	v.SetDefault("logger.development", cfg.Logger.Development)

	v.SetDefault("discord.token", cfg.Discord.Token)
	v.SetDefault("discord.prefix", cfg.Discord.Prefix)
	v.SetDefault("discord.allow_from", cfg.Discord.AllowFrom)
	v.SetDefault("discord.guild_id", cfg.Discord.GuildID)

	v.SetDefault("ui.paginate_timeout", cfg.UI.PaginateTimeout)
	v.SetDefault("ui.pick_timeout", cfg.UI.PickTimeout)
	v.SetDefault("ui.progress_bar_size", cfg.UI.ProgressBarSize)
	v.SetDefault("ui.page_size", cfg.UI.PageSize)

	v.SetDefault("search.provider", cfg.Search.Provider)
	v.SetDefault("search.youtube_api_key", cfg.Search.YouTubeAPIKey)
	v.SetDefault("search.max_results", cfg.Search.MaxResults)
	v.SetDefault("search.catalog_path", cfg.Search.CatalogPath)

	v.SetDefault("player.queue_limit", cfg.Player.QueueLimit)
}

// Load loads the configuration from file and environment variables.
// If configPath is empty, it will search default paths.
// If no file exists, it writes the defaults to the resolved path.
func (l *Loader) Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if strings.TrimSpace(configPath) == "" {
		configPath = strings.TrimSpace(os.Getenv(ConfigPathEnv))
	}
	explicitPath := strings.TrimSpace(configPath) != ""
	resolvedPath, err := resolveConfigPath(configPath)
	if err != nil {
		return nil, err
	}
	if explicitPath {
		l.viper.SetConfigFile(resolvedPath)
		l.viper.SetConfigType(configFormat(resolvedPath))
	}

	if err := l.viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := SaveToFile(cfg, resolvedPath); err != nil {
			return nil, fmt.Errorf("creating config file: %w", err)
		}
	}

	// Environment overrides apply even when the file was just created.
	if err := l.viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.Logger.OutputPath = expandPath(cfg.Logger.OutputPath)
	cfg.Search.CatalogPath = expandPath(cfg.Search.CatalogPath)

	return cfg, nil
}

// LoadFromFile loads configuration from a specific file.
func (l *Loader) LoadFromFile(path string) (*Config, error) {
	return l.Load(path)
}

// Save saves the configuration to a file.
func (l *Loader) Save(path string, cfg *Config) error {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType(configFormat(path))

	v.Set("logger", cfg.Logger)
	v.Set("discord", cfg.Discord)
	v.Set("ui", cfg.UI)
	v.Set("search", cfg.Search)
	v.Set("player", cfg.Player)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// SaveToFile is a convenience function to save config without creating a Loader.
func SaveToFile(cfg *Config, path string) error {
	return NewLoader().Save(path, cfg)
}

// GetConfigHome returns the default config directory.
func GetConfigHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".tunebot"), nil
}

// GetConfigPath returns the path of the loaded config file.
func (l *Loader) GetConfigPath() string {
	return l.viper.ConfigFileUsed()
}

// Get gets a configuration value.
func (l *Loader) Get(key string) interface{} {
	return l.viper.Get(key)
}

// GetString gets a string configuration value.
func (l *Loader) GetString(key string) string {
	return l.viper.GetString(key)
}

// IsSet checks if a key is set in the configuration.
func (l *Loader) IsSet(key string) bool {
	return l.viper.IsSet(key)
}

// configFormat maps a file extension to a viper config type. Unknown
// extensions are read as JSON.
func configFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	default:
		return "json"
	}
}

func resolveConfigPath(configPath string) (string, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		home, err := GetConfigHome()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, "config.json")
	}
	abs, err := filepath.Abs(expandPath(path))
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return abs, nil
}
