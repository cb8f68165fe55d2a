package config

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"tunebot/pkg/logger"
	"tunebot/pkg/ui"
)

// Module provides configuration for fx dependency injection.
var Module = fx.Module("config",
	fx.Provide(ProvideLoader),
	fx.Provide(ProvideConfig),
	fx.Provide(ProvideLoggerConfig),
	fx.Provide(ProvideTheme),
	fx.Provide(ProvideWatcher),
)

// ProvideLoader provides a configuration loader.
func ProvideLoader() *Loader {
	return NewLoader()
}

// ProvideConfig provides loaded and validated configuration.
func ProvideConfig(loader *Loader) (*Config, error) {
	cfg, err := loader.Load("")
	if err != nil {
		return nil, err
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ProvideLoggerConfig exposes the logger section to the logger module.
func ProvideLoggerConfig(cfg *Config) *logger.Config {
	return cfg.Logger.ToLoggerConfig()
}

// ProvideTheme exposes the UI theme.
func ProvideTheme(cfg *Config) ui.Theme {
	return cfg.UI.Theme()
}

// ProvideWatcher provides a configuration watcher with hot-reload.
func ProvideWatcher(loader *Loader, cfg *Config, lc fx.Lifecycle, log *logger.Logger) *Watcher {
	watcher := NewWatcher(loader, cfg, log)

	watcher.AddHandler(func(newCfg *Config) error {
		log.Info("Configuration reloaded",
			zap.Int("paginate_timeout", newCfg.UI.PaginateTimeout),
			zap.Int("pick_timeout", newCfg.UI.PickTimeout),
		)
		return nil
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting configuration watcher", zap.String("file", loader.GetConfigPath()))
			return watcher.Start()
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Stopping configuration watcher")
			watcher.Stop()
			return nil
		},
	})

	return watcher
}
