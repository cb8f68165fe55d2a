package commands

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"tunebot/pkg/config"
	"tunebot/pkg/logger"
	"tunebot/pkg/player"
	"tunebot/pkg/search"
	"tunebot/pkg/ui"
)

// Module provides the commands system.
var Module = fx.Module("commands",
	fx.Provide(ProvideRegistry),
	fx.Invoke(registerCommands),
)

// ProvideRegistry creates the registry with the configured prefix.
func ProvideRegistry(cfg *config.Config) *Registry {
	return NewRegistry(cfg.Discord.Prefix)
}

// Params are the fx inputs for command registration.
type Params struct {
	fx.In

	Registry *Registry
	Log      *logger.Logger
	Config   *config.Config
	Theme    ui.Theme
	Players  *player.Manager
	Searcher search.Searcher
	Gateway  LatencyFunc `optional:"true"`
}

// registerCommands registers every command on startup.
func registerCommands(p Params) error {
	deps := Dependencies{
		Log:         p.Log.Named("commands"),
		Theme:       p.Theme,
		Players:     p.Players,
		Searcher:    p.Searcher,
		PageSize:    p.Config.UI.PageSize,
		BarSize:     p.Config.UI.ProgressBarSize,
		SearchLimit: p.Config.Search.MaxResults,
		Gateway:     p.Gateway,
	}

	if err := RegisterBuiltinCommands(p.Registry, deps); err != nil {
		p.Log.Error("Failed to register builtin commands", zap.Error(err))
		return err
	}
	if err := RegisterMusicCommands(p.Registry, deps); err != nil {
		p.Log.Error("Failed to register music commands", zap.Error(err))
		return err
	}

	p.Log.Info("Registered commands",
		zap.Int("count", len(p.Registry.List())),
		zap.String("prefix", p.Registry.Prefix()))
	return nil
}
