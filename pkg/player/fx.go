package player

import (
	"go.uber.org/fx"

	"tunebot/pkg/config"
)

// Module provides the guild player manager for fx.
var Module = fx.Module("player",
	fx.Provide(func(cfg *config.Config) *Manager {
		return NewManager(cfg.Player.QueueLimit)
	}),
)
