package discord

import (
	"github.com/bwmarrin/discordgo"
	"go.uber.org/fx"

	"tunebot/pkg/commands"
	"tunebot/pkg/config"
	"tunebot/pkg/logger"
	"tunebot/pkg/ui"
	"tunebot/pkg/ui/collector"
	"tunebot/pkg/ui/paginator"
	"tunebot/pkg/ui/picker"
)

// Module provides the Discord session, UI transport and host channel.
var Module = fx.Module("discord",
	fx.Provide(func(cfg *config.Config) (*discordgo.Session, error) {
		return NewSession(cfg.Discord)
	}),
	fx.Provide(
		fx.Annotate(NewTransport, fx.As(new(ui.Transport))),
	),
	fx.Provide(func(s *discordgo.Session) commands.LatencyFunc {
		return s.HeartbeatLatency
	}),
	fx.Provide(ProvideChannel),
	fx.Invoke(func(*Channel) {}),
)

// ProvideChannel creates the channel and ties it to the app lifecycle.
func ProvideChannel(
	lc fx.Lifecycle,
	log *logger.Logger,
	cfg *config.Config,
	session *discordgo.Session,
	transport ui.Transport,
	registry *commands.Registry,
	router *collector.Router,
	pg *paginator.Paginator,
	pk *picker.Picker,
	theme ui.Theme,
) *Channel {
	ch := NewChannel(log, cfg.Discord, session, transport, registry, router, pg, pk, theme)

	lc.Append(fx.Hook{
		OnStart: ch.Start,
		OnStop:  ch.Stop,
	})

	return ch
}
