package collector

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"tunebot/pkg/logger"
	"tunebot/pkg/ui"
)

// Module provides the session router and collector for fx.
var Module = fx.Module("collector",
	fx.Provide(NewRouter),
	fx.Provide(ProvideCollector),
)

// ProvideCollector creates the collector and closes it on shutdown.
func ProvideCollector(lc fx.Lifecycle, log *logger.Logger, router *Router, theme ui.Theme) *Collector {
	c := New(log, router, theme)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("Closing interactive sessions", zap.Int("live", router.Len()))
			c.Close()
			return nil
		},
	})

	return c
}
