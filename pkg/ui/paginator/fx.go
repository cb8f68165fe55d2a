package paginator

import (
	"go.uber.org/fx"

	"tunebot/pkg/config"
	"tunebot/pkg/logger"
	"tunebot/pkg/ui"
	"tunebot/pkg/ui/collector"
)

// Module provides the paginator for fx.
var Module = fx.Module("paginator",
	fx.Provide(ProvidePaginator),
)

// ProvidePaginator creates the paginator and keeps its timeout in step with
// config reloads.
func ProvidePaginator(
	log *logger.Logger,
	transport ui.Transport,
	c *collector.Collector,
	theme ui.Theme,
	cfg *config.Config,
	watcher *config.Watcher,
) *Paginator {
	p := New(log, transport, c, theme, cfg.UI.PaginateTimeoutDuration())
	watcher.AddHandler(func(newCfg *config.Config) error {
		p.SetTimeout(newCfg.UI.PaginateTimeoutDuration())
		return nil
	})
	return p
}
