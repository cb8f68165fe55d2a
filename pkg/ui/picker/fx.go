package picker

import (
	"go.uber.org/fx"

	"tunebot/pkg/config"
	"tunebot/pkg/logger"
	"tunebot/pkg/ui"
	"tunebot/pkg/ui/collector"
)

// Module provides the picker for fx.
var Module = fx.Module("picker",
	fx.Provide(ProvidePicker),
)

// ProvidePicker creates the picker and keeps its timeout in step with
// config reloads.
func ProvidePicker(
	log *logger.Logger,
	transport ui.Transport,
	c *collector.Collector,
	theme ui.Theme,
	cfg *config.Config,
	watcher *config.Watcher,
) *Picker {
	p := New(log, transport, c, theme, cfg.UI.PickTimeoutDuration())
	watcher.AddHandler(func(newCfg *config.Config) error {
		p.SetTimeout(newCfg.UI.PickTimeoutDuration())
		return nil
	})
	return p
}
