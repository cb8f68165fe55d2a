package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"tunebot/pkg/channels/discord"
	"tunebot/pkg/commands"
	"tunebot/pkg/config"
	"tunebot/pkg/logger"
	"tunebot/pkg/player"
	"tunebot/pkg/search"
	"tunebot/pkg/ui/collector"
	"tunebot/pkg/ui/paginator"
	"tunebot/pkg/ui/picker"
	"tunebot/pkg/version"
)

const stopTimeout = 15 * time.Second

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Connect to Discord and serve commands",
	Long: `Connect to Discord and serve prefix commands until interrupted.

Examples:
  # Use ~/.tunebot/config.json
  tunebot run

  # Use a specific config file
  tunebot run -c ./config.yaml`,
	RunE: runBot,
}

func newApp() *fx.App {
	return fx.New(
		// Core modules
		config.Module,
		logger.Module,

		// Interactive UI
		collector.Module,
		paginator.Module,
		picker.Module,

		// Music
		player.Module,
		search.Module,
		commands.Module,

		// Host
		discord.Module,

		fx.Invoke(func(lc fx.Lifecycle, log *logger.Logger, cfg *config.Config, registry *commands.Registry) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					log.Info("tunebot started",
						zap.String("version", version.GetVersion()),
						zap.String("prefix", cfg.Discord.Prefix),
						zap.String("search_provider", cfg.Search.Provider),
						zap.Int("commands", len(registry.List())))
					log.Info("Press Ctrl+C to stop")
					return nil
				},
			})
		}),
		fx.NopLogger,
	)
}

func runBot(cmd *cobra.Command, args []string) error {
	app := newApp()
	if err := app.Err(); err != nil {
		return fmt.Errorf("building application: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down tunebot...")
		cancel()
	}()

	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("starting tunebot: %w", err)
	}

	<-ctx.Done()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), stopTimeout)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		return fmt.Errorf("stopping tunebot: %w", err)
	}
	return nil
}
