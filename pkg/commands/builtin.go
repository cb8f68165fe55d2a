package commands

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"tunebot/pkg/format"
	"tunebot/pkg/ui"
	"tunebot/pkg/version"
)

var processStartTime = time.Now()

// Latency thresholds above which ping marks a value as degraded.
const (
	botLatencyLimit     = 600 * time.Millisecond
	gatewayLatencyLimit = 500 * time.Millisecond
)

// RegisterBuiltinCommands registers the info commands.
func RegisterBuiltinCommands(registry *Registry, deps Dependencies) error {
	builtins := []*Command{
		{
			Name:        "help",
			Aliases:     []string{"h"},
			Category:    CategoryInfo,
			Description: "Show available commands",
			Usage:       "help [command]",
			Handler:     helpHandler(registry, deps),
		},
		{
			Name:        "ping",
			Aliases:     []string{"pong"},
			Category:    CategoryInfo,
			Description: "Show bot and gateway latency",
			Usage:       "ping",
			Handler:     pingHandler(deps),
		},
		{
			Name:        "status",
			Aliases:     []string{"stats"},
			Category:    CategoryInfo,
			Description: "Show bot status",
			Usage:       "status",
			Handler:     statusHandler(deps),
		},
	}

	for _, cmd := range builtins {
		if err := registry.Register(cmd); err != nil {
			return fmt.Errorf("failed to register %s: %w", cmd.Name, err)
		}
	}

	return nil
}

// helpHandler lists commands across pages, or details one command.
func helpHandler(registry *Registry, deps Dependencies) CommandHandler {
	return func(ctx context.Context, req CommandRequest) (CommandResponse, error) {
		prefix := registry.Prefix()

		if name := strings.TrimPrefix(firstField(req.Args), prefix); name != "" {
			cmd, exists := registry.Get(name)
			if !exists {
				return Embed(deps.Theme.ErrorPage(fmt.Sprintf("Unknown command `%s`.", name))), nil
			}
			page := deps.Theme.InfoPage(cmd.Description)
			page.Title = prefix + cmd.Name
			page.Fields = []ui.Field{{Name: "Usage", Value: "`" + prefix + cmd.Usage + "`"}}
			if len(cmd.Aliases) > 0 {
				page.Fields = append(page.Fields, ui.Field{
					Name:  "Aliases",
					Value: "`" + strings.Join(cmd.Aliases, "`, `") + "`",
				})
			}
			return Embed(page), nil
		}

		cmds := registry.List()
		if len(cmds) == 0 {
			return CommandResponse{Content: "No commands available."}, nil
		}

		groups := format.Chunk(cmds, deps.pageSize())
		pages := make([]ui.Page, len(groups))
		for i, group := range groups {
			var sb strings.Builder
			for _, cmd := range group {
				sb.WriteString(fmt.Sprintf("`%s%s` - %s\n", prefix, cmd.Name, format.Ellipsis(cmd.Description, 72)))
			}
			page := deps.Theme.InfoPage(strings.TrimSuffix(sb.String(), "\n"))
			page.Title = "Available Commands"
			page.Footer = fmt.Sprintf("Page %d/%d • %shelp [command] for details", i+1, len(groups), prefix)
			pages[i] = page
		}
		return Paginate(pages), nil
	}
}

// pingHandler reports how long the command took to reach the bot and the
// gateway heartbeat, marking slow values with a diff minus.
func pingHandler(deps Dependencies) CommandHandler {
	return func(ctx context.Context, req CommandRequest) (CommandResponse, error) {
		var bot time.Duration
		if !req.SentAt.IsZero() {
			bot = deps.now().Sub(req.SentAt)
		}
		var gateway time.Duration
		if deps.Gateway != nil {
			gateway = deps.Gateway()
		}

		page := deps.Theme.InfoPage("")
		page.Author = "Pong"
		page.Footer = "@" + req.Username
		page.Fields = []ui.Field{
			{Name: "Bot Latency", Value: latencyBlock(bot, botLatencyLimit), Inline: true},
			{Name: "API Latency", Value: latencyBlock(gateway, gatewayLatencyLimit), Inline: true},
		}
		return Embed(page), nil
	}
}

func latencyBlock(d, limit time.Duration) string {
	sign := "+"
	if d >= limit {
		sign = "-"
	}
	return fmt.Sprintf("```diff\n%s %dms\n```", sign, d.Milliseconds())
}

// statusHandler reports runtime and build information.
func statusHandler(deps Dependencies) CommandHandler {
	return func(ctx context.Context, req CommandRequest) (CommandResponse, error) {
		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)

		guilds := 0
		if deps.Players != nil {
			guilds = len(deps.Players.Guilds())
		}

		page := deps.Theme.InfoPage("🟢 Online")
		page.Title = "Status"
		page.Fields = []ui.Field{
			{Name: "Version", Value: version.GetVersion(), Inline: true},
			{Name: "Go", Value: runtime.Version(), Inline: true},
			{Name: "OS", Value: runtime.GOOS + "/" + runtime.GOARCH, Inline: true},
			{Name: "Uptime", Value: format.Duration(deps.now().Sub(processStartTime)), Inline: true},
			{Name: "Memory", Value: format.Bytes(int64(mem.Alloc)), Inline: true},
			{Name: "Players", Value: format.Number(int64(guilds)), Inline: true},
		}
		return Embed(page), nil
	}
}

func firstField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
