package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"tunebot/pkg/format"
	"tunebot/pkg/player"
	"tunebot/pkg/search"
	"tunebot/pkg/ui"
	"tunebot/pkg/ui/picker"
)

// User-facing messages shared by music commands.
const (
	msgNoKeyword   = "Please provide a search keyword."
	msgNoResult    = "No results found."
	msgSearchError = "An error occurred while searching."
	msgNoPlayer    = "There is no player for this server."
	msgNoTrack     = "There is no track currently playing."
	msgEmptyQueue  = "There are no songs in the queue."
	msgNotPaused   = "The player is not paused."
)

const bassBoostGain = 0.25

// RegisterMusicCommands registers the playback and filter commands.
func RegisterMusicCommands(registry *Registry, deps Dependencies) error {
	cmds := []*Command{
		{
			Name:        "search",
			Aliases:     []string{"sc"},
			Category:    CategoryMusic,
			Description: "Search for a song and pick one to queue",
			Usage:       "search [song]",
			Handler:     searchHandler(deps),
		},
		{
			Name:        "queue",
			Aliases:     []string{"q"},
			Category:    CategoryMusic,
			Description: "Show the upcoming tracks",
			Usage:       "queue",
			Handler:     queueHandler(deps),
		},
		{
			Name:        "nowplaying",
			Aliases:     []string{"np"},
			Category:    CategoryMusic,
			Description: "Show the current track and its progress",
			Usage:       "nowplaying",
			Handler:     nowPlayingHandler(deps),
		},
		{
			Name:        "shuffle",
			Aliases:     []string{"sh"},
			Category:    CategoryMusic,
			Description: "Shuffle the queue",
			Usage:       "shuffle",
			Handler:     shuffleHandler(deps),
		},
		{
			Name:        "autoplay",
			Aliases:     []string{"ap"},
			Category:    CategoryMusic,
			Description: "Toggle autoplay",
			Usage:       "autoplay",
			Handler:     autoplayHandler(deps),
		},
		{
			Name:        "pause",
			Category:    CategoryMusic,
			Description: "Pause the current track",
			Usage:       "pause",
			Handler:     pauseHandler(deps),
		},
		{
			Name:        "resume",
			Aliases:     []string{"r", "continue"},
			Category:    CategoryMusic,
			Description: "Resume the paused track",
			Usage:       "resume",
			Handler:     resumeHandler(deps),
		},
		{
			Name:        "skip",
			Aliases:     []string{"s"},
			Category:    CategoryMusic,
			Description: "Skip the current track",
			Usage:       "skip",
			Handler:     skipHandler(deps),
		},
		{
			Name:        "bassboost",
			Aliases:     []string{"bb"},
			Category:    CategoryFilters,
			Description: "Toggle the bass boost filter",
			Usage:       "bassboost",
			Handler:     bassBoostHandler(deps),
		},
		{
			Name:        "reset",
			Aliases:     []string{"rs"},
			Category:    CategoryFilters,
			Description: "Reset the active filters",
			Usage:       "reset",
			Handler:     resetHandler(deps),
		},
	}

	for _, cmd := range cmds {
		if err := registry.Register(cmd); err != nil {
			return fmt.Errorf("failed to register %s: %w", cmd.Name, err)
		}
	}
	return nil
}

func (d Dependencies) fail(msg string) CommandResponse {
	return Embed(d.Theme.ErrorPage(msg))
}

func (d Dependencies) done() CommandResponse {
	return CommandResponse{Reaction: d.Theme.Done}
}

// searchHandler offers search results in a picker; the chosen track is
// queued and playback starts if the player is idle.
func searchHandler(deps Dependencies) CommandHandler {
	return func(ctx context.Context, req CommandRequest) (CommandResponse, error) {
		query := strings.TrimSpace(req.Args)
		if query == "" {
			return deps.fail(msgNoKeyword), nil
		}

		tracks, err := deps.Searcher.Search(ctx, query, deps.SearchLimit)
		if errors.Is(err, search.ErrNoResults) {
			return deps.fail(msgNoResult), nil
		}
		if err != nil {
			deps.Log.Warn("Search failed", zap.String("query", query), zap.Error(err))
			return deps.fail(msgSearchError), nil
		}

		entries := make([]picker.Entry, len(tracks))
		for i, t := range tracks {
			entries[i] = picker.Entry{Title: t.Title, URI: t.URI, Author: t.Author, Duration: t.Duration}
		}

		guildID, requester := req.GuildID, req.UserID
		onSelect := func(ctx context.Context, index int, _ picker.Entry) (ui.Page, error) {
			track := tracks[index]
			track.Requester = requester

			p := deps.Players.Ensure(guildID)
			if err := p.Add(track); err != nil {
				if errors.Is(err, player.ErrQueueFull) {
					return deps.Theme.ErrorPage(fmt.Sprintf("The queue is limited to %d tracks.", p.Limit())), nil
				}
				return ui.Page{}, fmt.Errorf("adding track: %w", err)
			}
			if !p.Playing() {
				if err := p.Play(); err != nil {
					return ui.Page{}, fmt.Errorf("starting playback: %w", err)
				}
			}
			return deps.Theme.InfoPage(fmt.Sprintf("Added [%s](%s) to the queue.", track.Title, track.URI)), nil
		}

		return Pick(entries, "Select a track to add", onSelect), nil
	}
}

// queueHandler pages through the upcoming tracks.
func queueHandler(deps Dependencies) CommandHandler {
	return func(ctx context.Context, req CommandRequest) (CommandResponse, error) {
		p, ok := deps.Players.Get(req.GuildID)
		if !ok {
			return deps.fail(msgEmptyQueue), nil
		}
		current, playing := p.Current()
		tracks := p.Tracks()
		if !playing && len(tracks) == 0 {
			return deps.fail(msgEmptyQueue), nil
		}

		header := ""
		if playing {
			header = fmt.Sprintf("**Now playing:** [%s](%s) `%s`\n\n", current.Title, current.URI, format.Duration(current.Duration))
		}

		lines := make([]string, len(tracks))
		var total time.Duration
		for i, t := range tracks {
			total += t.Duration
			lines[i] = fmt.Sprintf("%d. [%s](%s) - `%s`", i+1, format.Ellipsis(t.Title, 50), t.URI, format.Duration(t.Duration))
		}

		groups := format.Chunk(lines, deps.pageSize())
		if len(groups) == 0 {
			groups = [][]string{{"No upcoming tracks."}}
		}
		pages := make([]ui.Page, len(groups))
		for i, group := range groups {
			page := deps.Theme.InfoPage(header + strings.Join(group, "\n"))
			page.Title = "Queue"
			page.Footer = fmt.Sprintf("Page %d/%d • %s tracks • %s",
				i+1, len(groups), format.Number(int64(len(tracks))), format.Duration(total))
			pages[i] = page
		}
		return Paginate(pages), nil
	}
}

// nowPlayingHandler shows the current track with a progress bar.
func nowPlayingHandler(deps Dependencies) CommandHandler {
	return func(ctx context.Context, req CommandRequest) (CommandResponse, error) {
		p, ok := deps.Players.Get(req.GuildID)
		if !ok {
			return deps.fail(msgNoTrack), nil
		}
		track, playing := p.Current()
		if !playing {
			return deps.fail(msgNoTrack), nil
		}

		position := p.Position()
		bar := format.ProgressBar(position.Milliseconds(), track.Duration.Milliseconds(), deps.BarSize)

		desc := fmt.Sprintf("[%s](%s)", track.Title, track.URI)
		if track.Requester != "" {
			desc += fmt.Sprintf(" - Requested by: <@%s>", track.Requester)
		}
		page := deps.Theme.InfoPage(desc + "\n\n`" + bar + "`")
		page.Author = "Now Playing"
		page.Thumbnail = track.ArtworkURL
		page.Fields = []ui.Field{{
			Name:  "\u200b",
			Value: fmt.Sprintf("`%s / %s`", format.Duration(position), format.Duration(track.Duration)),
		}}
		return Embed(page), nil
	}
}

func shuffleHandler(deps Dependencies) CommandHandler {
	return func(ctx context.Context, req CommandRequest) (CommandResponse, error) {
		p, ok := deps.Players.Get(req.GuildID)
		if !ok {
			return deps.fail(msgEmptyQueue), nil
		}
		if err := p.Shuffle(); err != nil {
			if errors.Is(err, player.ErrEmptyQueue) {
				return deps.fail(msgEmptyQueue), nil
			}
			return CommandResponse{}, err
		}
		return deps.done(), nil
	}
}

func autoplayHandler(deps Dependencies) CommandHandler {
	return func(ctx context.Context, req CommandRequest) (CommandResponse, error) {
		p, ok := deps.Players.Get(req.GuildID)
		if !ok {
			return deps.fail(msgNoPlayer), nil
		}
		enabled := !p.Flag(player.FlagAutoplay)
		p.SetFlag(player.FlagAutoplay, enabled)

		state := "disabled"
		if enabled {
			state = "enabled"
		}
		return Embed(deps.Theme.InfoPage(fmt.Sprintf("%s | Autoplay is now %s.", deps.Theme.Done, state))), nil
	}
}

func pauseHandler(deps Dependencies) CommandHandler {
	return func(ctx context.Context, req CommandRequest) (CommandResponse, error) {
		p, ok := deps.Players.Get(req.GuildID)
		if !ok {
			return deps.fail(msgNoPlayer), nil
		}
		if err := p.Pause(); err != nil {
			return deps.fail(msgNoTrack), nil
		}
		return deps.done(), nil
	}
}

func resumeHandler(deps Dependencies) CommandHandler {
	return func(ctx context.Context, req CommandRequest) (CommandResponse, error) {
		p, ok := deps.Players.Get(req.GuildID)
		if !ok {
			return deps.fail(msgNoPlayer), nil
		}
		switch err := p.Resume(); {
		case errors.Is(err, player.ErrNotPaused):
			return deps.fail(msgNotPaused), nil
		case errors.Is(err, player.ErrNothingPlaying):
			return deps.fail(msgNoTrack), nil
		case err != nil:
			return CommandResponse{}, err
		}
		return deps.done(), nil
	}
}

func skipHandler(deps Dependencies) CommandHandler {
	return func(ctx context.Context, req CommandRequest) (CommandResponse, error) {
		p, ok := deps.Players.Get(req.GuildID)
		if !ok {
			return deps.fail(msgNoPlayer), nil
		}
		skipped, err := p.Skip()
		if err != nil {
			return deps.fail(msgNoTrack), nil
		}
		return Embed(deps.Theme.InfoPage(fmt.Sprintf("Skipped [%s](%s).", skipped.Title, skipped.URI))), nil
	}
}

func bassBoostHandler(deps Dependencies) CommandHandler {
	return func(ctx context.Context, req CommandRequest) (CommandResponse, error) {
		p, ok := deps.Players.Get(req.GuildID)
		if !ok {
			return deps.fail(msgNoPlayer), nil
		}
		if _, on := p.Filters()["bassboost"]; on {
			p.RemoveFilter("bassboost")
		} else {
			p.SetFilter("bassboost", bassBoostGain)
		}
		return deps.done(), nil
	}
}

func resetHandler(deps Dependencies) CommandHandler {
	return func(ctx context.Context, req CommandRequest) (CommandResponse, error) {
		if p, ok := deps.Players.Get(req.GuildID); ok {
			p.ResetFilters()
		}
		return deps.done(), nil
	}
}
