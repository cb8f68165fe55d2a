package commands

import (
	"time"

	"tunebot/pkg/logger"
	"tunebot/pkg/player"
	"tunebot/pkg/search"
	"tunebot/pkg/ui"
)

// LatencyFunc reports the gateway heartbeat round trip.
type LatencyFunc func() time.Duration

// Dependencies are the collaborators shared by command handlers.
type Dependencies struct {
	Log      *logger.Logger
	Theme    ui.Theme
	Players  *player.Manager
	Searcher search.Searcher
	// PageSize is the number of lines per paginated page.
	PageSize int
	// BarSize is the width of the nowplaying progress bar.
	BarSize int
	// SearchLimit caps search results offered in the picker.
	SearchLimit int
	// Gateway may be nil when the host exposes no heartbeat.
	Gateway LatencyFunc
	// Now defaults to time.Now.
	Now func() time.Time
}

func (d *Dependencies) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d *Dependencies) pageSize() int {
	if d.PageSize <= 0 {
		return 10
	}
	return d.PageSize
}
