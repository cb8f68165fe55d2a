// Package player keeps per-guild playback queues. It tracks what is playing
// and for how long; audio transport lives elsewhere.
package player

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"
)

// FlagAutoplay enables picking related tracks when the queue runs dry.
const FlagAutoplay = "autoplay"

var (
	// ErrQueueFull is returned by Add once the queue limit is reached.
	ErrQueueFull = errors.New("queue is full")
	// ErrEmptyQueue is returned when an operation needs queued tracks.
	ErrEmptyQueue = errors.New("queue is empty")
	// ErrNothingPlaying is returned when no track is current.
	ErrNothingPlaying = errors.New("nothing is playing")
	// ErrNotPaused is returned by Resume on a running track.
	ErrNotPaused = errors.New("player is not paused")
)

// Track is one playable item.
type Track struct {
	Title      string        `json:"title" yaml:"title"`
	URI        string        `json:"uri" yaml:"uri"`
	Author     string        `json:"author" yaml:"author"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
	ArtworkURL string        `json:"artwork_url,omitempty" yaml:"artwork_url,omitempty"`
	// Requester is the user ID that queued the track.
	Requester string `json:"requester,omitempty" yaml:"requester,omitempty"`
}

// Queue is the playback surface commands work against.
type Queue interface {
	Current() (Track, bool)
	Position() time.Duration
	Duration() time.Duration
	Add(track Track) error
	Shuffle() error
	Flag(key string) bool
	SetFlag(key string, value bool)
	Playing() bool
	Play() error
	Len() int
	Tracks() []Track
}

var _ Queue = (*Player)(nil)

// Player is the queue of one guild.
type Player struct {
	guildID string
	limit   int
	now     func() time.Time

	mu        sync.Mutex
	rng       *rand.Rand
	current   *Track
	tracks    []Track
	startedAt time.Time
	elapsed   time.Duration
	paused    bool
	flags     map[string]bool
	filters   map[string]float64
}

// Option customizes a Player.
type Option func(*Player)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Player) { p.now = now }
}

// WithRand replaces the shuffle source.
func WithRand(r *rand.Rand) Option {
	return func(p *Player) { p.rng = r }
}

// New creates an idle player. A limit of zero means unlimited.
func New(guildID string, limit int, opts ...Option) *Player {
	p := &Player{
		guildID: guildID,
		limit:   limit,
		now:     time.Now,
		flags:   make(map[string]bool),
		filters: make(map[string]float64),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.rng == nil {
		p.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return p
}

// GuildID returns the owning guild.
func (p *Player) GuildID() string { return p.guildID }

// Limit returns the queue limit; zero means unlimited.
func (p *Player) Limit() int { return p.limit }

// Current returns the playing track.
func (p *Player) Current() (Track, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.advance()
	if p.current == nil {
		return Track{}, false
	}
	return *p.current, true
}

// Position returns the playback offset into the current track.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.advance()
	return p.position()
}

// Duration returns the length of the current track.
func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.advance()
	if p.current == nil {
		return 0
	}
	return p.current.Duration
}

// Add appends a track to the upcoming queue.
func (p *Player) Add(track Track) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.advance()
	if p.limit > 0 && len(p.tracks) >= p.limit {
		return ErrQueueFull
	}
	p.tracks = append(p.tracks, track)
	return nil
}

// Shuffle reorders the upcoming tracks.
func (p *Player) Shuffle() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.advance()
	if len(p.tracks) == 0 {
		return ErrEmptyQueue
	}
	p.rng.Shuffle(len(p.tracks), func(i, j int) {
		p.tracks[i], p.tracks[j] = p.tracks[j], p.tracks[i]
	})
	return nil
}

// Flag reads a boolean player setting.
func (p *Player) Flag(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.flags[key]
}

// SetFlag writes a boolean player setting.
func (p *Player) SetFlag(key string, value bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.flags[key] = value
}

// Playing reports whether a track is current and not paused.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.advance()
	return p.current != nil && !p.paused
}

// Play starts the next queued track when idle. It is a no-op while a track
// is current.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.advance()
	if p.current != nil {
		return nil
	}
	if len(p.tracks) == 0 {
		return ErrEmptyQueue
	}
	p.start(p.now())
	return nil
}

// Skip drops the current track and starts the next one, if any.
func (p *Player) Skip() (Track, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.advance()
	if p.current == nil {
		return Track{}, ErrNothingPlaying
	}
	skipped := *p.current
	p.current = nil
	if len(p.tracks) > 0 {
		p.start(p.now())
	}
	return skipped, nil
}

// Pause freezes the position of the current track.
func (p *Player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.advance()
	if p.current == nil {
		return ErrNothingPlaying
	}
	if !p.paused {
		p.elapsed = p.position()
		p.paused = true
	}
	return nil
}

// Resume continues a paused track.
func (p *Player) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return ErrNothingPlaying
	}
	if !p.paused {
		return ErrNotPaused
	}
	p.paused = false
	p.startedAt = p.now()
	return nil
}

// Paused reports whether playback is paused.
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// SetFilter stores an audio filter value.
func (p *Player) SetFilter(name string, value float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.filters[name] = value
}

// Filters returns a copy of the active filters.
func (p *Player) Filters() map[string]float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]float64, len(p.filters))
	for k, v := range p.filters {
		out[k] = v
	}
	return out
}

// RemoveFilter drops one audio filter.
func (p *Player) RemoveFilter(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.filters, name)
}

// ResetFilters clears every audio filter.
func (p *Player) ResetFilters() {
	p.mu.Lock()
	defer p.mu.Unlock()
	clear(p.filters)
}

// Len returns the number of upcoming tracks.
func (p *Player) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.advance()
	return len(p.tracks)
}

// Tracks returns a copy of the upcoming tracks.
func (p *Player) Tracks() []Track {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.advance()
	return append([]Track(nil), p.tracks...)
}

// start pops the queue head at the given instant. Callers hold mu.
func (p *Player) start(at time.Time) {
	next := p.tracks[0]
	p.tracks = p.tracks[1:]
	p.current = &next
	p.startedAt = at
	p.elapsed = 0
	p.paused = false
}

func (p *Player) position() time.Duration {
	if p.current == nil {
		return 0
	}
	pos := p.elapsed
	if !p.paused {
		pos += p.now().Sub(p.startedAt)
	}
	if d := p.current.Duration; d > 0 && pos > d {
		pos = d
	}
	return pos
}

// advance moves past tracks whose playtime has run out. Callers hold mu.
func (p *Player) advance() {
	for p.current != nil && !p.paused && p.current.Duration > 0 {
		end := p.startedAt.Add(p.current.Duration - p.elapsed)
		if p.now().Before(end) {
			return
		}
		p.current = nil
		if len(p.tracks) == 0 {
			return
		}
		p.start(end)
	}
}
