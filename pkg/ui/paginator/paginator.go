// Package paginator turns an ordered set of pages into a button-navigable
// message owned by a single user.
package paginator

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"tunebot/pkg/logger"
	"tunebot/pkg/ui"
	"tunebot/pkg/ui/collector"
)

// Navigation control IDs, in display order.
const (
	ControlFirst = "first"
	ControlBack  = "back"
	ControlStop  = "stop"
	ControlNext  = "next"
	ControlLast  = "last"
)

// DefaultTimeout bounds how long a paginated message stays interactive.
const DefaultTimeout = 60 * time.Second

// ErrNoPages is returned when Start receives an empty page set.
var ErrNoPages = errors.New("paginator needs at least one page")

// Paginator renders page sets and drives their navigation sessions.
type Paginator struct {
	log       *logger.Logger
	transport ui.Transport
	collector *collector.Collector
	theme     ui.Theme
	timeout   atomic.Int64
}

// New creates a paginator. A non-positive timeout falls back to DefaultTimeout.
func New(log *logger.Logger, transport ui.Transport, c *collector.Collector, theme ui.Theme, timeout time.Duration) *Paginator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	p := &Paginator{
		log:       log.Named("paginator"),
		transport: transport,
		collector: c,
		theme:     theme,
	}
	p.timeout.Store(int64(timeout))
	return p
}

// SetTimeout changes the timeout used by sessions started afterwards.
func (p *Paginator) SetTimeout(timeout time.Duration) {
	if timeout > 0 {
		p.timeout.Store(int64(timeout))
	}
}

// Timeout returns the timeout applied to new sessions.
func (p *Paginator) Timeout() time.Duration {
	return time.Duration(p.timeout.Load())
}

// Start sends pages to channelID on behalf of ownerID. A single page is sent
// without controls and returns a nil session; otherwise the first page is
// sent with navigation and the running session is returned.
func (p *Paginator) Start(ctx context.Context, channelID, ownerID string, pages []ui.Page) (*collector.Session, error) {
	if len(pages) == 0 {
		return nil, ErrNoPages
	}

	if len(pages) == 1 {
		if _, err := p.transport.Send(ctx, channelID, ui.View{Pages: pages[:1]}); err != nil {
			return nil, fmt.Errorf("sending page: %w", err)
		}
		return nil, nil
	}

	st := &state{
		pages: append([]ui.Page(nil), pages...),
		emoji: p.theme.Emoji,
	}
	target, err := p.transport.Send(ctx, channelID, st.view())
	if err != nil {
		return nil, fmt.Errorf("sending page: %w", err)
	}
	st.target = target
	st.transport = p.transport

	session, err := p.collector.Start(collector.Options{
		Owner:    ownerID,
		Target:   target,
		Timeout:  p.Timeout(),
		Capacity: collector.Unlimited,
	}, st)
	if err != nil {
		// No session means nobody will clear the buttons; do it now.
		if editErr := p.transport.Edit(ctx, target, st.finalView()); editErr != nil {
			p.log.Warn("Failed to clear controls", zap.Error(editErr))
		}
		return nil, fmt.Errorf("starting pagination session: %w", err)
	}

	p.log.Debug("Pagination started",
		zap.String("session_id", session.ID()),
		zap.Int("pages", len(pages)))
	return session, nil
}

// state is owned by one session goroutine and never shared.
type state struct {
	pages     []ui.Page
	cursor    int
	emoji     ui.PageEmoji
	target    ui.Target
	transport ui.Transport
}

func (s *state) last() int {
	return len(s.pages) - 1
}

// move applies a navigation control and reports whether the cursor changed.
func (s *state) move(controlID string) bool {
	next := s.cursor
	switch controlID {
	case ControlFirst:
		next = 0
	case ControlBack:
		next = max(s.cursor-1, 0)
	case ControlNext:
		next = min(s.cursor+1, s.last())
	case ControlLast:
		next = s.last()
	}
	if next == s.cursor {
		return false
	}
	s.cursor = next
	return true
}

func (s *state) controls() []ui.Control {
	atFirst := s.cursor == 0
	atLast := s.cursor == s.last()
	return []ui.Control{
		{ID: ControlFirst, Kind: ui.ControlButton, Emoji: s.emoji.First, Style: ui.StylePrimary, Disabled: atFirst},
		{ID: ControlBack, Kind: ui.ControlButton, Emoji: s.emoji.Back, Style: ui.StylePrimary, Disabled: atFirst},
		{ID: ControlStop, Kind: ui.ControlButton, Emoji: s.emoji.Cancel, Style: ui.StyleDanger},
		{ID: ControlNext, Kind: ui.ControlButton, Emoji: s.emoji.Next, Style: ui.StylePrimary, Disabled: atLast},
		{ID: ControlLast, Kind: ui.ControlButton, Emoji: s.emoji.Last, Style: ui.StylePrimary, Disabled: atLast},
	}
}

func (s *state) view() ui.View {
	return ui.View{
		Pages:    []ui.Page{s.pages[s.cursor]},
		Controls: s.controls(),
	}
}

func (s *state) finalView() ui.View {
	return ui.View{Pages: []ui.Page{s.pages[s.cursor]}}.WithoutControls()
}

// HandleEvent implements collector.Handler.
func (s *state) HandleEvent(ctx context.Context, ev ui.Event) (collector.Action, error) {
	if ev.ControlID == ControlStop {
		if err := ev.Responder.Acknowledge(ctx); err != nil {
			return collector.Terminate, fmt.Errorf("acknowledging stop: %w", err)
		}
		return collector.Terminate, nil
	}

	if !s.move(ev.ControlID) {
		if err := ev.Responder.Acknowledge(ctx); err != nil {
			return collector.Continue, fmt.Errorf("acknowledging %s: %w", ev.ControlID, err)
		}
		return collector.Continue, nil
	}

	if err := ev.Responder.Update(ctx, s.view()); err != nil {
		return collector.Continue, fmt.Errorf("rendering page %d: %w", s.cursor, err)
	}
	return collector.Continue, nil
}

// Finalize implements collector.Handler. The last shown page stays, with all
// buttons removed.
func (s *state) Finalize(ctx context.Context, _ collector.EndReason) error {
	return s.transport.Edit(ctx, s.target, s.finalView())
}
