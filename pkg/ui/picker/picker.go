// Package picker renders a list of results as a single-choice select menu
// and resolves at most one choice per message.
package picker

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"tunebot/pkg/format"
	"tunebot/pkg/logger"
	"tunebot/pkg/ui"
	"tunebot/pkg/ui/collector"
)

// ControlSelect is the ID of the select control.
const ControlSelect = "search_select"

const (
	// DefaultTimeout bounds how long a picker waits for a choice.
	DefaultTimeout = 60 * time.Second
	// MaxOptions is the most entries a select control can hold.
	MaxOptions = 25
	// MaxLabel is the longest option label, in characters.
	MaxLabel = 100
)

var (
	// ErrNoEntries is returned when Start receives nothing to choose from.
	ErrNoEntries = errors.New("picker needs at least one entry")
	// ErrInvalidSelection marks a selected value outside the offered range.
	ErrInvalidSelection = errors.New("invalid selection")
)

// Entry is one selectable result.
type Entry struct {
	Title    string
	URI      string
	Author   string
	Duration time.Duration
}

// SelectFunc acts on the chosen entry and returns the page to show in place
// of the list. It runs at most once per picker.
type SelectFunc func(ctx context.Context, index int, entry Entry) (ui.Page, error)

// Request describes one picker.
type Request struct {
	ChannelID   string
	Owner       string
	Entries     []Entry
	Placeholder string
	// Timeout overrides the picker default when positive.
	Timeout  time.Duration
	OnSelect SelectFunc
}

// Picker renders option lists and drives their selection sessions.
type Picker struct {
	log       *logger.Logger
	transport ui.Transport
	collector *collector.Collector
	theme     ui.Theme
	timeout   atomic.Int64
}

// New creates a picker. A non-positive timeout falls back to DefaultTimeout.
func New(log *logger.Logger, transport ui.Transport, c *collector.Collector, theme ui.Theme, timeout time.Duration) *Picker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	p := &Picker{
		log:       log.Named("picker"),
		transport: transport,
		collector: c,
		theme:     theme,
	}
	p.timeout.Store(int64(timeout))
	return p
}

// SetTimeout changes the default timeout for pickers started afterwards.
func (p *Picker) SetTimeout(timeout time.Duration) {
	if timeout > 0 {
		p.timeout.Store(int64(timeout))
	}
}

// Timeout returns the default timeout for new pickers.
func (p *Picker) Timeout() time.Duration {
	return time.Duration(p.timeout.Load())
}

// Options converts entries to select options; Value is the entry index.
func Options(entries []Entry) []ui.SelectOption {
	opts := make([]ui.SelectOption, len(entries))
	for i, e := range entries {
		opts[i] = ui.SelectOption{
			Label:       format.Truncate(e.Title, MaxLabel),
			Value:       strconv.Itoa(i),
			Description: format.Duration(e.Duration),
		}
	}
	return opts
}

// Listing enumerates entries one per line, numbered from 1.
func Listing(entries []Entry) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		title := e.Title
		if e.URI != "" {
			title = fmt.Sprintf("[%s](%s)", e.Title, e.URI)
		}
		lines[i] = fmt.Sprintf("%d. %s - `%s`", i+1, title, e.Author)
	}
	return strings.Join(lines, "\n")
}

// ParseSelection resolves a selected value against n offered entries.
func ParseSelection(value string, n int) (int, error) {
	idx, err := strconv.Atoi(value)
	if err != nil || idx < 0 || idx >= n {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSelection, value)
	}
	return idx, nil
}

// Start sends the option list and opens a single-use session.
func (p *Picker) Start(ctx context.Context, req Request) (*collector.Session, error) {
	if len(req.Entries) == 0 {
		return nil, ErrNoEntries
	}
	if req.OnSelect == nil {
		return nil, errors.New("picker needs a select callback")
	}

	entries := req.Entries
	if len(entries) > MaxOptions {
		entries = entries[:MaxOptions]
	}
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = p.Timeout()
	}

	st := &state{
		log:      p.log,
		theme:    p.theme,
		entries:  append([]Entry(nil), entries...),
		onSelect: req.OnSelect,
	}
	st.current = ui.View{
		Pages: []ui.Page{p.theme.InfoPage(Listing(entries))},
		Controls: []ui.Control{{
			ID:          ControlSelect,
			Kind:        ui.ControlSelect,
			Placeholder: req.Placeholder,
			Options:     Options(entries),
		}},
	}

	target, err := p.transport.Send(ctx, req.ChannelID, st.current)
	if err != nil {
		return nil, fmt.Errorf("sending picker: %w", err)
	}
	st.target = target
	st.transport = p.transport

	session, err := p.collector.Start(collector.Options{
		Owner:    req.Owner,
		Target:   target,
		Timeout:  timeout,
		Capacity: 1,
	}, st)
	if err != nil {
		if editErr := p.transport.Edit(ctx, target, st.current.WithControlsDisabled()); editErr != nil {
			p.log.Warn("Failed to disable picker", zap.Error(editErr))
		}
		return nil, fmt.Errorf("starting picker session: %w", err)
	}

	p.log.Debug("Picker started",
		zap.String("session_id", session.ID()),
		zap.Int("entries", len(entries)))
	return session, nil
}

// state is owned by one session goroutine and never shared.
type state struct {
	log       *logger.Logger
	theme     ui.Theme
	entries   []Entry
	onSelect  SelectFunc
	current   ui.View
	target    ui.Target
	transport ui.Transport
}

// HandleEvent implements collector.Handler. The session has capacity one, so
// the collector ends it after this returns, even for an invalid selection.
func (s *state) HandleEvent(ctx context.Context, ev ui.Event) (collector.Action, error) {
	value, _ := ev.SelectedValue()
	idx, err := ParseSelection(value, len(s.entries))
	if ev.ControlID != ControlSelect || err != nil {
		s.log.Debug("Ignoring selection",
			zap.String("control_id", ev.ControlID),
			zap.String("value", value))
		if err := ev.Responder.Acknowledge(ctx); err != nil {
			return collector.Continue, fmt.Errorf("acknowledging selection: %w", err)
		}
		return collector.Continue, nil
	}

	page, err := s.onSelect(ctx, idx, s.entries[idx])
	if err != nil {
		s.log.Warn("Selection handler failed", zap.Int("index", idx), zap.Error(err))
		page = s.theme.ErrorPage(err.Error())
	}

	s.current = ui.View{
		Pages:    []ui.Page{page},
		Controls: s.current.Controls,
	}.WithControlsDisabled()
	if err := ev.Responder.Update(ctx, s.current); err != nil {
		return collector.Continue, fmt.Errorf("rendering selection: %w", err)
	}
	return collector.Continue, nil
}

// Finalize implements collector.Handler. The select stays visible but
// disabled.
func (s *state) Finalize(ctx context.Context, _ collector.EndReason) error {
	return s.transport.Edit(ctx, s.target, s.current.WithControlsDisabled())
}
