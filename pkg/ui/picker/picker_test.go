package picker

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"tunebot/pkg/logger"
	"tunebot/pkg/ui"
	"tunebot/pkg/ui/collector"
	"tunebot/pkg/ui/uitest"
)

func sampleEntries() []Entry {
	return []Entry{
		{Title: "Song A", URI: "https://example.com/a", Author: "Artist A", Duration: 3*time.Minute + 5*time.Second},
		{Title: "Song B", URI: "https://example.com/b", Author: "Artist B", Duration: 45 * time.Second},
		{Title: "Song C", Author: "Artist C", Duration: 2 * time.Hour},
	}
}

func newTestPicker(t *testing.T) (*Picker, *uitest.Transport, *collector.Collector) {
	t.Helper()
	log := logger.NewNop()
	c := collector.New(log, collector.NewRouter(), ui.DefaultTheme())
	t.Cleanup(c.Close)
	tr := &uitest.Transport{}
	return New(log, tr, c, ui.DefaultTheme(), time.Second), tr, c
}

func waitEnded(t *testing.T, s *collector.Session) collector.EndReason {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	reason, err := s.Wait(ctx)
	if err != nil {
		t.Fatalf("session did not end: %v", err)
	}
	return reason
}

type selectRecorder struct {
	calls atomic.Int32
	last  atomic.Value
	err   error
}

func (r *selectRecorder) fn(ctx context.Context, index int, entry Entry) (ui.Page, error) {
	r.calls.Add(1)
	r.last.Store(entry)
	if r.err != nil {
		return ui.Page{}, r.err
	}
	return ui.Page{Description: "Added " + entry.Title}, nil
}

func TestOptions(t *testing.T) {
	entries := sampleEntries()
	entries[0].Title = strings.Repeat("x", 150)

	opts := Options(entries)
	if len(opts) != 3 {
		t.Fatalf("expected 3 options, got %d", len(opts))
	}
	if len([]rune(opts[0].Label)) != MaxLabel {
		t.Fatalf("label must be clamped to %d, got %d", MaxLabel, len([]rune(opts[0].Label)))
	}
	for i, want := range []string{"0", "1", "2"} {
		if opts[i].Value != want {
			t.Fatalf("option %d: expected value %q, got %q", i, want, opts[i].Value)
		}
	}
	if opts[0].Description != "3m 5s" || opts[1].Description != "45s" || opts[2].Description != "2h 0m" {
		t.Fatalf("unexpected descriptions: %q %q %q", opts[0].Description, opts[1].Description, opts[2].Description)
	}
}

func TestListing(t *testing.T) {
	got := Listing(sampleEntries())
	want := "1. [Song A](https://example.com/a) - `Artist A`\n" +
		"2. [Song B](https://example.com/b) - `Artist B`\n" +
		"3. Song C - `Artist C`"
	if got != want {
		t.Fatalf("Listing mismatch:\n got: %q\nwant: %q", got, want)
	}
}

func TestParseSelection(t *testing.T) {
	if idx, err := ParseSelection("2", 3); err != nil || idx != 2 {
		t.Fatalf("expected 2, got %d (%v)", idx, err)
	}
	for _, bad := range []string{"3", "-1", "", "one", "1.0"} {
		if _, err := ParseSelection(bad, 3); !errors.Is(err, ErrInvalidSelection) {
			t.Fatalf("ParseSelection(%q): expected ErrInvalidSelection, got %v", bad, err)
		}
	}
}

func TestStart_Validation(t *testing.T) {
	p, _, _ := newTestPicker(t)
	rec := &selectRecorder{}

	if _, err := p.Start(context.Background(), Request{Owner: "u", OnSelect: rec.fn}); !errors.Is(err, ErrNoEntries) {
		t.Fatalf("expected ErrNoEntries, got %v", err)
	}
	if _, err := p.Start(context.Background(), Request{Owner: "u", Entries: sampleEntries()}); err == nil {
		t.Fatal("expected error for missing callback")
	}
}

func TestStart_InitialRender(t *testing.T) {
	p, tr, _ := newTestPicker(t)
	rec := &selectRecorder{}

	entries := make([]Entry, 30)
	for i := range entries {
		entries[i] = Entry{Title: "t", Author: "a"}
	}
	if _, err := p.Start(context.Background(), Request{ChannelID: "c", Owner: "u", Entries: entries, Placeholder: "Pick one", OnSelect: rec.fn}); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	view := tr.Sent()[0].View
	if len(view.Controls) != 1 {
		t.Fatalf("expected a single select control, got %d", len(view.Controls))
	}
	ctrl := view.Controls[0]
	if ctrl.ID != ControlSelect || ctrl.Kind != ui.ControlSelect || !ctrl.Enabled() {
		t.Fatalf("unexpected control: %+v", ctrl)
	}
	if len(ctrl.Options) != MaxOptions {
		t.Fatalf("expected %d options, got %d", MaxOptions, len(ctrl.Options))
	}
	if ctrl.Placeholder != "Pick one" {
		t.Fatalf("unexpected placeholder %q", ctrl.Placeholder)
	}
}

func TestSelect_InvokesCallbackOnce(t *testing.T) {
	p, tr, c := newTestPicker(t)
	rec := &selectRecorder{}
	s, err := p.Start(context.Background(), Request{ChannelID: "c", Owner: "owner", Entries: sampleEntries(), OnSelect: rec.fn})
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	first, firstR := uitest.NewEvent(s.Target(), "owner", ControlSelect, "1")
	second, secondR := uitest.NewEvent(s.Target(), "owner", ControlSelect, "2")
	if err := c.Router().Dispatch(first); err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	secondErr := c.Router().Dispatch(second)

	if reason := waitEnded(t, s); reason != collector.ReasonLimit {
		t.Fatalf("expected %q, got %q", collector.ReasonLimit, reason)
	}
	if rec.calls.Load() != 1 {
		t.Fatalf("expected one callback, got %d", rec.calls.Load())
	}
	if got := rec.last.Load().(Entry); got.Title != "Song B" {
		t.Fatalf("expected Song B, got %q", got.Title)
	}

	updates := firstR.Updates()
	if len(updates) != 1 || updates[0].Pages[0].Description != "Added Song B" {
		t.Fatalf("expected result render, got %+v", updates)
	}
	if updates[0].EnabledControls() != 0 {
		t.Fatal("select must be disabled after the choice")
	}
	if secondErr == nil && len(secondR.Rejections()) != 1 {
		t.Fatal("a second selection must be refused")
	}
	if len(secondR.Updates()) != 0 {
		t.Fatal("a second selection must not render")
	}

	edits := tr.Edits()
	if len(edits) != 1 {
		t.Fatalf("expected exactly one final edit, got %d", len(edits))
	}
	if edits[0].View.EnabledControls() != 0 || edits[0].View.Pages[0].Description != "Added Song B" {
		t.Fatalf("final edit must keep the result with the select disabled: %+v", edits[0].View)
	}
}

func TestSelect_InvalidValueConsumesSlot(t *testing.T) {
	for _, value := range []string{"3", "-1", "abc"} {
		t.Run(value, func(t *testing.T) {
			p, tr, c := newTestPicker(t)
			rec := &selectRecorder{}
			s, err := p.Start(context.Background(), Request{ChannelID: "c", Owner: "owner", Entries: sampleEntries(), OnSelect: rec.fn})
			if err != nil {
				t.Fatalf("Start returned error: %v", err)
			}

			ev, r := uitest.NewEvent(s.Target(), "owner", ControlSelect, value)
			_ = c.Router().Dispatch(ev)

			if reason := waitEnded(t, s); reason != collector.ReasonLimit {
				t.Fatalf("expected %q, got %q", collector.ReasonLimit, reason)
			}
			if rec.calls.Load() != 0 {
				t.Fatal("callback must not run for an invalid selection")
			}
			if r.Acks() != 1 {
				t.Fatal("invalid selection must still be acknowledged")
			}
			final := tr.Edits()[0].View
			if final.EnabledControls() != 0 || len(final.Controls) != 1 {
				t.Fatalf("final edit must show the disabled select, got %+v", final.Controls)
			}
		})
	}
}

func TestSelect_NonOwnerDoesNotConsume(t *testing.T) {
	p, _, c := newTestPicker(t)
	rec := &selectRecorder{}
	s, err := p.Start(context.Background(), Request{ChannelID: "c", Owner: "owner", Entries: sampleEntries(), OnSelect: rec.fn})
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	for i := 0; i < 5; i++ {
		ev, _ := uitest.NewEvent(s.Target(), "intruder", ControlSelect, "0")
		_ = c.Router().Dispatch(ev)
	}
	ev, _ := uitest.NewEvent(s.Target(), "owner", ControlSelect, "2")
	_ = c.Router().Dispatch(ev)

	waitEnded(t, s)
	if rec.calls.Load() != 1 {
		t.Fatalf("expected one callback, got %d", rec.calls.Load())
	}
	if got := rec.last.Load().(Entry); got.Title != "Song C" {
		t.Fatalf("intruder choice leaked: got %q", got.Title)
	}
	if s.Rejected() != 5 {
		t.Fatalf("expected 5 rejections, got %d", s.Rejected())
	}
}

func TestTimeout_DisablesWithoutCallback(t *testing.T) {
	p, tr, _ := newTestPicker(t)
	rec := &selectRecorder{}
	s, err := p.Start(context.Background(), Request{ChannelID: "c", Owner: "owner", Entries: sampleEntries(), Timeout: 20 * time.Millisecond, OnSelect: rec.fn})
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	if reason := waitEnded(t, s); reason != collector.ReasonTimeout {
		t.Fatalf("expected %q, got %q", collector.ReasonTimeout, reason)
	}
	if rec.calls.Load() != 0 {
		t.Fatal("callback must not run on timeout")
	}
	edits := tr.Edits()
	if len(edits) != 1 || edits[0].View.EnabledControls() != 0 {
		t.Fatalf("expected one edit disabling the select, got %+v", edits)
	}
}

func TestSelect_CallbackErrorRendersErrorPage(t *testing.T) {
	p, _, c := newTestPicker(t)
	rec := &selectRecorder{err: errors.New("queue is full")}
	s, err := p.Start(context.Background(), Request{ChannelID: "c", Owner: "owner", Entries: sampleEntries(), OnSelect: rec.fn})
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	ev, r := uitest.NewEvent(s.Target(), "owner", ControlSelect, "0")
	_ = c.Router().Dispatch(ev)
	waitEnded(t, s)

	updates := r.Updates()
	if len(updates) != 1 {
		t.Fatalf("expected one update, got %d", len(updates))
	}
	page := updates[0].Pages[0]
	if page.Description != "queue is full" || page.Color != ui.DefaultTheme().Colors.Error {
		t.Fatalf("expected error page, got %+v", page)
	}
}
