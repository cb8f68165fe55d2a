// Package ui defines the render contract shared by interactive sessions and
// the chat host: pages, controls, views, and the inbound interaction event.
package ui

import (
	"context"
)

// Page is one immutable renderable unit (an embed on Discord).
type Page struct {
	Title       string
	URL         string
	Description string
	Color       int
	Thumbnail   string
	Fields      []Field
	Footer      string
	Author      string
	AuthorIcon  string
}

// Field is a name/value pair rendered below a page description.
type Field struct {
	Name   string
	Value  string
	Inline bool
}

// ControlKind tells the host how to draw a control.
type ControlKind int

const (
	// ControlButton is a clickable button.
	ControlButton ControlKind = iota
	// ControlSelect is a single-choice select menu.
	ControlSelect
)

// ButtonStyle mirrors the host's button palette.
type ButtonStyle int

const (
	// StylePrimary is the accented default button.
	StylePrimary ButtonStyle = iota
	// StyleSecondary is a neutral grey button.
	StyleSecondary
	// StyleSuccess is a green button.
	StyleSuccess
	// StyleDanger is a red button, used for stop.
	StyleDanger
)

// Control is a clickable or selectable element identified by ID.
type Control struct {
	ID          string
	Kind        ControlKind
	Label       string
	Emoji       string
	Style       ButtonStyle
	Disabled    bool
	Placeholder string
	Options     []SelectOption
}

// Enabled reports whether the control accepts interaction.
func (c Control) Enabled() bool {
	return !c.Disabled
}

// SelectOption is one entry of a select control. Value is the decimal index
// of the entry in the source list.
type SelectOption struct {
	Label       string
	Value       string
	Description string
}

// View is a full message render: optional text, pages, and ordered controls.
// Controls are laid out in a single row. An empty Controls slice removes every
// control from the message.
type View struct {
	Content  string
	Pages    []Page
	Controls []Control
}

// EnabledControls counts controls that still accept interaction.
func (v View) EnabledControls() int {
	n := 0
	for _, c := range v.Controls {
		if c.Enabled() {
			n++
		}
	}
	return n
}

// WithControlsDisabled returns a copy of v whose controls are all disabled.
func (v View) WithControlsDisabled() View {
	out := v
	out.Controls = make([]Control, len(v.Controls))
	for i, c := range v.Controls {
		c.Disabled = true
		out.Controls[i] = c
	}
	return out
}

// WithoutControls returns a copy of v with every control removed.
func (v View) WithoutControls() View {
	out := v
	out.Controls = []Control{}
	return out
}

// Target addresses a rendered message.
type Target struct {
	ChannelID string
	MessageID string
}

// Event is one component interaction on a rendered message.
type Event struct {
	ID        string
	UserID    string
	Username  string
	ControlID string
	Values    []string
	Target    Target
	Responder Responder
}

// SelectedValue returns the first selected value of a select interaction.
func (e Event) SelectedValue() (string, bool) {
	if len(e.Values) == 0 {
		return "", false
	}
	return e.Values[0], true
}

// Responder answers a single interaction. Exactly one of its methods should
// be called per event.
type Responder interface {
	// Update acknowledges the interaction by replacing the message render.
	Update(ctx context.Context, view View) error
	// Acknowledge acknowledges the interaction without changing the message.
	Acknowledge(ctx context.Context) error
	// Reject answers with a notice visible only to the interacting user.
	Reject(ctx context.Context, content string) error
}

// Transport sends and edits messages on the host.
type Transport interface {
	Send(ctx context.Context, channelID string, view View) (Target, error)
	Edit(ctx context.Context, target Target, view View) error
}
