// Package uitest provides in-memory doubles for ui.Transport and ui.Responder.
package uitest

import (
	"context"
	"strconv"
	"sync"

	"tunebot/pkg/ui"
)

// Responder records how an interaction was answered.
type Responder struct {
	mu         sync.Mutex
	updates    []ui.View
	acks       int
	rejections []string

	// Err is returned from every call when set.
	Err error
}

// Update implements ui.Responder.
func (r *Responder) Update(_ context.Context, view ui.View) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, view)
	return r.Err
}

// Acknowledge implements ui.Responder.
func (r *Responder) Acknowledge(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.acks++
	return r.Err
}

// Reject implements ui.Responder.
func (r *Responder) Reject(_ context.Context, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejections = append(r.rejections, content)
	return r.Err
}

// Updates returns the views passed to Update.
func (r *Responder) Updates() []ui.View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ui.View(nil), r.updates...)
}

// Acks returns the number of Acknowledge calls.
func (r *Responder) Acks() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.acks
}

// Rejections returns the notices passed to Reject.
func (r *Responder) Rejections() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.rejections...)
}

// Answered reports whether any method was called.
func (r *Responder) Answered() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.updates)+r.acks+len(r.rejections) > 0
}

// Sent is a message created through Transport.Send.
type Sent struct {
	Target ui.Target
	View   ui.View
}

// Edit is one Transport.Edit call.
type Edit struct {
	Target ui.Target
	View   ui.View
}

// Transport is an in-memory ui.Transport.
type Transport struct {
	mu     sync.Mutex
	nextID int
	sent   []Sent
	edits  []Edit

	// SendErr and EditErr are returned from Send and Edit when set.
	SendErr error
	EditErr error
}

// Send implements ui.Transport.
func (t *Transport) Send(_ context.Context, channelID string, view ui.View) (ui.Target, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.SendErr != nil {
		return ui.Target{}, t.SendErr
	}
	t.nextID++
	target := ui.Target{ChannelID: channelID, MessageID: "msg-" + strconv.Itoa(t.nextID)}
	t.sent = append(t.sent, Sent{Target: target, View: view})
	return target, nil
}

// Edit implements ui.Transport.
func (t *Transport) Edit(_ context.Context, target ui.Target, view ui.View) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.edits = append(t.edits, Edit{Target: target, View: view})
	return t.EditErr
}

// Sent returns every sent message.
func (t *Transport) Sent() []Sent {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Sent(nil), t.sent...)
}

// Edits returns every edit attempt, including failed ones.
func (t *Transport) Edits() []Edit {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Edit(nil), t.edits...)
}

// NewEvent builds an event on target with a fresh recording responder.
func NewEvent(target ui.Target, userID, controlID string, values ...string) (ui.Event, *Responder) {
	r := &Responder{}
	return ui.Event{
		ID:        "evt-" + controlID,
		UserID:    userID,
		ControlID: controlID,
		Values:    values,
		Target:    target,
		Responder: r,
	}, r
}
