package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"tunebot/pkg/logger"
	"tunebot/pkg/ui"
)

// State is the lifecycle state of a session.
type State int

const (
	StateActive State = iota
	StateEnded
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateEnded:
		return "ended"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// EndReason records which trigger ended a session.
type EndReason string

const (
	// ReasonTerminated means the handler asked to stop.
	ReasonTerminated EndReason = "terminated"
	// ReasonLimit means the session consumed its capacity.
	ReasonLimit EndReason = "limit"
	// ReasonTimeout means the deadline elapsed.
	ReasonTimeout EndReason = "timeout"
	// ReasonError means the handler failed, usually on a render.
	ReasonError EndReason = "error"
	// ReasonShutdown means the collector closed.
	ReasonShutdown EndReason = "shutdown"
)

// Action is what a handler wants after an event.
type Action int

const (
	// Continue keeps the session active.
	Continue Action = iota
	// Terminate ends the session.
	Terminate
)

// Handler reacts to authorized events and renders the terminal view.
type Handler interface {
	// HandleEvent applies one authorized event. It must answer the event
	// through ev.Responder. A non-nil error ends the session.
	HandleEvent(ctx context.Context, ev ui.Event) (Action, error)
	// Finalize renders the view with no actionable controls. It runs exactly
	// once per session, whatever ended it.
	Finalize(ctx context.Context, reason EndReason) error
}

// Funcs adapts a pair of functions to Handler.
type Funcs struct {
	OnEvent func(ctx context.Context, ev ui.Event) (Action, error)
	OnEnd   func(ctx context.Context, reason EndReason) error
}

// HandleEvent implements Handler.
func (f Funcs) HandleEvent(ctx context.Context, ev ui.Event) (Action, error) {
	if f.OnEvent == nil {
		return Continue, nil
	}
	return f.OnEvent(ctx, ev)
}

// Finalize implements Handler.
func (f Funcs) Finalize(ctx context.Context, reason EndReason) error {
	if f.OnEnd == nil {
		return nil
	}
	return f.OnEnd(ctx, reason)
}

// Session is one timed, capacity-bounded subscription to the interactions
// of a single rendered message.
type Session struct {
	id       string
	guard    Guard
	target   ui.Target
	capacity int
	deadline time.Time

	handler  Handler
	router   *Router
	log      *logger.Logger
	notOwner string
	expired  string

	inbox chan ui.Event
	done  chan struct{}
	once  sync.Once

	mu       sync.Mutex
	state    State
	reason   EndReason
	consumed int
	rejected int
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Owner returns the user bound to the session.
func (s *Session) Owner() string { return s.guard.Owner() }

// Target returns the message the session is bound to.
func (s *Session) Target() ui.Target { return s.target }

// Deadline returns the wall-clock time at which the session times out.
func (s *Session) Deadline() time.Time { return s.deadline }

// Capacity returns the event limit; zero means unbounded.
func (s *Session) Capacity() int { return s.capacity }

// Done is closed after the session finalized.
func (s *Session) Done() <-chan struct{} { return s.done }

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Reason returns why the session ended, or "" while active.
func (s *Session) Reason() EndReason {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reason
}

// Consumed returns the number of authorized events processed.
func (s *Session) Consumed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.consumed
}

// Rejected returns the number of events refused by the guard.
func (s *Session) Rejected() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rejected
}

// Wait blocks until the session finalized or ctx is done.
func (s *Session) Wait(ctx context.Context) (EndReason, error) {
	select {
	case <-s.done:
		return s.Reason(), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// deliver queues ev without blocking. The state check and the send happen
// under one lock so nothing slips in after the final drain.
func (s *Session) deliver(ev ui.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateEnded {
		return ErrSessionEnded
	}
	select {
	case s.inbox <- ev:
		return nil
	default:
		return ErrInboxFull
	}
}

func (s *Session) run(ctx context.Context) {
	timer := time.NewTimer(time.Until(s.deadline))
	defer timer.Stop()

	for {
		select {
		case ev := <-s.inbox:
			if reason, ended := s.consume(ctx, ev); ended {
				s.end(ctx, reason)
				return
			}
		case <-timer.C:
			if reason, ended := s.consumePending(ctx); ended {
				s.end(ctx, reason)
				return
			}
			s.end(ctx, ReasonTimeout)
			return
		case <-ctx.Done():
			s.end(ctx, ReasonShutdown)
			return
		}
	}
}

// consumePending processes events that were already queued when the
// deadline fired.
func (s *Session) consumePending(ctx context.Context) (EndReason, bool) {
	for {
		select {
		case ev := <-s.inbox:
			if reason, ended := s.consume(ctx, ev); ended {
				return reason, true
			}
		default:
			return "", false
		}
	}
}

func (s *Session) consume(ctx context.Context, ev ui.Event) (reason EndReason, ended bool) {
	responder := responderOrNop(ev.Responder)
	ev.Responder = responder

	if !s.guard.Allows(ev.UserID) {
		s.mu.Lock()
		s.rejected++
		s.mu.Unlock()

		s.log.Debug("Rejected interaction from non-owner",
			zap.String("user_id", ev.UserID),
			zap.String("control_id", ev.ControlID))
		if err := responder.Reject(ctx, s.notOwner); err != nil {
			s.log.Warn("Failed to send rejection notice", zap.Error(err))
		}
		return "", false
	}

	s.mu.Lock()
	s.consumed++
	consumed := s.consumed
	s.mu.Unlock()

	action, err := s.handle(ctx, ev)
	if err != nil {
		s.log.Warn("Session handler failed",
			zap.String("control_id", ev.ControlID),
			zap.Error(err))
		return ReasonError, true
	}
	if action == Terminate {
		return ReasonTerminated, true
	}
	if s.capacity > 0 && consumed >= s.capacity {
		return ReasonLimit, true
	}
	return "", false
}

func (s *Session) handle(ctx context.Context, ev ui.Event) (action Action, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return s.handler.HandleEvent(ctx, ev)
}

// end moves the session to Ended and renders the teardown. Only the first
// call has any effect.
func (s *Session) end(ctx context.Context, reason EndReason) {
	s.once.Do(func() {
		s.mu.Lock()
		s.state = StateEnded
		s.reason = reason
		consumed := s.consumed
		s.mu.Unlock()

		s.router.detach(s)

		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finalizeTimeout)
		defer cancel()

		if err := s.finalize(fctx, reason); err != nil {
			s.log.Warn("Final render failed", zap.String("reason", string(reason)), zap.Error(err))
		}
		s.expireQueued(fctx)

		s.log.Debug("Session ended",
			zap.String("reason", string(reason)),
			zap.Int("consumed", consumed))
		close(s.done)
	})
}

func (s *Session) finalize(ctx context.Context, reason EndReason) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("finalize panic: %v", r)
		}
	}()
	return s.handler.Finalize(ctx, reason)
}

// expireQueued answers events that were queued but never processed.
func (s *Session) expireQueued(ctx context.Context) {
	for {
		select {
		case ev := <-s.inbox:
			if err := responderOrNop(ev.Responder).Reject(ctx, s.expired); err != nil {
				s.log.Debug("Failed to answer expired interaction", zap.Error(err))
			}
		default:
			return
		}
	}
}

type nopResponder struct{}

func (nopResponder) Update(context.Context, ui.View) error { return nil }
func (nopResponder) Acknowledge(context.Context) error     { return nil }
func (nopResponder) Reject(context.Context, string) error  { return nil }

func responderOrNop(r ui.Responder) ui.Responder {
	if r == nil {
		return nopResponder{}
	}
	return r
}
