// Package collector runs short-lived interactive sessions bound to one
// rendered message. A session accepts events only from its owner, ends on a
// terminal action, on reaching its capacity, or on its deadline, and always
// renders a teardown exactly once.
package collector

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tunebot/pkg/logger"
	"tunebot/pkg/ui"
)

// DefaultTimeout is used when Options.Timeout is zero.
const DefaultTimeout = 60 * time.Second

// Unlimited disables the capacity bound.
const Unlimited = 0

const (
	inboxSize       = 32
	finalizeTimeout = 10 * time.Second
)

// Options configure a session.
type Options struct {
	// Owner is the only user allowed to drive the session.
	Owner string
	// Target is the rendered message the session listens on.
	Target ui.Target
	// Timeout is measured from Start and is never extended.
	Timeout time.Duration
	// Capacity is the number of authorized events after which the session
	// ends on its own. Unlimited (zero) means only the deadline bounds it.
	Capacity int
}

// Collector starts sessions and tears them all down on Close.
type Collector struct {
	log    *logger.Logger
	router *Router
	theme  ui.Theme

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// New creates a collector that registers sessions on router. The theme
// supplies the notices sent to non-owners and to late interactions.
func New(log *logger.Logger, router *Router, theme ui.Theme) *Collector {
	ctx, cancel := context.WithCancel(context.Background())

	return &Collector{
		log:    log.Named("collector"),
		router: router,
		theme:  theme,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Router returns the router sessions are registered on.
func (c *Collector) Router() *Router {
	return c.router
}

// Start opens a session for opts and begins consuming its events.
func (c *Collector) Start(opts Options, h Handler) (*Session, error) {
	if h == nil {
		return nil, errors.New("handler is required")
	}
	if opts.Owner == "" {
		return nil, errors.New("session owner is required")
	}
	if opts.Target.MessageID == "" {
		return nil, errors.New("session target message is required")
	}
	if opts.Capacity < 0 {
		return nil, errors.New("session capacity must be non-negative")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	id := uuid.NewString()
	s := &Session{
		id:       id,
		guard:    OwnerOnly(opts.Owner),
		target:   opts.Target,
		capacity: opts.Capacity,
		deadline: time.Now().Add(opts.Timeout),
		handler:  h,
		router:   c.router,
		log: c.log.WithFields(
			zap.String("session_id", id),
			zap.String("message_id", opts.Target.MessageID),
		),
		notOwner: c.theme.NotOwner,
		expired:  c.theme.Expired,
		inbox:    make(chan ui.Event, inboxSize),
		done:     make(chan struct{}),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}
	if err := c.router.attach(s); err != nil {
		return nil, err
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		s.run(c.ctx)
	}()

	s.log.Debug("Session started",
		zap.String("owner", opts.Owner),
		zap.Int("capacity", opts.Capacity),
		zap.Duration("timeout", opts.Timeout))

	return s, nil
}

// Close ends every live session with ReasonShutdown and waits for their
// teardown renders.
func (c *Collector) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}
