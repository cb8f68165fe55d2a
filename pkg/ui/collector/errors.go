package collector

import "errors"

var (
	// ErrNoSession is returned when no live session owns the target message.
	ErrNoSession = errors.New("no session for message")
	// ErrSessionEnded is returned when an event reaches a session that already ended.
	ErrSessionEnded = errors.New("session ended")
	// ErrInboxFull is returned when a session cannot buffer another event.
	ErrInboxFull = errors.New("session inbox full")
	// ErrDuplicateSession is returned when a message already has a live session.
	ErrDuplicateSession = errors.New("message already has a session")
	// ErrClosed is returned by Start after the collector shut down.
	ErrClosed = errors.New("collector closed")
)
