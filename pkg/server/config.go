package server

import (
	"time"

	"golang.org/x/time/rate"
)

// SessionConfig holds configuration for individual sessions.
type SessionConfig struct {
	// ReadTimeout is the maximum time to wait for a message from the client.
	// Pongs extend it. Default: 60 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait when sending a message.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// IdleTimeout is the time after which a session without client frames
	// is closed. Default: 10 minutes.
	IdleTimeout time.Duration

	// HeartbeatInterval is the time between heartbeat pings.
	// Default: 30 seconds.
	HeartbeatInterval time.Duration

	// MaxMessageSize is the maximum size of an incoming WebSocket message.
	// Default: 4KB.
	MaxMessageSize int64

	// MaxEventQueue is the size of the event channel buffer.
	// Default: 64.
	MaxEventQueue int

	// EventsPerSecond is the sustained rate of input and submit frames a
	// client may send. Zero disables the limit. Default: 20.
	EventsPerSecond float64

	// EventBurst is the number of frames allowed above the sustained rate.
	// Default: 40.
	EventBurst int
}

// DefaultSessionConfig returns a SessionConfig with sensible defaults.
func DefaultSessionConfig() *SessionConfig {
	return &SessionConfig{
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       10 * time.Minute,
		HeartbeatInterval: 30 * time.Second,
		MaxMessageSize:    4 * 1024,
		MaxEventQueue:     64,
		EventsPerSecond:   20,
		EventBurst:        40,
	}
}

// Clone returns a copy of the SessionConfig.
func (c *SessionConfig) Clone() *SessionConfig {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// withDefaults fills zero fields from DefaultSessionConfig.
func (c *SessionConfig) withDefaults() *SessionConfig {
	d := DefaultSessionConfig()
	if c == nil {
		return d
	}
	out := c.Clone()
	if out.ReadTimeout <= 0 {
		out.ReadTimeout = d.ReadTimeout
	}
	if out.WriteTimeout <= 0 {
		out.WriteTimeout = d.WriteTimeout
	}
	if out.IdleTimeout <= 0 {
		out.IdleTimeout = d.IdleTimeout
	}
	if out.HeartbeatInterval <= 0 {
		out.HeartbeatInterval = d.HeartbeatInterval
	}
	if out.MaxMessageSize <= 0 {
		out.MaxMessageSize = d.MaxMessageSize
	}
	if out.MaxEventQueue <= 0 {
		out.MaxEventQueue = d.MaxEventQueue
	}
	if out.EventBurst <= 0 {
		out.EventBurst = d.EventBurst
	}
	return out
}

// newLimiter builds the per-session limiter. A nil limiter allows everything.
func (c *SessionConfig) newLimiter() *rate.Limiter {
	if c.EventsPerSecond <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(c.EventsPerSecond), c.EventBurst)
}

// SessionLimits holds server-wide limits.
type SessionLimits struct {
	// MaxSessions is the maximum number of concurrent sessions.
	// Zero means unlimited. Default: 10,000.
	MaxSessions int
}

// DefaultSessionLimits returns SessionLimits with sensible defaults.
func DefaultSessionLimits() *SessionLimits {
	return &SessionLimits{
		MaxSessions: 10_000,
	}
}
