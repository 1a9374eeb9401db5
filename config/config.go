// Package config holds the tunable parameters of an engine.Worker's
// run loop, modeled on the teacher's utils.Config/DefaultConfig/
// FastGameConfig trio.
package config

import "time"

// EngineConfig controls an engine.Worker's polling cadence and inbox
// capacity.
type EngineConfig struct {
	// PollInterval bounds how long Queue.Pop blocks on an empty inbox
	// before the worker loop re-checks for a tick (spec.md's
	// generalization of randomengine.cpp's hardcoded
	// eevent_queue_pop(..., 1000) poll).
	PollInterval time.Duration

	// HeartbeatBudget is the longest a worker may go without
	// responding to an EventHeartbeat before a host should consider it
	// wedged.
	HeartbeatBudget time.Duration

	// InboxSize is an advisory capacity hint for hosts that want to
	// pre-size their own queues; engine.Queue itself is unbounded.
	InboxSize int
}

// DefaultEngineConfig returns the configuration a production host
// should use.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		PollInterval:    1 * time.Second,
		HeartbeatBudget: 5 * time.Second,
		InboxSize:       64,
	}
}

// FastEngineConfig returns a configuration with a short poll interval,
// the way FastGameConfig speeds up the teacher's own test suite.
func FastEngineConfig() EngineConfig {
	cfg := DefaultEngineConfig()
	cfg.PollInterval = 10 * time.Millisecond
	cfg.HeartbeatBudget = 100 * time.Millisecond
	cfg.InboxSize = 16
	return cfg
}
