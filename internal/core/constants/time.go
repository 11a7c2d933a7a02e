package constants

import "time"

const (
	// Sampling cadence of the engine loop
	DefaultPollInterval = 5 * time.Second

	// Minimum gap between heartbeats for an unchanged project/editor
	DefaultHeartbeatInterval = 2 * time.Minute

	// Continuous absence of input after which activity is not reported
	DefaultIdleThreshold = 5 * time.Minute

	// Upper bounds for the two blocking operations of a tick
	ObserveTimeout  = 3 * time.Second
	DispatchTimeout = 10 * time.Second

	// Project resolution cache
	ResolutionTTL     = 5 * time.Minute
	MaxCachedProjects = 16
)
