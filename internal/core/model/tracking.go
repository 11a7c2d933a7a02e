package model

import "time"

// ResolvedProject is the on-disk identity of a project named by a window
// title, recovered from KiCad's recently-opened history.
type ResolvedProject struct {
	Name       string
	Path       string
	ResolvedAt time.Time
}

// Heartbeat is a single activity report. It is only ever constructed from a
// ResolvedProject: the engine never reports a project it could not place on
// disk.
type Heartbeat struct {
	Entity  string
	Project string
	Time    time.Time
	IsWrite bool
	Kind    DocumentKind
}

// EngineState is the per-run bookkeeping the policy reads and writes. It is
// owned by the engine loop goroutine, passed by value into each evaluation,
// and never persisted: a restart costs at most one tracking gap.
type EngineState struct {
	LastHeartbeatAt time.Time
	LastProject     string
	LastKind        DocumentKind
}

// Reported returns true once at least one heartbeat has been sent this run.
func (s EngineState) Reported() bool {
	return !s.LastHeartbeatAt.IsZero()
}
