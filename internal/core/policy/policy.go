// Package policy decides when an observed window sample becomes a
// heartbeat. It is pure: all decisions are keyed off the sample's capture
// time, so the whole state machine is testable without timers.
package policy

import (
	"fmt"
	"time"

	"github.com/penwyp/go-kicad-wakatime/internal/core/model"
)

// State labels the engine's position after a tick, for logs and
// diagnostics.
type State string

const (
	// StateIdle means the user has not produced input for at least the
	// idle threshold; nothing is reported.
	StateIdle State = "idle"

	// StateActiveTracked means a KiCad document is focused and resolved;
	// a heartbeat was emitted or throttled.
	StateActiveTracked State = "active"

	// StateSuppressed means no reportable activity this tick: no window,
	// a foreign application, a document-less KiCad window, or a failed
	// project resolution.
	StateSuppressed State = "suppressed"
)

// Input is everything a single tick learned about the world.
type Input struct {
	Sample model.WindowSample
	Window model.ClassifiedWindow

	// Project and ResolveErr are only meaningful when Window.HasDocument.
	Project    model.ResolvedProject
	ResolveErr error

	// FileModified reports that the resolved project file's modification
	// time advanced since the previous tick. This is the only source of
	// the heartbeat write flag; the title's unsaved marker never is.
	FileModified bool
}

// Decision is the outcome of one tick. Heartbeat is nil unless a beat
// should be dispatched. Reason feeds debug logs only.
type Decision struct {
	State     State
	Heartbeat *model.Heartbeat
	Reason    string
}

// Policy applies the idle gate and duplicate suppression.
type Policy struct {
	idleThreshold     time.Duration
	heartbeatInterval time.Duration
}

func New(idleThreshold, heartbeatInterval time.Duration) *Policy {
	return &Policy{
		idleThreshold:     idleThreshold,
		heartbeatInterval: heartbeatInterval,
	}
}

// Evaluate folds one tick's input into the engine state. The returned
// state carries updated heartbeat bookkeeping if and only if the decision
// carries a heartbeat; the update is part of the same step, so a beat can
// never be double-counted by a later tick.
func (p *Policy) Evaluate(in Input, st model.EngineState) (model.EngineState, Decision) {
	if in.Sample.SystemIdle >= p.idleThreshold {
		return st, Decision{
			State:  StateIdle,
			Reason: fmt.Sprintf("system idle for %s", in.Sample.SystemIdle.Round(time.Second)),
		}
	}

	if in.Sample.Empty() {
		return st, Decision{State: StateSuppressed, Reason: "no active window"}
	}
	if !in.Window.TrackedApp {
		return st, Decision{State: StateSuppressed, Reason: "foreground window is not kicad"}
	}
	if !in.Window.HasDocument() {
		return st, Decision{State: StateSuppressed, Reason: "kicad focused with no document"}
	}
	if in.ResolveErr != nil {
		return st, Decision{
			State:  StateSuppressed,
			Reason: fmt.Sprintf("resolution failed: %v", in.ResolveErr),
		}
	}

	reason := p.emitReason(in, st)
	if reason == "" {
		return st, Decision{State: StateActiveTracked, Reason: "throttled"}
	}

	hb := &model.Heartbeat{
		Entity:  in.Project.Path,
		Project: in.Project.Name,
		Time:    in.Sample.CapturedAt,
		IsWrite: in.FileModified,
		Kind:    in.Window.Kind,
	}

	st.LastHeartbeatAt = in.Sample.CapturedAt
	st.LastProject = in.Project.Name
	st.LastKind = in.Window.Kind

	return st, Decision{State: StateActiveTracked, Heartbeat: hb, Reason: reason}
}

// emitReason returns why a beat should go out now, or "" to throttle.
func (p *Policy) emitReason(in Input, st model.EngineState) string {
	switch {
	case !st.Reported():
		return "first heartbeat"
	case in.Project.Name != st.LastProject:
		return "project changed"
	case in.Window.Kind != st.LastKind:
		return "document kind changed"
	case in.Sample.CapturedAt.Sub(st.LastHeartbeatAt) >= p.heartbeatInterval:
		return "interval elapsed"
	default:
		return ""
	}
}
