package policy

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-kicad-wakatime/internal/core/model"
)

var t0 = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func trackedInput(at time.Time) Input {
	return Input{
		Sample: model.WindowSample{
			Title:      "board1 — Schematic Editor",
			CapturedAt: at,
		},
		Window: model.ClassifiedWindow{
			TrackedApp: true,
			Kind:       model.DocumentSchematic,
			BaseName:   "board1",
		},
		Project: model.ResolvedProject{
			Name: "board1",
			Path: "/home/u/boards/board1/board1.kicad_pro",
		},
	}
}

func TestFirstHeartbeat(t *testing.T) {
	p := New(5*time.Minute, 2*time.Minute)

	st, d := p.Evaluate(trackedInput(t0), model.EngineState{})

	assert.Equal(t, StateActiveTracked, d.State)
	require.NotNil(t, d.Heartbeat)
	assert.Equal(t, "/home/u/boards/board1/board1.kicad_pro", d.Heartbeat.Entity)
	assert.Equal(t, "board1", d.Heartbeat.Project)
	assert.Equal(t, t0, d.Heartbeat.Time)
	assert.False(t, d.Heartbeat.IsWrite)
	assert.Equal(t, model.DocumentSchematic, d.Heartbeat.Kind)

	assert.Equal(t, t0, st.LastHeartbeatAt)
	assert.Equal(t, "board1", st.LastProject)
	assert.Equal(t, model.DocumentSchematic, st.LastKind)
}

func TestDuplicateSuppression(t *testing.T) {
	p := New(5*time.Minute, 2*time.Minute)
	st := model.EngineState{}

	var beats []*model.Heartbeat
	offsets := []time.Duration{0, 5 * time.Second, 10 * time.Second, 2 * time.Minute}
	for _, off := range offsets {
		var d Decision
		st, d = p.Evaluate(trackedInput(t0.Add(off)), st)
		if d.Heartbeat != nil {
			beats = append(beats, d.Heartbeat)
		}
	}

	// Same project and kind throughout: the first beat, then nothing
	// until the interval elapses.
	require.Len(t, beats, 2)
	assert.Equal(t, t0, beats[0].Time)
	assert.Equal(t, t0.Add(2*time.Minute), beats[1].Time)
}

func TestThrottledKeepsState(t *testing.T) {
	p := New(5*time.Minute, 2*time.Minute)

	st, _ := p.Evaluate(trackedInput(t0), model.EngineState{})
	before := st

	st, d := p.Evaluate(trackedInput(t0.Add(time.Second)), st)

	assert.Nil(t, d.Heartbeat)
	assert.Equal(t, StateActiveTracked, d.State)
	assert.Equal(t, before, st)
}

func TestProjectChangeEmitsImmediately(t *testing.T) {
	p := New(5*time.Minute, 2*time.Minute)

	st, _ := p.Evaluate(trackedInput(t0), model.EngineState{})

	in := trackedInput(t0.Add(5 * time.Second))
	in.Window.BaseName = "amp"
	in.Project = model.ResolvedProject{Name: "amp", Path: "/home/u/boards/amp/amp.kicad_pro"}

	st, d := p.Evaluate(in, st)

	require.NotNil(t, d.Heartbeat)
	assert.Equal(t, "amp", d.Heartbeat.Project)
	assert.Equal(t, t0.Add(5*time.Second), d.Heartbeat.Time)
	assert.Equal(t, "amp", st.LastProject)
}

func TestKindChangeEmitsImmediately(t *testing.T) {
	p := New(5*time.Minute, 2*time.Minute)

	st, _ := p.Evaluate(trackedInput(t0), model.EngineState{})

	// Same project, user jumps from the schematic to the board.
	in := trackedInput(t0.Add(10 * time.Second))
	in.Window.Kind = model.DocumentPcbLayout

	_, d := p.Evaluate(in, st)

	require.NotNil(t, d.Heartbeat)
	assert.Equal(t, model.DocumentPcbLayout, d.Heartbeat.Kind)
}

func TestIntervalBoundaryEmits(t *testing.T) {
	p := New(5*time.Minute, 2*time.Minute)

	st, _ := p.Evaluate(trackedInput(t0), model.EngineState{})
	_, d := p.Evaluate(trackedInput(t0.Add(2*time.Minute)), st)

	require.NotNil(t, d.Heartbeat)
	assert.Equal(t, "interval elapsed", d.Reason)
}

func TestIdleGate(t *testing.T) {
	p := New(5*time.Minute, 2*time.Minute)

	in := trackedInput(t0)
	in.Sample.SystemIdle = 5 * time.Minute

	st, d := p.Evaluate(in, model.EngineState{})

	assert.Equal(t, StateIdle, d.State)
	assert.Nil(t, d.Heartbeat)
	assert.Equal(t, model.EngineState{}, st)
}

func TestIdleGateBelowThreshold(t *testing.T) {
	p := New(5*time.Minute, 2*time.Minute)

	in := trackedInput(t0)
	in.Sample.SystemIdle = 5*time.Minute - time.Second

	_, d := p.Evaluate(in, model.EngineState{})

	assert.Equal(t, StateActiveTracked, d.State)
	assert.NotNil(t, d.Heartbeat)
}

func TestSuppressedInputs(t *testing.T) {
	p := New(5*time.Minute, 2*time.Minute)

	tests := []struct {
		name  string
		input Input
	}{
		{
			name:  "no active window",
			input: Input{Sample: model.WindowSample{CapturedAt: t0}},
		},
		{
			name: "foreign application",
			input: Input{
				Sample: model.WindowSample{Title: "Mozilla Firefox", CapturedAt: t0},
				Window: model.ClassifiedWindow{Kind: model.DocumentNone},
			},
		},
		{
			name: "kicad without document",
			input: Input{
				Sample: model.WindowSample{Title: "KiCad 8.0", CapturedAt: t0},
				Window: model.ClassifiedWindow{TrackedApp: true, Kind: model.DocumentOther},
			},
		},
		{
			name: "resolution failed",
			input: func() Input {
				in := trackedInput(t0)
				in.Project = model.ResolvedProject{}
				in.ResolveErr = errors.New("not found")
				return in
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, d := p.Evaluate(tt.input, model.EngineState{})

			assert.Equal(t, StateSuppressed, d.State)
			assert.Nil(t, d.Heartbeat)
			assert.Equal(t, model.EngineState{}, st)
		})
	}
}

func TestSuppressionDoesNotResetThrottle(t *testing.T) {
	p := New(5*time.Minute, 2*time.Minute)

	st, _ := p.Evaluate(trackedInput(t0), model.EngineState{})

	// Alt-tab away and back within the interval: no new beat.
	st, d := p.Evaluate(Input{
		Sample: model.WindowSample{Title: "Mozilla Firefox", CapturedAt: t0.Add(30 * time.Second)},
	}, st)
	assert.Nil(t, d.Heartbeat)

	_, d = p.Evaluate(trackedInput(t0.Add(time.Minute)), st)
	assert.Nil(t, d.Heartbeat)
	assert.Equal(t, StateActiveTracked, d.State)
}

func TestWriteFlagFromFileModification(t *testing.T) {
	p := New(5*time.Minute, 2*time.Minute)

	in := trackedInput(t0)
	in.FileModified = true

	_, d := p.Evaluate(in, model.EngineState{})

	require.NotNil(t, d.Heartbeat)
	assert.True(t, d.Heartbeat.IsWrite)
}

func TestUnsavedMarkerDoesNotSetWrite(t *testing.T) {
	p := New(5*time.Minute, 2*time.Minute)

	in := trackedInput(t0)
	in.Window.Unsaved = true

	_, d := p.Evaluate(in, model.EngineState{})

	require.NotNil(t, d.Heartbeat)
	assert.False(t, d.Heartbeat.IsWrite)
}
