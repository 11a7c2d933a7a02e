package tracker

import (
	"context"
	"time"

	"github.com/penwyp/go-kicad-wakatime/internal/core/model"
)

// Sampler is the engine's view of the window observer.
type Sampler interface {
	Sample(ctx context.Context) model.WindowSample
}

// ProjectResolver maps a document base name to an on-disk project.
type ProjectResolver interface {
	Resolve(baseName string, at time.Time) (model.ResolvedProject, error)
	Invalidate()
}

// HeartbeatDispatcher delivers one heartbeat, isolating failures.
type HeartbeatDispatcher interface {
	Dispatch(ctx context.Context, hb model.Heartbeat) error
}

// SettingsWatcher surfaces KiCad settings rewrites.
type SettingsWatcher interface {
	Events() <-chan string
	Close() error
}
