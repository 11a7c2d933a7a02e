// Package window samples the operating system's foreground window and
// the time since the last user input.
package window

import (
	"context"

	"github.com/penwyp/go-kicad-wakatime/internal/core/model"
	"github.com/penwyp/go-kicad-wakatime/internal/util"
)

// Observer reads window state from the OS. Implementations never return
// errors: a missing helper binary, a denied permission or a timeout all
// degrade to the no-active-window sentinel with a debug log, so one bad
// sample cannot stop the engine.
type Observer interface {
	// Sample captures the foreground window title and the system idle
	// time. An empty Title means no usable foreground window.
	Sample(ctx context.Context) model.WindowSample

	// List enumerates the titles of visible windows, for diagnostics.
	List(ctx context.Context) []string
}

// New returns the observer for the platform this binary was built for.
func New(clock util.Clock) Observer {
	return newPlatformObserver(clock)
}
