//go:build linux

package window

import (
	"context"

	"github.com/penwyp/go-kicad-wakatime/internal/core/model"
	"github.com/penwyp/go-kicad-wakatime/internal/util"
)

// linuxObserver shells out to the standard X11 helpers: xdotool for the
// foreground title, xprintidle for idle time, wmctrl for enumeration.
type linuxObserver struct {
	clock util.Clock
}

func newPlatformObserver(clock util.Clock) Observer {
	return &linuxObserver{clock: clock}
}

func (o *linuxObserver) Sample(ctx context.Context) model.WindowSample {
	sample := model.WindowSample{CapturedAt: o.clock.Now()}

	title, err := runCommand(ctx, "xdotool", "getactivewindow", "getwindowname")
	if err != nil {
		util.LogDebugf("xdotool sample failed: %v", err)
		return sample
	}
	sample.Title = title

	idleRaw, err := runCommand(ctx, "xprintidle")
	if err != nil {
		util.LogDebugf("xprintidle failed: %v", err)
		return sample
	}
	if idle, err := parseIdleMillis(idleRaw); err == nil {
		sample.SystemIdle = idle
	}

	return sample
}

func (o *linuxObserver) List(ctx context.Context) []string {
	output, err := runCommand(ctx, "wmctrl", "-l")
	if err != nil {
		util.LogDebugf("wmctrl failed: %v", err)
		return nil
	}
	return parseWmctrlList(output)
}
