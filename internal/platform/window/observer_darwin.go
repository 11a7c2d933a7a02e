//go:build darwin

package window

import (
	"context"

	"github.com/penwyp/go-kicad-wakatime/internal/core/model"
	"github.com/penwyp/go-kicad-wakatime/internal/util"
)

// Requires the Accessibility permission; without it System Events returns
// an error and the sample degrades to the front process name or nothing.
const frontWindowScript = `tell application "System Events"
	set frontApp to first application process whose frontmost is true
	try
		return name of front window of frontApp
	on error
		return name of frontApp
	end try
end tell`

const listWindowsScript = `set out to ""
tell application "System Events"
	repeat with proc in (every application process whose visible is true)
		repeat with w in (every window of proc)
			set out to out & (name of w) & linefeed
		end repeat
	end repeat
end tell
return out`

// darwinObserver drives System Events through osascript and reads the
// HID idle counter from the IO registry.
type darwinObserver struct {
	clock util.Clock
}

func newPlatformObserver(clock util.Clock) Observer {
	return &darwinObserver{clock: clock}
}

func (o *darwinObserver) Sample(ctx context.Context) model.WindowSample {
	sample := model.WindowSample{CapturedAt: o.clock.Now()}

	title, err := runCommand(ctx, "osascript", "-e", frontWindowScript)
	if err != nil {
		util.LogDebugf("osascript sample failed: %v", err)
		return sample
	}
	sample.Title = title

	output, err := runCommand(ctx, "ioreg", "-c", "IOHIDSystem")
	if err != nil {
		util.LogDebugf("ioreg failed: %v", err)
		return sample
	}
	if idle, ok := parseHIDIdleTime(output); ok {
		sample.SystemIdle = idle
	}

	return sample
}

func (o *darwinObserver) List(ctx context.Context) []string {
	output, err := runCommand(ctx, "osascript", "-e", listWindowsScript)
	if err != nil {
		util.LogDebugf("osascript list failed: %v", err)
		return nil
	}
	return parseLines(output)
}
