//go:build windows

package window

import (
	"context"
	"sync"
	"syscall"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/penwyp/go-kicad-wakatime/internal/core/model"
	"github.com/penwyp/go-kicad-wakatime/internal/util"
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procGetForegroundWindow = user32.NewProc("GetForegroundWindow")
	procGetWindowTextW      = user32.NewProc("GetWindowTextW")
	procGetLastInputInfo    = user32.NewProc("GetLastInputInfo")
	procIsWindowVisible     = user32.NewProc("IsWindowVisible")
	procEnumWindows         = user32.NewProc("EnumWindows")
	procGetTickCount        = kernel32.NewProc("GetTickCount")
)

type lastInputInfo struct {
	cbSize uint32
	dwTime uint32
}

// windowsObserver talks to user32/kernel32 directly; no helper binaries
// and no timeouts needed, these calls do not block.
type windowsObserver struct {
	clock util.Clock
}

func newPlatformObserver(clock util.Clock) Observer {
	return &windowsObserver{clock: clock}
}

func (o *windowsObserver) Sample(_ context.Context) model.WindowSample {
	sample := model.WindowSample{CapturedAt: o.clock.Now()}

	hwnd, _, _ := procGetForegroundWindow.Call()
	if hwnd == 0 {
		return sample
	}

	sample.Title = windowText(hwnd)
	sample.SystemIdle = systemIdle()
	return sample
}

func windowText(hwnd uintptr) string {
	buf := make([]uint16, 512)
	n, _, _ := procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if n == 0 {
		return ""
	}
	return syscall.UTF16ToString(buf[:n])
}

func systemIdle() time.Duration {
	info := lastInputInfo{cbSize: uint32(unsafe.Sizeof(lastInputInfo{}))}
	ok, _, _ := procGetLastInputInfo.Call(uintptr(unsafe.Pointer(&info)))
	if ok == 0 {
		util.LogDebug("GetLastInputInfo failed")
		return 0
	}
	ticks, _, _ := procGetTickCount.Call()
	// Both counters are 32-bit milliseconds; subtracting in uint32 stays
	// correct across the 49-day tick wrap.
	elapsed := uint32(ticks) - info.dwTime
	return time.Duration(elapsed) * time.Millisecond
}

// EnumWindows needs a C callback. syscall.NewCallback allocations are
// permanent, so one shared callback feeds a locked package-level slice.
var (
	enumMu     sync.Mutex
	enumTitles []string

	enumCallback = syscall.NewCallback(func(hwnd uintptr, _ uintptr) uintptr {
		if visible, _, _ := procIsWindowVisible.Call(hwnd); visible == 0 {
			return 1
		}
		if title := windowText(hwnd); title != "" {
			enumTitles = append(enumTitles, title)
		}
		return 1
	})
)

func (o *windowsObserver) List(_ context.Context) []string {
	enumMu.Lock()
	defer enumMu.Unlock()

	enumTitles = nil
	procEnumWindows.Call(enumCallback, 0)

	titles := enumTitles
	enumTitles = nil
	return titles
}
