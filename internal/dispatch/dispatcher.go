// Package dispatch sends heartbeats to wakatime and isolates the engine
// loop from every way that can fail: a dropped heartbeat is logged and
// forgotten, never retried, never fatal.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/penwyp/go-kicad-wakatime/internal/core/constants"
	"github.com/penwyp/go-kicad-wakatime/internal/core/model"
	"github.com/penwyp/go-kicad-wakatime/internal/util"
)

var (
	// ErrReportTimeout means the reporter did not finish within the
	// dispatch timeout and was cut off.
	ErrReportTimeout = errors.New("heartbeat report timed out")

	// ErrReporterFailed means the reporter ran and failed, typically a
	// non-zero wakatime-cli exit.
	ErrReporterFailed = errors.New("heartbeat reporter failed")
)

// Dispatcher bounds and classifies reporter calls.
type Dispatcher struct {
	reporter Reporter
	timeout  time.Duration
}

func New(reporter Reporter) *Dispatcher {
	return &Dispatcher{
		reporter: reporter,
		timeout:  constants.DispatchTimeout,
	}
}

// Dispatch sends one heartbeat. The returned error is ErrReportTimeout or
// ErrReporterFailed; callers drop the beat either way and keep running.
func (d *Dispatcher) Dispatch(ctx context.Context, hb model.Heartbeat) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	err := d.reporter.Report(ctx, hb)
	if err == nil {
		util.LogDebugf("Heartbeat sent: project=%s entity=%s write=%t took=%s",
			hb.Project, hb.Entity, hb.IsWrite, time.Since(start).Round(time.Millisecond))
		return nil
	}

	var classified error
	if ctx.Err() == context.DeadlineExceeded || errors.Is(err, context.DeadlineExceeded) {
		classified = fmt.Errorf("%w after %s", ErrReportTimeout, d.timeout)
	} else {
		classified = fmt.Errorf("%w: %v", ErrReporterFailed, err)
	}

	util.LogErrorf("Heartbeat dropped: project=%s entity=%s time=%s: %v",
		hb.Project, hb.Entity, hb.Time.Format(time.RFC3339), classified)
	return classified
}
