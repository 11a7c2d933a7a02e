package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-kicad-wakatime/internal/core/model"
)

func sampleHeartbeat() model.Heartbeat {
	return model.Heartbeat{
		Entity:  "/home/u/boards/board1/board1.kicad_pro",
		Project: "board1",
		Time:    time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC),
		Kind:    model.DocumentSchematic,
	}
}

// blockingReporter waits for the context to expire.
type blockingReporter struct{}

func (blockingReporter) Report(ctx context.Context, _ model.Heartbeat) error {
	<-ctx.Done()
	return ctx.Err()
}

// failingReporter fails immediately with a fixed error.
type failingReporter struct{ err error }

func (f failingReporter) Report(context.Context, model.Heartbeat) error {
	return f.err
}

// recordingReporter remembers what it was asked to send.
type recordingReporter struct {
	beats []model.Heartbeat
}

func (r *recordingReporter) Report(_ context.Context, hb model.Heartbeat) error {
	r.beats = append(r.beats, hb)
	return nil
}

func TestDispatchSuccess(t *testing.T) {
	reporter := &recordingReporter{}
	d := New(reporter)

	err := d.Dispatch(context.Background(), sampleHeartbeat())

	require.NoError(t, err)
	require.Len(t, reporter.beats, 1)
	assert.Equal(t, "board1", reporter.beats[0].Project)
}

func TestDispatchTimeout(t *testing.T) {
	d := &Dispatcher{reporter: blockingReporter{}, timeout: 20 * time.Millisecond}

	err := d.Dispatch(context.Background(), sampleHeartbeat())

	assert.True(t, errors.Is(err, ErrReportTimeout))
}

func TestDispatchReporterFailure(t *testing.T) {
	d := New(failingReporter{err: errors.New("exit status 102")})

	err := d.Dispatch(context.Background(), sampleHeartbeat())

	assert.True(t, errors.Is(err, ErrReporterFailed))
	assert.Contains(t, err.Error(), "exit status 102")
}

func TestCLIArgs(t *testing.T) {
	hb := sampleHeartbeat()

	args := cliArgs(hb, "secret", "", "go-kicad-wakatime/0.1.0")

	assert.Equal(t, []string{
		"--entity", "/home/u/boards/board1/board1.kicad_pro",
		"--alternate-project", "board1",
		"--time", "1741942800.000000",
		"--plugin", "go-kicad-wakatime/0.1.0",
		"--language", "KiCad",
		"--key", "secret",
	}, args)
}

func TestCLIArgsWrite(t *testing.T) {
	hb := sampleHeartbeat()
	hb.IsWrite = true

	args := cliArgs(hb, "secret", "", "go-kicad-wakatime/0.1.0")

	assert.Contains(t, args, "--write")
}

func TestCLIArgsCustomAPIURL(t *testing.T) {
	args := cliArgs(sampleHeartbeat(), "secret", "https://waka.example.com/api", "p")

	require.Contains(t, args, "--api-url")
	assert.Equal(t, "https://waka.example.com/api", args[len(args)-1])
}

func TestCLIArgsDefaultAPIURLOmitted(t *testing.T) {
	args := cliArgs(sampleHeartbeat(), "secret", "https://api.wakatime.com/api/v1", "p")

	assert.NotContains(t, args, "--api-url")
}

func TestCLITimestamp(t *testing.T) {
	ts := time.Unix(1736899200, 123456789)
	assert.Equal(t, "1736899200.123456", cliTimestamp(ts))
}

func TestDryRunReporterNeverFails(t *testing.T) {
	r := NewDryRunReporter("", "p")
	assert.NoError(t, r.Report(context.Background(), sampleHeartbeat()))
}
