package dispatch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/penwyp/go-kicad-wakatime/internal/core/constants"
	"github.com/penwyp/go-kicad-wakatime/internal/core/model"
	"github.com/penwyp/go-kicad-wakatime/internal/util"
)

// Reporter delivers a single heartbeat. Implementations must honor the
// context deadline.
type Reporter interface {
	Report(ctx context.Context, hb model.Heartbeat) error
}

// CLIReporter sends heartbeats by invoking wakatime-cli, the same
// transport every official wakatime plugin uses. The CLI owns the wire
// format, retries and offline queueing.
type CLIReporter struct {
	cliPath  string
	apiKey   string
	apiURL   string
	pluginID string
}

func NewCLIReporter(cliPath, apiKey, apiURL, pluginID string) *CLIReporter {
	return &CLIReporter{
		cliPath:  cliPath,
		apiKey:   apiKey,
		apiURL:   apiURL,
		pluginID: pluginID,
	}
}

func (r *CLIReporter) Report(ctx context.Context, hb model.Heartbeat) error {
	args := cliArgs(hb, r.apiKey, r.apiURL, r.pluginID)

	cmd := exec.CommandContext(ctx, r.cliPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w", msg, err)
		}
		return err
	}
	return nil
}

// DryRunReporter logs the exact invocation instead of executing it, with
// the api key masked.
type DryRunReporter struct {
	apiURL   string
	pluginID string
}

func NewDryRunReporter(apiURL, pluginID string) *DryRunReporter {
	return &DryRunReporter{apiURL: apiURL, pluginID: pluginID}
}

func (r *DryRunReporter) Report(_ context.Context, hb model.Heartbeat) error {
	args := cliArgs(hb, "****", r.apiURL, r.pluginID)
	util.LogInfof("Dry run: wakatime-cli %s", strings.Join(args, " "))
	return nil
}

// cliArgs builds the wakatime-cli argument list for one heartbeat. The
// entity is the project file; --alternate-project keeps the dashboard
// name stable even if wakatime cannot infer one from the path.
func cliArgs(hb model.Heartbeat, apiKey, apiURL, pluginID string) []string {
	args := []string{
		"--entity", hb.Entity,
		"--alternate-project", hb.Project,
		"--time", cliTimestamp(hb.Time),
	}
	if hb.IsWrite {
		args = append(args, "--write")
	}
	args = append(args,
		"--plugin", pluginID,
		"--language", constants.HeartbeatLanguage,
		"--key", apiKey,
	)
	if apiURL != "" && apiURL != constants.DefaultAPIURL {
		args = append(args, "--api-url", apiURL)
	}
	return args
}

// cliTimestamp renders a time as fractional unix seconds without going
// through float64, which cannot hold nanosecond epochs exactly.
func cliTimestamp(t time.Time) string {
	return fmt.Sprintf("%d.%06d", t.Unix(), t.Nanosecond()/1000)
}

// LocateCLI finds wakatime-cli the way the official plugins install it:
// under ~/.wakatime, falling back to PATH.
func LocateCLI() (string, error) {
	if home, err := os.UserHomeDir(); err == nil {
		matches, _ := filepath.Glob(filepath.Join(home, ".wakatime", "wakatime-cli*"))
		for _, match := range matches {
			if info, err := os.Stat(match); err == nil && !info.IsDir() {
				return match, nil
			}
		}
	}
	if path, err := exec.LookPath("wakatime-cli"); err == nil {
		return path, nil
	}
	return "", errors.New("wakatime-cli not found in ~/.wakatime or PATH")
}
