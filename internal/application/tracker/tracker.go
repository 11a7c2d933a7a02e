// Package tracker runs the background loop that turns foreground-window
// observations into WakaTime heartbeats: sample, classify, resolve the
// project, apply the heartbeat policy, dispatch.
package tracker

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/penwyp/go-kicad-wakatime/internal/config"
	"github.com/penwyp/go-kicad-wakatime/internal/core/classifier"
	"github.com/penwyp/go-kicad-wakatime/internal/core/constants"
	"github.com/penwyp/go-kicad-wakatime/internal/core/model"
	"github.com/penwyp/go-kicad-wakatime/internal/core/policy"
	"github.com/penwyp/go-kicad-wakatime/internal/core/resolver"
	"github.com/penwyp/go-kicad-wakatime/internal/dispatch"
	"github.com/penwyp/go-kicad-wakatime/internal/platform/window"
	"github.com/penwyp/go-kicad-wakatime/internal/util"
)

// Tracker coordinates the tracking pipeline. All mutable state is owned
// by the goroutine running Run; the components it drives are either pure
// or confined to that goroutine.
type Tracker struct {
	config *config.Config

	// Pipeline components
	observer   Sampler
	resolver   ProjectResolver
	dispatcher HeartbeatDispatcher
	policy     *policy.Policy

	// KiCad settings discovery and change monitoring
	settings *resolver.KicadSettings
	watcher  SettingsWatcher

	// Heartbeat bookkeeping, updated only when a beat goes out
	state model.EngineState

	// Write-detection baseline: the last stat of the focused document.
	// Reset whenever a tick has no resolved document, so a stale mtime
	// can never mark a later heartbeat as a write.
	lastSeenPath string
	lastSeen     *util.FileInfo
	statFile     func(string) (*util.FileInfo, error)
}

// New builds a tracker from a validated config.
func New(cfg *config.Config) (*Tracker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	var reporter dispatch.Reporter
	if cfg.DryRun {
		reporter = dispatch.NewDryRunReporter(cfg.APIURL, cfg.PluginID)
	} else {
		cliPath := cfg.CLIPath
		if cliPath == "" {
			located, err := dispatch.LocateCLI()
			if err != nil {
				return nil, err
			}
			cliPath = located
		}
		reporter = dispatch.NewCLIReporter(cliPath, cfg.APIKey, cfg.APIURL, cfg.PluginID)
	}

	settings := resolver.NewKicadSettings(cfg.SettingsPath)

	return &Tracker{
		config:     cfg,
		observer:   window.New(util.SystemClock()),
		resolver:   resolver.New(settings),
		dispatcher: dispatch.New(reporter),
		policy:     policy.New(cfg.IdleThreshold, cfg.HeartbeatInterval),
		settings:   settings,
		statFile:   util.GetFileInfo,
	}, nil
}

// Run drives the tracking loop until ctx is cancelled. It always returns
// nil on cancellation: per-tick failures are logged and absorbed, never
// fatal.
func (t *Tracker) Run(ctx context.Context) error {
	util.LogInfof("Starting %s %s (poll=%s, heartbeat=%s, idle=%s, dry_run=%v)",
		constants.AppName, constants.Version,
		t.config.PollInterval, t.config.HeartbeatInterval,
		t.config.IdleThreshold, t.config.DryRun)

	t.startWatcher()
	defer t.Close()

	ticker := time.NewTicker(t.config.PollInterval)
	defer ticker.Stop()

	// First sample immediately; the ticker covers the rest.
	t.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			util.LogInfo("Shutting down tracker...")
			return nil

		case <-ticker.C:
			t.tick(ctx)

		case path := <-t.watcherEvents():
			t.handleSettingsChange(path)
		}
	}
}

// tick performs one pass of the pipeline.
func (t *Tracker) tick(ctx context.Context) {
	sample := t.observer.Sample(ctx)
	in := policy.Input{
		Sample: sample,
		Window: classifier.Classify(sample),
	}

	if in.Window.HasDocument() {
		project, err := t.resolver.Resolve(in.Window.BaseName, sample.CapturedAt)
		if err != nil {
			in.ResolveErr = err
			t.resetBaseline()
		} else {
			in.Project = project
			in.FileModified = t.observeDocument(documentPath(project, in.Window.Kind))
		}
	} else {
		t.resetBaseline()
	}

	state, decision := t.policy.Evaluate(in, t.state)
	t.state = state

	if decision.Heartbeat == nil {
		util.LogDebugf("Tick: state=%s reason=%s", decision.State, decision.Reason)
		return
	}

	hb := *decision.Heartbeat
	util.LogInfof("Heartbeat: project=%s kind=%s write=%v reason=%s",
		hb.Project, hb.Kind, hb.IsWrite, decision.Reason)

	// A failed dispatch is already logged and classified downstream. The
	// beat is dropped, not retried; the next interval carries the
	// activity instead.
	_ = t.dispatcher.Dispatch(ctx, hb)
}

// observeDocument stats the file behind the focused document and reports
// whether it changed since the previous look at the same path. The
// baseline always advances to the current stat, so one save produces one
// write flag.
func (t *Tracker) observeDocument(path string) bool {
	info, err := t.statFile(path)
	if err != nil {
		t.resetBaseline()
		return false
	}
	modified := t.lastSeenPath == path && info.ModifiedSince(t.lastSeen)
	t.lastSeenPath = path
	t.lastSeen = info
	return modified
}

func (t *Tracker) resetBaseline() {
	t.lastSeenPath = ""
	t.lastSeen = nil
}

// documentPath derives the file the focused editor actually writes.
// Saving a schematic touches board1.kicad_sch next to the project file,
// never the project file itself.
func documentPath(project model.ResolvedProject, kind model.DocumentKind) string {
	dir := filepath.Dir(project.Path)
	switch kind {
	case model.DocumentSchematic:
		return filepath.Join(dir, project.Name+".kicad_sch")
	case model.DocumentPcbLayout:
		return filepath.Join(dir, project.Name+".kicad_pcb")
	default:
		return project.Path
	}
}

// handleSettingsChange reacts to a rewrite of KiCad's settings file.
// KiCad updates its recent-files list on project open, so dropping the
// resolution cache here makes brand-new projects resolvable within one
// tick instead of one TTL.
func (t *Tracker) handleSettingsChange(path string) {
	util.LogDebugf("KiCad settings changed, dropping resolution cache: %s", path)
	t.resolver.Invalidate()
}

// startWatcher begins monitoring KiCad's settings directories. Failure
// disables the watcher and leaves cache invalidation to the TTL.
func (t *Tracker) startWatcher() {
	if t.settings == nil || t.watcher != nil {
		return
	}
	w, err := resolver.NewSettingsWatcher(t.settings.WatchDirs())
	if err != nil {
		util.LogWarnf("Settings watcher disabled, relying on cache TTL: %v", err)
		return
	}
	t.watcher = w
}

// watcherEvents returns the settings event channel, or nil when the
// watcher is disabled. A nil channel blocks forever in the select, which
// is exactly the disabled behavior.
func (t *Tracker) watcherEvents() <-chan string {
	if t.watcher == nil {
		return nil
	}
	return t.watcher.Events()
}

// Close releases the settings watcher. Safe to call more than once.
func (t *Tracker) Close() {
	if t.watcher == nil {
		return
	}
	if err := t.watcher.Close(); err != nil {
		util.LogDebugf("Settings watcher close: %v", err)
	}
	t.watcher = nil
}
