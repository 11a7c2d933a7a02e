package resolver

import (
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/penwyp/go-kicad-wakatime/internal/util"
)

// SettingsWatcher surfaces rewrites of kicad_common.json so the resolution
// cache can be dropped ahead of its TTL. KiCad replaces the file on save,
// so create and rename count as changes alongside plain writes.
type SettingsWatcher struct {
	watcher *fsnotify.Watcher
	events  chan string
}

// NewSettingsWatcher watches the given directories for settings changes.
// Directories that do not exist are skipped; a watcher over zero
// directories is valid and simply never fires.
func NewSettingsWatcher(dirs []string) (*SettingsWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	sw := &SettingsWatcher{
		watcher: watcher,
		events:  make(chan string, 16),
	}

	watched := 0
	for _, dir := range dirs {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		if err := sw.watcher.Add(dir); err != nil {
			util.LogDebugf("Cannot watch %s: %v", dir, err)
			continue
		}
		watched++
	}
	util.LogDebugf("Watching %d directories for KiCad settings changes", watched)

	go sw.processEvents()

	return sw, nil
}

func (sw *SettingsWatcher) processEvents() {
	for {
		select {
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != SettingsFileName {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			select {
			case sw.events <- event.Name:
			default:
				// Buffer full while the loop is mid-tick; one queued
				// event already forces the invalidation.
			}

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			util.LogErrorf("Settings watch error: %v", err)
		}
	}
}

// Events delivers the path of each changed settings file.
func (sw *SettingsWatcher) Events() <-chan string {
	return sw.events
}

func (sw *SettingsWatcher) Close() error {
	return sw.watcher.Close()
}
