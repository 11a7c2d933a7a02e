package resolver

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-kicad-wakatime/internal/util"
)

// SettingsFileName is KiCad's common settings file, the one carrying the
// recently-opened file history.
const SettingsFileName = "kicad_common.json"

// KicadSettings locates and reads KiCad's common settings. KiCad keeps one
// settings tree per major version under the platform config root, so
// several kicad_common.json files may exist; the most recently modified
// one wins.
type KicadSettings struct {
	override string // explicit settings file path, skips discovery

	mu            sync.Mutex
	lastParseWarn int64
}

// NewKicadSettings builds a settings reader. An empty override means
// platform discovery; a non-empty one pins the exact file to read.
func NewKicadSettings(override string) *KicadSettings {
	return &KicadSettings{override: override}
}

// ConfigRoot returns the directory KiCad stores configuration under.
// KiCad uses ~/Library/Preferences on macOS rather than Application
// Support, so this cannot delegate to os.UserConfigDir.
func ConfigRoot() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return filepath.Join(home, "Library", "Preferences"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return appData, nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return filepath.Join(home, "AppData", "Roaming"), nil
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg, nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return filepath.Join(home, ".config"), nil
	}
}

// SettingsPath returns the kicad_common.json to read.
func (s *KicadSettings) SettingsPath() (string, error) {
	if s.override != "" {
		return s.override, nil
	}

	root, err := ConfigRoot()
	if err != nil {
		return "", err
	}
	kicadDir := filepath.Join(root, "kicad")

	candidates, err := filepath.Glob(filepath.Join(kicadDir, "*", SettingsFileName))
	if err != nil {
		return "", fmt.Errorf("glob kicad settings: %w", err)
	}
	// KiCad 5.x kept settings directly under kicad/.
	candidates = append(candidates, filepath.Join(kicadDir, SettingsFileName))

	newest := newestOf(candidates)
	if newest == "" {
		return "", fmt.Errorf("no %s under %s", SettingsFileName, kicadDir)
	}
	return newest, nil
}

// RecentFiles returns KiCad's file history, most recent first. A missing
// or unreadable settings file is an error; a settings file without a
// usable file_history yields an empty list.
func (s *KicadSettings) RecentFiles() ([]string, error) {
	path, err := s.SettingsPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	files, err := parseRecentFiles(data)
	if err != nil {
		s.warnParseOnce(path, err)
		return nil, nil
	}
	return files, nil
}

// WatchDirs returns the directories a settings watcher should observe:
// the kicad config root plus each per-version directory under it.
func (s *KicadSettings) WatchDirs() []string {
	if s.override != "" {
		return []string{filepath.Dir(s.override)}
	}

	root, err := ConfigRoot()
	if err != nil {
		return nil
	}
	kicadDir := filepath.Join(root, "kicad")
	dirs := []string{kicadDir}

	entries, err := os.ReadDir(kicadDir)
	if err != nil {
		return dirs
	}
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, filepath.Join(kicadDir, entry.Name()))
		}
	}
	return dirs
}

// warnParseOnce logs a malformed-settings warning once per file version,
// keyed on mtime, so a persistently broken file does not flood the log.
func (s *KicadSettings) warnParseOnce(path string, parseErr error) {
	var mod int64
	if info, err := os.Stat(path); err == nil {
		mod = info.ModTime().UnixNano()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if mod != 0 && mod == s.lastParseWarn {
		return
	}
	s.lastParseWarn = mod
	util.LogWarnf("Malformed KiCad settings %s, treating history as empty: %v", path, parseErr)
}

// newestOf picks the most recently modified existing file among candidates.
func newestOf(candidates []string) string {
	var (
		newest    string
		newestMod int64
	)
	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		if newest == "" || info.ModTime().UnixNano() > newestMod {
			newest = candidate
			newestMod = info.ModTime().UnixNano()
		}
	}
	return newest
}

func parseRecentFiles(data []byte) ([]string, error) {
	var doc struct {
		System struct {
			FileHistory []string `json:"file_history"`
		} `json:"system"`
	}
	if err := sonic.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.System.FileHistory, nil
}

// baseNameOf strips directory and extension: /a/b/board1.kicad_pro
// becomes board1.
func baseNameOf(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
