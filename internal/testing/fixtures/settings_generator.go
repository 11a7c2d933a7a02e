// Package fixtures generates KiCad configuration files and window titles
// for tests.
package fixtures

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
)

// KicadCommon mirrors the slice of kicad_common.json the tracker reads.
type KicadCommon struct {
	System SystemSection `json:"system"`
}

// SystemSection holds the recently-opened file history, most recent first.
type SystemSection struct {
	FileHistory []string `json:"file_history"`
}

// SettingsGenerator writes KiCad settings trees under a base directory.
type SettingsGenerator struct {
	baseDir string
}

// NewSettingsGenerator creates a generator rooted at baseDir, which plays
// the role of the platform config root.
func NewSettingsGenerator(baseDir string) *SettingsGenerator {
	return &SettingsGenerator{baseDir: baseDir}
}

// WriteCommon writes a kicad_common.json for the given KiCad version
// ("8.0", "9.0", or "" for the unversioned pre-6 layout) listing history,
// most recent first. It returns the settings file path.
func (g *SettingsGenerator) WriteCommon(version string, history ...string) (string, error) {
	dir := filepath.Join(g.baseDir, "kicad")
	if version != "" {
		dir = filepath.Join(dir, version)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	doc := KicadCommon{System: SystemSection{FileHistory: history}}
	data, err := sonic.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, "kicad_common.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// ProjectHistoryEntry builds the absolute project-file path KiCad would
// record for a project named name under root.
func ProjectHistoryEntry(root, name string) string {
	return filepath.Join(root, name, name+".kicad_pro")
}

// Window title builders for the post-7.x format.

func SchematicTitle(name string) string {
	return fmt.Sprintf("%s — Schematic Editor", name)
}

func PcbTitle(name string) string {
	return fmt.Sprintf("%s — PCB Editor", name)
}

func UnsavedSchematicTitle(name string) string {
	return fmt.Sprintf("*%s — Schematic Editor", name)
}

func ProjectManagerTitle(name string) string {
	return fmt.Sprintf("%s — KiCad 8.0", name)
}
