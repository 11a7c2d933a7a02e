// Package classifier turns foreground window titles into document
// classifications. It is pure string parsing: KiCad exposes no structured
// IPC for "which file is focused", so the title is all there is, and the
// parse is best-effort by design.
package classifier

import (
	"regexp"
	"strings"

	"github.com/penwyp/go-kicad-wakatime/internal/core/model"
)

// Title fragments that identify a KiCad window across the editors of the
// suite. Matching any of these marks the window as the tracked application
// even when no document name can be extracted.
var kicadMarkers = []string{
	"KiCad",
	"PCB Editor",
	"Eeschema",
	"Schematic Editor",
	"PCBNew",
	"Symbol Editor",
	"Footprint Editor",
}

var (
	// Pre-7.x titles: "board1.kicad_pcb - PCB Editor", "amp.sch [*] - Eeschema".
	// The document file name appears verbatim before a " - " separator,
	// with an optional "[*]" dirty marker in between.
	oldFormat = regexp.MustCompile(`([^\s/\\]+)\.(kicad_pcb|sch|kicad_sch|kicad_pro)(\s+\[\*\])?\s+-\s+`)

	// 7.x+ titles put the document name and the editor name around an
	// em-dash, either order: "board1 — Schematic Editor" or
	// "Schematic Editor — board1". A "*" on the document side marks
	// unsaved changes. Document names containing spaces do not survive
	// this format, which is part of the documented title ambiguity.
	newFormat         = regexp.MustCompile(`^(\*?)([^\s—]+)\s+—\s+(.+)$`)
	newFormatReversed = regexp.MustCompile(`^(.+?)\s+—\s+(\*?)([^\s—]+)$`)
)

// Classify parses a window sample's title. Unrecognized titles yield
// DocumentNone; a KiCad window with no open document yields DocumentOther
// with an empty base name, which is "nothing to report", not an error.
func Classify(sample model.WindowSample) model.ClassifiedWindow {
	title := sample.Title
	if title == "" || !isKicadTitle(title) {
		return model.ClassifiedWindow{Kind: model.DocumentNone}
	}

	if m := oldFormat.FindStringSubmatch(title); m != nil {
		return model.ClassifiedWindow{
			TrackedApp: true,
			Kind:       kindForExtension(m[2]),
			BaseName:   m[1],
			Unsaved:    m[3] != "",
		}
	}

	if m := newFormat.FindStringSubmatch(title); m != nil {
		if kind, ok := editorKind(m[3]); ok {
			return model.ClassifiedWindow{
				TrackedApp: true,
				Kind:       kind,
				BaseName:   m[2],
				Unsaved:    m[1] == "*",
			}
		}
	}

	if m := newFormatReversed.FindStringSubmatch(title); m != nil {
		if kind, ok := editorKind(m[1]); ok {
			return model.ClassifiedWindow{
				TrackedApp: true,
				Kind:       kind,
				BaseName:   m[3],
				Unsaved:    m[2] == "*",
			}
		}
	}

	// KiCad window, no parsable document (project manager with nothing
	// open, dialogs, splash screens).
	return model.ClassifiedWindow{TrackedApp: true, Kind: model.DocumentOther}
}

func isKicadTitle(title string) bool {
	for _, marker := range kicadMarkers {
		if strings.Contains(title, marker) {
			return true
		}
	}
	return false
}

func kindForExtension(ext string) model.DocumentKind {
	switch ext {
	case "kicad_pcb":
		return model.DocumentPcbLayout
	case "sch", "kicad_sch":
		return model.DocumentSchematic
	default:
		return model.DocumentOther
	}
}

// editorKind maps an editor-name segment to a document kind. ok is false
// when the segment names no known editor, which is how the two em-dash
// orders are told apart.
func editorKind(segment string) (model.DocumentKind, bool) {
	switch {
	case strings.Contains(segment, "PCB Editor"), strings.Contains(segment, "PCBNew"):
		return model.DocumentPcbLayout, true
	case strings.Contains(segment, "Schematic Editor"), strings.Contains(segment, "Eeschema"):
		return model.DocumentSchematic, true
	case strings.Contains(segment, "KiCad"),
		strings.Contains(segment, "Symbol Editor"),
		strings.Contains(segment, "Footprint Editor"):
		// Project manager, symbol and footprint editors. Still tracked:
		// time spent in them belongs to the project.
		return model.DocumentOther, true
	}
	return model.DocumentNone, false
}
