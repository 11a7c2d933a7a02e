package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/penwyp/go-kicad-wakatime/internal/core/model"
)

func TestClassifyNewFormat(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected model.ClassifiedWindow
	}{
		{
			name:  "schematic editor",
			title: "board1 — Schematic Editor",
			expected: model.ClassifiedWindow{
				TrackedApp: true,
				Kind:       model.DocumentSchematic,
				BaseName:   "board1",
			},
		},
		{
			name:  "pcb editor",
			title: "board1 — PCB Editor",
			expected: model.ClassifiedWindow{
				TrackedApp: true,
				Kind:       model.DocumentPcbLayout,
				BaseName:   "board1",
			},
		},
		{
			name:  "unsaved changes marker",
			title: "*board1 — PCB Editor",
			expected: model.ClassifiedWindow{
				TrackedApp: true,
				Kind:       model.DocumentPcbLayout,
				BaseName:   "board1",
				Unsaved:    true,
			},
		},
		{
			name:  "project manager",
			title: "board1 — KiCad 8.0",
			expected: model.ClassifiedWindow{
				TrackedApp: true,
				Kind:       model.DocumentOther,
				BaseName:   "board1",
			},
		},
		{
			name:  "symbol editor",
			title: "opamp — Symbol Editor",
			expected: model.ClassifiedWindow{
				TrackedApp: true,
				Kind:       model.DocumentOther,
				BaseName:   "opamp",
			},
		},
		{
			name:  "footprint editor",
			title: "SOT-23 — Footprint Editor",
			expected: model.ClassifiedWindow{
				TrackedApp: true,
				Kind:       model.DocumentOther,
				BaseName:   "SOT-23",
			},
		},
		{
			name:  "editor name leading",
			title: "Schematic Editor — board1",
			expected: model.ClassifiedWindow{
				TrackedApp: true,
				Kind:       model.DocumentSchematic,
				BaseName:   "board1",
			},
		},
		{
			name:  "editor name leading with unsaved marker",
			title: "PCB Editor — *board1",
			expected: model.ClassifiedWindow{
				TrackedApp: true,
				Kind:       model.DocumentPcbLayout,
				BaseName:   "board1",
				Unsaved:    true,
			},
		},
		{
			name:  "trailing suite name",
			title: "board1 — Schematic Editor — KiCad 8.0",
			expected: model.ClassifiedWindow{
				TrackedApp: true,
				Kind:       model.DocumentSchematic,
				BaseName:   "board1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(model.WindowSample{Title: tt.title})
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestClassifyOldFormat(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected model.ClassifiedWindow
	}{
		{
			name:  "pcbnew with full filename",
			title: "board1.kicad_pcb - PCB Editor",
			expected: model.ClassifiedWindow{
				TrackedApp: true,
				Kind:       model.DocumentPcbLayout,
				BaseName:   "board1",
			},
		},
		{
			name:  "legacy schematic with dirty marker",
			title: "amp.sch [*] - Eeschema",
			expected: model.ClassifiedWindow{
				TrackedApp: true,
				Kind:       model.DocumentSchematic,
				BaseName:   "amp",
				Unsaved:    true,
			},
		},
		{
			name:  "project file",
			title: "board1.kicad_pro - KiCad",
			expected: model.ClassifiedWindow{
				TrackedApp: true,
				Kind:       model.DocumentOther,
				BaseName:   "board1",
			},
		},
		{
			name:  "modern schematic extension",
			title: "board1.kicad_sch - Schematic Editor",
			expected: model.ClassifiedWindow{
				TrackedApp: true,
				Kind:       model.DocumentSchematic,
				BaseName:   "board1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(model.WindowSample{Title: tt.title})
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestClassifyUntracked(t *testing.T) {
	titles := []string{
		"",
		"main.go - Visual Studio Code",
		"Mozilla Firefox",
		"board1 — Some Other App",
	}

	for _, title := range titles {
		got := Classify(model.WindowSample{Title: title})
		assert.False(t, got.TrackedApp, "title %q should not be tracked", title)
		assert.Equal(t, model.DocumentNone, got.Kind)
		assert.False(t, got.HasDocument())
	}
}

func TestClassifyTrackedWithoutDocument(t *testing.T) {
	// KiCad is focused but no document name can be extracted. The window
	// is still the tracked app, but there is nothing to report.
	got := Classify(model.WindowSample{Title: "KiCad 8.0"})

	assert.True(t, got.TrackedApp)
	assert.Equal(t, model.DocumentOther, got.Kind)
	assert.Empty(t, got.BaseName)
	assert.False(t, got.HasDocument())
}

func TestClassifyPrefersOldFormat(t *testing.T) {
	// A title carrying a literal document filename is parsed by the old
	// format even when an em-dash separator is present.
	got := Classify(model.WindowSample{Title: "board1.kicad_pcb - PCB Editor — KiCad"})

	assert.Equal(t, "board1", got.BaseName)
	assert.Equal(t, model.DocumentPcbLayout, got.Kind)
}
