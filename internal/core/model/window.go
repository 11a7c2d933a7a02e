package model

import "time"

// DocumentKind identifies which KiCad editor a window belongs to.
type DocumentKind string

const (
	DocumentNone      DocumentKind = ""
	DocumentSchematic DocumentKind = "schematic"
	DocumentPcbLayout DocumentKind = "pcb"
	DocumentOther     DocumentKind = "other"
)

// String returns a printable name, mapping the zero value to "none".
func (k DocumentKind) String() string {
	if k == DocumentNone {
		return "none"
	}
	return string(k)
}

// WindowSample is one observation of the OS foreground window, taken once
// per tick. An empty Title is the sentinel for "no active window": the OS
// query failed or timed out, and the tick carries on with no data.
type WindowSample struct {
	Title      string
	CapturedAt time.Time
	SystemIdle time.Duration
}

// Empty reports whether this is the no-active-window sentinel.
func (s WindowSample) Empty() bool {
	return s.Title == ""
}

// ClassifiedWindow is the result of parsing a window title.
type ClassifiedWindow struct {
	TrackedApp bool
	Kind       DocumentKind
	BaseName   string
	// Unsaved records the "*" dirty marker some KiCad titles carry. It is
	// diagnostic only: an unsaved buffer is the opposite of a write signal.
	Unsaved bool
}

// HasDocument reports whether the window names a document that can be
// resolved to a project. A KiCad window with no open project is tracked
// but has nothing to report.
func (w ClassifiedWindow) HasDocument() bool {
	return w.TrackedApp && w.BaseName != ""
}
