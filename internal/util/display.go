package util

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Terminal color sequences
const (
	ColorReset   = "\033[0m"
	ColorCyan    = "\033[36m"
	ColorGreen   = "\033[32m"
	ColorYellow  = "\033[33m"
	ColorRed     = "\033[31m"
	ColorMagenta = "\033[35m"
	ColorBold    = "\033[1m"
)

// GetDisplayWidth calculates the actual display width of a string,
// accounting for wide runes (KiCad titles carry an em-dash and project
// names may be non-ASCII)
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// PadString pads a string to a specific display width
func PadString(s string, width int, leftAlign bool) string {
	actualWidth := GetDisplayWidth(s)
	if actualWidth >= width {
		return s
	}

	padding := strings.Repeat(" ", width-actualWidth)
	if leftAlign {
		return s + padding
	}
	return padding + s
}

// TruncateString shortens a string to fit a display width
func TruncateString(s string, width int) string {
	return runewidth.Truncate(s, width, "...")
}

// FormatHeaderTitle formats main header titles (Magenta + Bold)
func FormatHeaderTitle(title string) string {
	return fmt.Sprintf("%s%s%s%s", ColorBold, ColorMagenta, title, ColorReset)
}

// FormatDiagnosticTitle formats diagnostic/analysis titles (Yellow + Bold)
func FormatDiagnosticTitle(title string) string {
	return fmt.Sprintf("%s%s%s%s", ColorBold, ColorYellow, title, ColorReset)
}

// FormatOverviewTitle formats overview/summary titles (Cyan + Bold)
func FormatOverviewTitle(title string) string {
	return fmt.Sprintf("%s%s%s%s", ColorBold, ColorCyan, title, ColorReset)
}

// FormatDataTitle formats data section titles (Green + Bold)
func FormatDataTitle(title string) string {
	return fmt.Sprintf("%s%s%s%s", ColorBold, ColorGreen, title, ColorReset)
}

// FormatSectionSeparator creates a visual separator line
func FormatSectionSeparator() string {
	return fmt.Sprintf("%s%s%s%s", ColorBold, ColorCyan, strings.Repeat("─", 78), ColorReset)
}
