package window

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// wmctrl -l lines: window id, desktop number, client host, then the title.
var wmctrlLine = regexp.MustCompile(`^\S+\s+-?\d+\s+\S+\s+(.*)$`)

// parseIdleMillis converts xprintidle output, idle milliseconds as a bare
// decimal, to a duration.
func parseIdleMillis(raw string) (time.Duration, error) {
	ms, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// parseHIDIdleTime extracts the HIDIdleTime nanosecond counter from
// ioreg -c IOHIDSystem output.
func parseHIDIdleTime(output string) (time.Duration, bool) {
	for _, line := range strings.Split(output, "\n") {
		idx := strings.Index(line, `"HIDIdleTime"`)
		if idx < 0 {
			continue
		}
		_, value, found := strings.Cut(line[idx:], "=")
		if !found {
			continue
		}
		ns, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			continue
		}
		return time.Duration(ns), true
	}
	return 0, false
}

// parseWmctrlList extracts window titles from wmctrl -l output.
func parseWmctrlList(output string) []string {
	var titles []string
	for _, line := range strings.Split(output, "\n") {
		m := wmctrlLine.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil || m[1] == "" {
			continue
		}
		titles = append(titles, m[1])
	}
	return titles
}

// parseLines splits helper output into non-empty trimmed lines.
func parseLines(output string) []string {
	var lines []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
