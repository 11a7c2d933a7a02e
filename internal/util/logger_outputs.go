package util

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
)

// ConsoleOutput writes logs to a terminal stream. Entries below the minimum
// severity are dropped, which is how --quiet keeps the console to errors
// while the file log stays complete.
type ConsoleOutput struct {
	writer io.Writer
	format LogFormat
	min    LogLevel
	mu     sync.Mutex
}

// NewConsoleOutput creates a console output passing every entry through
func NewConsoleOutput(writer io.Writer, format LogFormat) *ConsoleOutput {
	return &ConsoleOutput{
		writer: writer,
		format: format,
		min:    LevelDebug,
	}
}

// NewQuietConsoleOutput creates a console output that only shows errors
func NewQuietConsoleOutput(writer io.Writer, format LogFormat) *ConsoleOutput {
	return &ConsoleOutput{
		writer: writer,
		format: format,
		min:    LevelError,
	}
}

// Write writes a log entry to the console
func (c *ConsoleOutput) Write(entry LogEntry) error {
	if entry.Severity < c.min {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	output, err := renderEntry(entry, c.format)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(c.writer, output)
	return err
}

// Close closes the console output
func (c *ConsoleOutput) Close() error {
	return nil
}

// FileOutput appends logs to a file. The file is never read back by the
// engine; it exists for operator troubleshooting.
type FileOutput struct {
	file   *os.File
	format LogFormat
	mu     sync.Mutex
}

// NewFileOutput opens (or creates) the log file in append mode
func NewFileOutput(path string, format LogFormat) (*FileOutput, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	return &FileOutput{
		file:   file,
		format: format,
	}, nil
}

// Write writes a log entry to the file
func (f *FileOutput) Write(entry LogEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	output, err := renderEntry(entry, f.format)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(f.file, output)
	return err
}

// Close closes the file
func (f *FileOutput) Close() error {
	return f.file.Close()
}

// renderEntry serializes one entry as a single line
func renderEntry(entry LogEntry, format LogFormat) (string, error) {
	if format == FormatJSON {
		data, err := sonic.Marshal(entry)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	timestamp := entry.Timestamp.Format("2006/01/02 15:04:05")
	output := fmt.Sprintf("%s [%s] %s", timestamp, entry.Level, entry.Message)

	if len(entry.Fields) > 0 {
		fieldStrs := make([]string, 0, len(entry.Fields))
		for k, v := range entry.Fields {
			fieldStrs = append(fieldStrs, fmt.Sprintf("%s=%v", k, v))
		}
		output += " " + strings.Join(fieldStrs, " ")
	}

	return output, nil
}
