package util

import (
	"os"
	"sync"
)

var (
	globalLogger *Logger
	loggerOnce   sync.Once
)

// InitLogger initializes the global logger instance. The console output
// always exists (errors only when quiet); the file output is optional so
// --no-file-log can run the tracker without touching the filesystem.
func InitLogger(logLevel, logFile string, quiet bool) error {
	var initErr error
	loggerOnce.Do(func() {
		console := NewConsoleOutput(os.Stderr, FormatText)
		if quiet {
			console = NewQuietConsoleOutput(os.Stderr, FormatText)
		}

		outputs := []Output{Output(console)}
		if logFile != "" {
			fileOutput, err := NewFileOutput(logFile, FormatText)
			if err != nil {
				initErr = err
				return
			}
			outputs = append(outputs, fileOutput)
		}

		globalLogger = NewLogger(logLevel, outputs...)
	})
	return initErr
}

// SetGlobalLogger replaces the global logger and returns the previous
// one. Tests use it to capture log output; production setup goes through
// InitLogger.
func SetGlobalLogger(l *Logger) *Logger {
	prev := globalLogger
	globalLogger = l
	return prev
}

// LogInfo convenience functions for logging
func LogInfo(msg string) {
	if globalLogger != nil {
		globalLogger.Info(msg)
	}
}

func LogInfof(format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.Infof(format, args...)
	}
}

func LogDebug(msg string) {
	if globalLogger != nil {
		globalLogger.Debug(msg)
	}
}

func LogDebugf(format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.Debugf(format, args...)
	}
}

func LogWarn(msg string) {
	if globalLogger != nil {
		globalLogger.Warn(msg)
	}
}

func LogWarnf(format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.Warnf(format, args...)
	}
}

func LogError(msg string) {
	if globalLogger != nil {
		globalLogger.Error(msg)
	}
}

func LogErrorf(format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.Errorf(format, args...)
	}
}
