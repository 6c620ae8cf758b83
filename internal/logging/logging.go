// Package logging is a small level-gated wrapper over the standard logger.
package logging

import (
	"log"
	"strings"
	"sync/atomic"
)

// Log level names accepted by SetLevel.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

var levels = []string{LevelDebug, LevelInfo, LevelWarn, LevelError}

var currentLevel atomic.Int32

func init() {
	currentLevel.Store(1) // info
}

// SetLevel sets the global logging level. Unknown names are ignored and
// reported as false.
func SetLevel(level string) bool {
	level = strings.ToLower(strings.TrimSpace(level))
	for i, l := range levels {
		if l == level {
			currentLevel.Store(int32(i))
			return true
		}
	}
	return false
}

// Level returns the current logging level name.
func Level() string {
	return levels[currentLevel.Load()]
}

// Enabled reports whether messages at level would be written.
func Enabled(level string) bool {
	for i, l := range levels {
		if l == level {
			return int32(i) >= currentLevel.Load()
		}
	}
	return false
}

// Debug logs a debug message
func Debug(format string, args ...interface{}) {
	if Enabled(LevelDebug) {
		log.Printf("[DEBUG] "+format, args...)
	}
}

// Info logs an info message
func Info(format string, args ...interface{}) {
	if Enabled(LevelInfo) {
		log.Printf("[INFO] "+format, args...)
	}
}

// Warn logs a warning message
func Warn(format string, args ...interface{}) {
	if Enabled(LevelWarn) {
		log.Printf("[WARN] "+format, args...)
	}
}

// Error logs an error message
func Error(format string, args ...interface{}) {
	if Enabled(LevelError) {
		log.Printf("[ERROR] "+format, args...)
	}
}
