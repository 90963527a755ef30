package debug

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

var logger = log.New(os.Stderr, "[debug] ", log.LstdFlags)

// SetOutput redirects debug output, mainly for tests
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// DebugSection logs the start of a named section and returns the closer
func DebugSection(enabled bool, name string) func() {
	if !enabled {
		return func() {}
	}
	logger.Printf("=== %s START ===", name)
	return func() {
		logger.Printf("=== %s END ===", name)
	}
}

// DebugOutput prints debug output if debugging is enabled
func DebugOutput(enabled bool, format string, args ...interface{}) {
	if enabled {
		timestamp := time.Now().Format("15:04:05.000")
		logger.Printf("[%s] %s", timestamp, fmt.Sprintf(format, args...))
	}
}

// DebugTiming measures and logs execution time if debugging is enabled
func DebugTiming(enabled bool, operation string) func() {
	if !enabled {
		return func() {}
	}

	start := time.Now()
	DebugOutput(enabled, "Starting: %s", operation)

	return func() {
		DebugOutput(enabled, "Completed: %s (took %v)", operation, time.Since(start))
	}
}
