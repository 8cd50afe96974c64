package logging

import (
	"sync"
)

// Logger is a type that is responsible for storing and logging output from the
// pass pipeline as necessary
type Logger struct {
	errorCount int // Total encountered errors
	LogLevel   int

	// warnings is a list of all warnings to be logged at the end of the run
	warnings []LogMessage

	// m is the mutex used to synchonize the printing of messages: several
	// modules may be transformed concurrently
	m *sync.Mutex
}

// Enumeration of the different log levels
const (
	LogLevelSilent  = iota // no output at all
	LogLevelError          // only errors and closing notification (success/fail)
	LogLevelWarning        // errors, warnings, and closing message
	LogLevelVerbose        // errors, warnings, version header, phase progress, closing message
)

// newLogger creates a new logger struct
func newLogger(loglevel int) Logger {
	return Logger{
		LogLevel: loglevel,
		m:        &sync.Mutex{},
	}
}

// handleMsg prompts to logger to process a message -- messages can arrive from
// several workers at once so printing happens under the logger's mutex
func (l *Logger) handleMsg(lm LogMessage) {
	l.m.Lock()
	defer l.m.Unlock()

	if lm.isError() {
		l.errorCount++

		if l.LogLevel > LogLevelSilent {
			displayEndPhase(false)
			lm.display()
		}
	} else {
		l.warnings = append(l.warnings, lm)
	}
}

// flushWarnings displays and clears all deferred warnings.  It returns how
// many warnings there were.
func (l *Logger) flushWarnings() int {
	l.m.Lock()
	defer l.m.Unlock()

	count := len(l.warnings)

	if l.LogLevel >= LogLevelWarning {
		for _, warning := range l.warnings {
			warning.display()
		}
	}

	l.warnings = nil
	return count
}
