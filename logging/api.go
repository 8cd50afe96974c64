package logging

import (
	"fmt"
	"os"
)

// logger is a global reference to a shared Logger.  It is silent until
// `Initialize` is called so that library users see no output by default.
var logger = newLogger(LogLevelSilent)

// Initialize initializes the global logger with the provided log level
func Initialize(loglevelname string) {
	var loglevel int
	switch loglevelname {
	case "silent":
		loglevel = LogLevelSilent
	case "error":
		loglevel = LogLevelError
	case "warn", "warning":
		loglevel = LogLevelWarning
	// everything else (including invalid log levels) should default to verbose
	default:
		loglevel = LogLevelVerbose
	}

	logger = newLogger(loglevel)
}

// ShouldProceed indicates whether or not the log module has encountered any
// errors.  This is useful when several modules are transformed concurrently
// and an error accumulator is more practical than threading results around.
func ShouldProceed() bool {
	logger.m.Lock()
	defer logger.m.Unlock()

	return logger.errorCount == 0
}

// -----------------------------------------------------------------------------
// NOTE: All log functions will only display if the appropriate log level is
// set.  Most log functions will simply fail silently if below their appropriate
// log level.

// LogPassFailure logs a pass that did not succeed on a module
func LogPassFailure(modName, passName, status, diagnostic string) {
	logger.handleMsg(&PassMessage{
		ModName:    modName,
		PassName:   passName,
		Status:     status,
		Diagnostic: diagnostic,
		IsError:    true,
	})
}

// LogPassWarning logs a non-fatal remark made by a pass
func LogPassWarning(modName, passName, message string) {
	logger.handleMsg(&PassMessage{
		ModName:    modName,
		PassName:   passName,
		Diagnostic: message,
		IsError:    false,
	})
}

// LogModuleError logs an error loading or writing a module file
func LogModuleError(modName string, err error) {
	logger.handleMsg(&ModuleMessage{ModName: modName, Message: err.Error(), IsError: true})
}

// LogConfigError logs an error related to pipeline or tool configuration
func LogConfigError(kind, message string) {
	logger.handleMsg(&ConfigError{Kind: kind, Message: message})
}

// LogConfigWarning logs a configuration problem that does not stop the run
func LogConfigWarning(kind, message string) {
	logger.handleMsg(&ModuleMessage{ModName: kind, Message: message, IsError: false})
}

// LogFatal logs a fatal error that was not expected (ie. the pipeline itself
// is broken) and exits the program.
func LogFatal(message string, args ...interface{}) {
	logger.m.Lock()
	logger.errorCount++
	displayEndPhase(false)
	displayFatalError(fmt.Sprintf(message, args...))
	logger.m.Unlock()

	os.Exit(1)
}

// -----------------------------------------------------------------------------
// Below are the "aesthetic" functions that only run at the verbose log level.

// LogHeader displays the version header before a run
func LogHeader(pipelinePath string, moduleCount int) {
	if logger.LogLevel == LogLevelVerbose {
		displayHeader(pipelinePath, moduleCount)
	}
}

// LogBeginPhase starts the progress display for a phase of the run
func LogBeginPhase(phase string) {
	if logger.LogLevel == LogLevelVerbose {
		displayBeginPhase(phase)
	}
}

// LogEndPhase ends the progress display for the current phase
func LogEndPhase(success bool) {
	if logger.LogLevel == LogLevelVerbose {
		logger.m.Lock()
		displayEndPhase(success)
		logger.m.Unlock()
	}
}

// LogFinished displays deferred warnings and the closing message
func LogFinished() {
	warningCount := logger.flushWarnings()

	if logger.LogLevel > LogLevelSilent {
		logger.m.Lock()
		displayFinished(logger.errorCount == 0, logger.errorCount, warningCount)
		logger.m.Unlock()
	}
}
