package passes

import (
	"fmt"
	"midend/ir"
)

// Status is the outcome of running a pass or group
type Status int

// Enumeration of statuses
const (
	StatusSuccess        = Status(iota)
	StatusFailure               // the pass ran and rejected the module
	StatusNotImplemented        // the pass hit behavior that does not exist yet
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "succeeded"
	case StatusFailure:
		return "failed"
	case StatusNotImplemented:
		return "not implemented"
	}

	return fmt.Sprintf("status(%d)", int(s))
}

// PassResult is the value returned by a pass's transform function.  Passes are
// expected to have logged any user-facing diagnostics before failing; the
// diagnostic stored here is a short summary for the result ledger.
type PassResult struct {
	Status     Status
	Diagnostic string
}

// Ok reports whether the pass succeeded
func (pr PassResult) Ok() bool {
	return pr.Status == StatusSuccess
}

// Succeeded returns a successful pass result
func Succeeded() PassResult {
	return PassResult{Status: StatusSuccess}
}

// Failed returns a failed pass result with a formatted diagnostic
func Failed(format string, args ...interface{}) PassResult {
	return PassResult{Status: StatusFailure, Diagnostic: fmt.Sprintf(format, args...)}
}

// NotImplemented returns a result for a pass that reached behavior which is
// not implemented.  It short-circuits the scheduler like any other failure.
func NotImplemented(format string, args ...interface{}) PassResult {
	return PassResult{Status: StatusNotImplemented, Diagnostic: fmt.Sprintf(format, args...)}
}

// TransformFunc is the body of a pass
type TransformFunc func(m *ir.Module) PassResult

// Pass is a named transformation registered in a `Registry`
type Pass struct {
	Name      string
	Transform TransformFunc
}

// Frequency governs whether a dependency group is skipped when it has already
// completed for the module being transformed
type Frequency int

// Enumeration of frequencies
const (
	Once   = Frequency(iota) // skip if already executed for the module
	Always                   // run every time the dependency is reached
)

func (f Frequency) String() string {
	if f == Always {
		return "always"
	}

	return "once"
}

// ParseFrequency converts a frequency name (`once` or `always`) into a
// frequency
func ParseFrequency(name string) (Frequency, error) {
	switch name {
	case "once":
		return Once, nil
	case "always":
		return Always, nil
	}

	return Once, fmt.Errorf("unknown frequency `%s` (expected `once` or `always`)", name)
}

// Dependency is a group that must run before the group declaring it
type Dependency struct {
	Group     string
	Frequency Frequency
}

// Group is a named, ordered bundle of passes together with the groups that
// must run before it.  Groups are immutable once registered.
type Group struct {
	Name         string
	Passes       []string
	Dependencies []Dependency
}
