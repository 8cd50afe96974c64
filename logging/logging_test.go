package logging

import "testing"

func TestErrorsStopProceeding(t *testing.T) {
	Initialize("silent")
	defer Initialize("silent")

	if !ShouldProceed() {
		t.Fatal("fresh logger should proceed")
	}

	LogPassWarning("m", "hoist", "nothing to hoist")
	if !ShouldProceed() {
		t.Error("warnings should not stop proceeding")
	}

	LogPassFailure("m", "acyclic", "failed", "node 3 is its own ancestor")
	if ShouldProceed() {
		t.Error("pass failure should stop proceeding")
	}

	if got := logger.flushWarnings(); got != 1 {
		t.Errorf("flushed %d warnings, want 1", got)
	}
}

func TestInitializeLevels(t *testing.T) {
	defer Initialize("silent")

	tests := []struct {
		name string
		want int
	}{
		{"silent", LogLevelSilent},
		{"error", LogLevelError},
		{"warn", LogLevelWarning},
		{"verbose", LogLevelVerbose},
		{"bogus", LogLevelVerbose},
	}

	for _, tt := range tests {
		Initialize(tt.name)
		if logger.LogLevel != tt.want {
			t.Errorf("Initialize(%q) level = %d, want %d", tt.name, logger.LogLevel, tt.want)
		}
	}
}

func TestPhasePadding(t *testing.T) {
	if got := padding("Loading"); got != maxPhaseLength-len("Loading")+2 {
		t.Errorf("padding(Loading) = %d", got)
	}
	if got := padding("A very long phase name"); got != 2 {
		t.Errorf("padding(long) = %d, want 2", got)
	}
}

func TestConfigWarningsAreDeferred(t *testing.T) {
	Initialize("silent")
	defer Initialize("silent")

	LogConfigWarning("midend.toml", "group `root` replaces an existing definition")
	if !ShouldProceed() {
		t.Error("configuration warning should not stop proceeding")
	}

	if got := logger.flushWarnings(); got != 1 {
		t.Errorf("flushed %d warnings, want 1", got)
	}
	if got := logger.flushWarnings(); got != 0 {
		t.Errorf("warnings not cleared: %d", got)
	}
}

func TestCapitalize(t *testing.T) {
	tests := []struct {
		word string
		want string
	}{
		{"failed", "Failed"},
		{"not implemented", "Not implemented"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := capitalize(tt.word); got != tt.want {
			t.Errorf("capitalize(%q) = %q, want %q", tt.word, got, tt.want)
		}
	}
}
