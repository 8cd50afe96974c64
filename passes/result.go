package passes

import (
	"fmt"
	"io"
)

// UnitKind distinguishes passes from groups in a result ledger
type UnitKind int

// Enumeration of unit kinds
const (
	UnitPass = UnitKind(iota)
	UnitGroup
)

func (uk UnitKind) String() string {
	if uk == UnitGroup {
		return "group"
	}

	return "pass"
}

// Entry is a single line of a result ledger: one pass or group that ran
type Entry struct {
	Unit       UnitKind
	Name       string
	Status     Status
	Diagnostic string
}

// GroupResult is the aggregated outcome of transforming a module with a group.
// The ledger lists every pass and group that ran in the order they finished.
type GroupResult struct {
	Success bool
	Ledger  []Entry
}

// NewGroupResult returns the empty result: successful with an empty ledger.
// It is the identity of `Combine`.
func NewGroupResult() GroupResult {
	return GroupResult{Success: true}
}

// Combine folds two results into one.  The combined result succeeds only if
// both do and its ledger is `a`'s ledger followed by `b`'s.  Combine is
// associative and neither argument is modified.
func Combine(a, b GroupResult) GroupResult {
	ledger := make([]Entry, 0, len(a.Ledger)+len(b.Ledger))
	ledger = append(ledger, a.Ledger...)
	ledger = append(ledger, b.Ledger...)

	return GroupResult{
		Success: a.Success && b.Success,
		Ledger:  ledger,
	}
}

// record appends an entry to the ledger
func (gr *GroupResult) record(e Entry) {
	gr.Ledger = append(gr.Ledger, e)
	gr.Success = gr.Success && e.Status == StatusSuccess
}

// Failures returns every ledger entry that did not succeed
func (gr GroupResult) Failures() []Entry {
	var failures []Entry
	for _, e := range gr.Ledger {
		if e.Status != StatusSuccess {
			failures = append(failures, e)
		}
	}

	return failures
}

// Count returns how many times a unit with the given kind and name appears in
// the ledger
func (gr GroupResult) Count(unit UnitKind, name string) int {
	n := 0
	for _, e := range gr.Ledger {
		if e.Unit == unit && e.Name == name {
			n++
		}
	}

	return n
}

// Print writes one line per pass or group that did not succeed
func (gr GroupResult) Print(w io.Writer) error {
	for _, e := range gr.Failures() {
		line := fmt.Sprintf("%s `%s` %s", e.Unit, e.Name, e.Status)
		if e.Diagnostic != "" {
			line += ": " + e.Diagnostic
		}

		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return nil
}

// Rows returns the ledger as table rows: unit, name, status, diagnostic
func (gr GroupResult) Rows() [][]string {
	rows := make([][]string, len(gr.Ledger))
	for i, e := range gr.Ledger {
		rows[i] = []string{e.Unit.String(), e.Name, e.Status.String(), e.Diagnostic}
	}

	return rows
}
