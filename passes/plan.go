package passes

import (
	"fmt"
	"io"
	"midend/ir"
	"strings"
)

// Step is one line of a dry-run schedule
type Step struct {
	Unit  UnitKind
	Name  string
	Depth int

	// Skipped is set for `Once` dependencies that would not run because the
	// group has already completed
	Skipped bool
}

// Plan returns the steps `Transform` would take for the group `name` on `m` if
// every pass succeeded.  The module's memo is consulted but not modified.
// Groups are listed when they are entered, before their dependencies.
func (s *Scheduler) Plan(m *ir.Module, name string) ([]Step, error) {
	snap, err := s.resolve(name)
	if err != nil {
		return nil, err
	}

	executed := make(map[string]bool)
	for _, groupName := range m.ExecutedGroups() {
		executed[groupName] = true
	}

	var steps []Step
	snap.planGroup(name, 0, executed, &steps)
	return steps, nil
}

func (snap *snapshot) planGroup(name string, depth int, executed map[string]bool, steps *[]Step) {
	*steps = append(*steps, Step{Unit: UnitGroup, Name: name, Depth: depth})

	group := snap.groups[name]
	for _, dep := range group.Dependencies {
		if dep.Frequency == Once && executed[dep.Group] {
			*steps = append(*steps, Step{Unit: UnitGroup, Name: dep.Group, Depth: depth + 1, Skipped: true})
			continue
		}

		snap.planGroup(dep.Group, depth+1, executed, steps)
		executed[dep.Group] = true
	}

	for _, passName := range group.Passes {
		*steps = append(*steps, Step{Unit: UnitPass, Name: passName, Depth: depth + 1})
	}
}

// PrintPlan writes a schedule as an indented tree
func PrintPlan(w io.Writer, steps []Step) error {
	for _, step := range steps {
		line := strings.Repeat("  ", step.Depth) + step.Name
		if step.Unit == UnitPass {
			line += " (pass)"
		}

		if step.Skipped {
			line += " (skipped: once)"
		}

		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return nil
}
