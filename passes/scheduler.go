package passes

import (
	"fmt"
	"midend/ir"
	"midend/logging"
)

// Scheduler runs groups of passes on modules in dependency order
type Scheduler struct {
	reg *Registry
}

// NewScheduler creates a new scheduler that resolves names in `reg`
func NewScheduler(reg *Registry) *Scheduler {
	return &Scheduler{reg: reg}
}

// Transform executes the dependency closure of the group `name` and then the
// group's own passes on `m`.  Dependencies run in declaration order: a `Once`
// dependency that already completed for `m` is skipped, every other dependency
// runs.  Every group that completes successfully, including `name` itself, is
// recorded as executed for `m`.  The first failure stops all remaining work of
// the group that observed it.
//
// The whole closure is resolved before anything runs.  If a referenced pass or
// group is not registered, or the groups depend on each other cyclically, a
// `*ConfigError` is returned and the module is left untouched.
func (s *Scheduler) Transform(m *ir.Module, name string) (GroupResult, error) {
	snap, err := s.resolve(name)
	if err != nil {
		return GroupResult{}, err
	}

	return snap.transformGroup(m, name), nil
}

// -----------------------------------------------------------------------------

// snapshot is the resolved closure of a group: every group and pass it can
// reach, looked up once so that concurrent re-registration cannot change the
// pipeline halfway through a run
type snapshot struct {
	groups map[string]*Group
	passes map[string]*Pass
}

// Enumeration of resolution states used for cycle detection
const (
	unvisited = iota
	visiting
	resolved
)

// resolve looks up the closure of the group `name`
func (s *Scheduler) resolve(name string) (*snapshot, error) {
	snap := &snapshot{
		groups: make(map[string]*Group),
		passes: make(map[string]*Pass),
	}

	if err := s.resolveGroup(snap, name, "", make(map[string]int)); err != nil {
		return nil, err
	}

	return snap, nil
}

func (s *Scheduler) resolveGroup(snap *snapshot, name, referrer string, state map[string]int) error {
	switch state[name] {
	case visiting:
		return &ConfigError{Unit: "group", Name: name, Referrer: referrer, Err: ErrCycle}
	case resolved:
		return nil
	}

	group, err := s.reg.LookupGroup(name)
	if err != nil {
		err.(*ConfigError).Referrer = referrer
		return err
	}

	state[name] = visiting
	snap.groups[name] = group

	for _, dep := range group.Dependencies {
		if err := s.resolveGroup(snap, dep.Group, name, state); err != nil {
			return err
		}
	}

	for _, passName := range group.Passes {
		if _, ok := snap.passes[passName]; ok {
			continue
		}

		pass, err := s.reg.LookupPass(passName)
		if err != nil {
			err.(*ConfigError).Referrer = name
			return err
		}

		snap.passes[passName] = pass
	}

	state[name] = resolved
	return nil
}

// transformGroup runs a resolved group on `m` and marks it executed if it
// succeeds.  The returned ledger ends with the entry for the group itself.
func (snap *snapshot) transformGroup(m *ir.Module, name string) GroupResult {
	group := snap.groups[name]
	result := NewGroupResult()

	for _, dep := range group.Dependencies {
		if dep.Frequency == Once && m.HasExecuted(dep.Group) {
			continue
		}

		depResult := snap.transformGroup(m, dep.Group)
		result = Combine(result, depResult)

		if !depResult.Success {
			result.record(Entry{
				Unit:       UnitGroup,
				Name:       name,
				Status:     StatusFailure,
				Diagnostic: fmt.Sprintf("dependency `%s` failed", dep.Group),
			})

			return result
		}
	}

	for _, passName := range group.Passes {
		pr := snap.passes[passName].Transform(m)
		result.record(Entry{
			Unit:       UnitPass,
			Name:       passName,
			Status:     pr.Status,
			Diagnostic: pr.Diagnostic,
		})

		if !pr.Ok() {
			logging.LogPassFailure(m.Name, passName, pr.Status.String(), pr.Diagnostic)

			result.record(Entry{
				Unit:       UnitGroup,
				Name:       name,
				Status:     StatusFailure,
				Diagnostic: fmt.Sprintf("pass `%s` %s", passName, pr.Status),
			})

			return result
		}
	}

	result.record(Entry{Unit: UnitGroup, Name: name, Status: StatusSuccess})
	m.MarkExecuted(name)
	return result
}
