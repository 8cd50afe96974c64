package passes

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrNotFound is wrapped by the errors returned for unregistered names
var ErrNotFound = errors.New("not found")

// ErrCycle is wrapped by the errors returned for cyclic group dependencies
var ErrCycle = errors.New("dependency cycle")

// ConfigError is an error in the definition of the pipeline itself: a group
// referencing a pass or group that was never registered, or a dependency
// cycle.  These indicate a broken pipeline rather than bad input.
type ConfigError struct {
	// Unit is either "pass" or "group"
	Unit string

	// Name is the name of the offending pass or group
	Name string

	// Referrer is the group that referenced `Name` (empty for direct lookups)
	Referrer string

	Err error
}

func (ce *ConfigError) Error() string {
	var msg string
	if errors.Is(ce.Err, ErrCycle) {
		msg = fmt.Sprintf("the %s `%s` depends on itself", ce.Unit, ce.Name)
	} else {
		msg = fmt.Sprintf("the %s `%s` was not found", ce.Unit, ce.Name)
	}

	if ce.Referrer != "" {
		msg += fmt.Sprintf(" (referenced by group `%s`)", ce.Referrer)
	}

	return msg
}

func (ce *ConfigError) Unwrap() error {
	return ce.Err
}

// Registry is a name-keyed store of pass and group definitions.  It is usually
// populated once at startup and then shared by every pipeline run.
// Registering different names concurrently is safe; registering the same name
// concurrently is a race with no ordering guarantee (the last write wins).
type Registry struct {
	m      sync.RWMutex
	passes map[string]*Pass
	groups map[string]*Group
}

// NewRegistry creates a new empty registry
func NewRegistry() *Registry {
	return &Registry{
		passes: make(map[string]*Pass),
		groups: make(map[string]*Group),
	}
}

// RegisterPass inserts a pass, replacing any pass already registered under
// the same name
func (r *Registry) RegisterPass(name string, fn TransformFunc) {
	r.m.Lock()
	defer r.m.Unlock()

	r.passes[name] = &Pass{Name: name, Transform: fn}
}

// RegisterGroup inserts a group, replacing any group already registered under
// the same name.  Modules that already executed the old definition are still
// considered to have executed `name`.
func (r *Registry) RegisterGroup(name string, passes []string, deps []Dependency) {
	r.m.Lock()
	defer r.m.Unlock()

	r.groups[name] = &Group{
		Name:         name,
		Passes:       append([]string(nil), passes...),
		Dependencies: append([]Dependency(nil), deps...),
	}
}

// LookupPass returns the pass registered under `name`
func (r *Registry) LookupPass(name string) (*Pass, error) {
	r.m.RLock()
	defer r.m.RUnlock()

	if pass, ok := r.passes[name]; ok {
		return pass, nil
	}

	return nil, &ConfigError{Unit: "pass", Name: name, Err: ErrNotFound}
}

// LookupGroup returns the group registered under `name`
func (r *Registry) LookupGroup(name string) (*Group, error) {
	r.m.RLock()
	defer r.m.RUnlock()

	if group, ok := r.groups[name]; ok {
		return group, nil
	}

	return nil, &ConfigError{Unit: "group", Name: name, Err: ErrNotFound}
}

// PassNames returns the names of all registered passes in sorted order
func (r *Registry) PassNames() []string {
	r.m.RLock()
	defer r.m.RUnlock()

	names := make([]string, 0, len(r.passes))
	for name := range r.passes {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// GroupNames returns the names of all registered groups in sorted order
func (r *Registry) GroupNames() []string {
	r.m.RLock()
	defer r.m.RUnlock()

	names := make([]string, 0, len(r.groups))
	for name := range r.groups {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}
