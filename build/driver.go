package build

import (
	"context"
	"midend/common"
	"midend/ir"
	"midend/irfile"
	"midend/logging"
	"midend/passes"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Unit is one module file processed by the driver
type Unit struct {
	// Path is the module file the unit was loaded from
	Path string

	// Module is the transformed module (nil if it could not be loaded)
	Module *ir.Module

	// Result is the outcome of running the driver's group on the module
	Result passes.GroupResult

	// Err is set if the module file could not be loaded
	Err error
}

// Ok reports whether the unit loaded and its pipeline succeeded
func (u *Unit) Ok() bool {
	return u.Err == nil && u.Result.Success
}

// Driver is the data structure responsible for running a pipeline over a set
// of module files.  Each module is owned by exactly one worker for the whole
// of its pipeline run.
type Driver struct {
	// sched runs groups from the driver's registry
	sched *passes.Scheduler

	// group is the name of the group run on every module
	group string

	// workers is the maximum number of modules transformed concurrently
	workers int
}

// NewDriver creates a new driver running `group` from `reg`.  A non-positive
// worker count means one worker per module.
func NewDriver(reg *passes.Registry, group string, workers int) *Driver {
	return &Driver{
		sched:   passes.NewScheduler(reg),
		group:   group,
		workers: workers,
	}
}

// Check resolves the driver's group without running anything.  It returns the
// configuration error that would abort a run.
func (d *Driver) Check() error {
	_, err := d.sched.Plan(ir.NewModule(""), d.group)
	return err
}

// Plan returns the schedule the driver would run on `m`, taking the groups
// already executed for `m` into account
func (d *Driver) Plan(m *ir.Module) ([]passes.Step, error) {
	return d.sched.Plan(m, d.group)
}

// Run loads and transforms every module file in `paths` concurrently.  The
// returned units are in the same order as `paths`.  Module files that fail to
// load are reported on their unit and do not stop the others; a configuration
// error stops the whole run and is returned.
func (d *Driver) Run(ctx context.Context, paths []string) ([]*Unit, error) {
	if err := d.Check(); err != nil {
		return nil, err
	}

	units := make([]*Unit, len(paths))
	for i, path := range paths {
		units[i] = &Unit{Path: path}
	}

	eg, ctx := errgroup.WithContext(ctx)
	if d.workers > 0 {
		eg.SetLimit(d.workers)
	}

	for _, unit := range units {
		unit := unit
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			return d.runUnit(unit)
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return units, nil
}

// runUnit loads and transforms a single unit
func (d *Driver) runUnit(unit *Unit) error {
	m, err := irfile.Load(unit.Path)
	if err != nil {
		unit.Err = err
		logging.LogModuleError(filepath.Base(unit.Path), err)
		return nil
	}

	unit.Module = m
	unit.Result, err = d.sched.Transform(m, d.group)
	return err
}

// -----------------------------------------------------------------------------

// ModulePaths expands `path` into a list of module files: a directory yields
// every module file directly inside it in sorted order, anything else is
// returned as is
func ModulePaths(path string) ([]string, error) {
	finfo, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !finfo.IsDir() {
		return []string{path}, nil
	}

	matches, err := filepath.Glob(filepath.Join(path, "*"+common.ModuleFileExtension))
	if err != nil {
		return nil, err
	}

	sort.Strings(matches)
	return matches, nil
}
