package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"midend/build"
	"midend/common"
	"midend/generate"
	"midend/ir"
	"midend/irfile"
	"midend/logging"
	"midend/passes"
	"midend/pipeline"
	"os"
	"os/signal"
	"runtime"

	"github.com/ComedicChimera/olive"
)

// Execute runs the main `midend` application
func Execute() {
	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("midend", "midend runs pass pipelines over IR modules", true)
	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the log level", false, []string{"silent", "error", "warn", "verbose"})
	logLvlArg.SetDefaultValue("verbose")

	runCmd := cli.AddSubcommand("run", "run a pipeline over module files", true)
	runCmd.AddPrimaryArg("module-path", "the module file or directory of module files", true)
	runCmd.AddStringArg("pipeline", "p", "the pipeline file to load", false)
	runCmd.AddStringArg("group", "g", "the group to run (defaults to the pipeline's root)", false)
	emitArg := runCmd.AddSelectorArg("emit", "e", "what to output for each module", false, []string{"none", "tree", "yaml", "llvm"})
	emitArg.SetDefaultValue("none")
	runCmd.AddFlag("ledger", "l", "print the ledger of every module as a table")

	planCmd := cli.AddSubcommand("plan", "print the schedule of a group without running it", true)
	planCmd.AddPrimaryArg("module-path", "the module file to plan for", true)
	planCmd.AddStringArg("pipeline", "p", "the pipeline file to load", false)
	planCmd.AddStringArg("group", "g", "the group to plan (defaults to the pipeline's root)", false)

	watchCmd := cli.AddSubcommand("watch", "rerun a pipeline whenever a module file changes", true)
	watchCmd.AddPrimaryArg("module-path", "the module file to watch", true)
	watchCmd.AddStringArg("pipeline", "p", "the pipeline file to load", false)
	watchCmd.AddStringArg("group", "g", "the group to run (defaults to the pipeline's root)", false)

	initCmd := cli.AddSubcommand("init", "write a default pipeline file", true)
	initCmd.AddPrimaryArg("dir", "the directory to write the pipeline file to", true)

	cli.AddSubcommand("version", "print the midend version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		logging.PrintErrorMessage("CLI Usage Error", err)
		os.Exit(2)
	}

	logging.Initialize(result.Arguments["loglevel"].(string))

	// process the inputed command line
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "run":
		execRunCommand(subResult)
	case "plan":
		execPlanCommand(subResult)
	case "watch":
		execWatchCommand(subResult)
	case "init":
		execInitCommand(subResult)
	case "version":
		logging.PrintInfoMessage("midend Version", common.MidendVersion)
	}
}

// execRunCommand executes the `run` subcommand.  It exits with a non-zero
// status if any module fails to load or transform.
func execRunCommand(result *olive.ArgParseResult) {
	modulePath, _ := result.PrimaryArg()
	reg, pipelinePath, group := mustLoadPipeline(result, modulePath)

	paths, err := build.ModulePaths(modulePath)
	if err != nil {
		logging.PrintErrorMessage("Path Error", err)
		os.Exit(1)
	}

	logging.LogHeader(pipelinePath, len(paths))
	logging.LogBeginPhase("Transforming")

	d := build.NewDriver(reg, group, runtime.NumCPU())
	units, err := d.Run(context.Background(), paths)
	if err != nil {
		logging.LogFatal("%s", err)
	}

	ok := true
	for _, unit := range units {
		ok = ok && unit.Ok()
	}
	logging.LogEndPhase(ok)

	for _, unit := range units {
		reportUnit(unit, result.HasFlag("ledger"))
	}

	// nothing is emitted unless every module made it through
	if ok {
		emit := result.Arguments["emit"].(string)
		for _, unit := range units {
			if err := emitModule(os.Stdout, unit.Module, emit); err != nil {
				logging.LogModuleError(unit.Module.Name, err)
				ok = false
			}
		}
	}

	logging.LogFinished()
	if !ok {
		os.Exit(1)
	}
}

// execPlanCommand executes the `plan` subcommand
func execPlanCommand(result *olive.ArgParseResult) {
	modulePath, _ := result.PrimaryArg()
	reg, _, group := mustLoadPipeline(result, modulePath)

	m, err := irfile.Load(modulePath)
	if err != nil {
		logging.PrintErrorMessage("Module Error", err)
		os.Exit(1)
	}

	steps, err := build.NewDriver(reg, group, 1).Plan(m)
	if err != nil {
		logging.LogFatal("%s", err)
	}

	if err := passes.PrintPlan(os.Stdout, steps); err != nil {
		logging.PrintErrorMessage("Output Error", err)
	}
}

// execWatchCommand executes the `watch` subcommand.  It runs until interrupted.
func execWatchCommand(result *olive.ArgParseResult) {
	modulePath, _ := result.PrimaryArg()
	reg, pipelinePath, group := mustLoadPipeline(result, modulePath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logging.LogHeader(pipelinePath, 1)

	d := build.NewDriver(reg, group, 1)
	err := d.Watch(ctx, modulePath, func(unit *build.Unit) {
		reportUnit(unit, false)
		if unit.Ok() {
			logging.PrintInfoMessage("Done", fmt.Sprintf("module `%s` transformed", unit.Module.Name))
		}
	})

	if err != nil {
		var ce *passes.ConfigError
		if errors.As(err, &ce) {
			logging.LogFatal("%s", err)
		}

		logging.PrintErrorMessage("Watch Error", err)
		os.Exit(1)
	}
}

// execInitCommand executes the `init` subcommand
func execInitCommand(result *olive.ArgParseResult) {
	dir, _ := result.PrimaryArg()

	path, err := pipeline.Init(dir)
	if err != nil {
		logging.PrintErrorMessage("Pipeline Init Error", err)
		os.Exit(1)
	}

	logging.PrintInfoMessage("Created", path)
}

// -----------------------------------------------------------------------------

// pipelineArgs are the pipeline selection arguments shared by the commands
// that run or plan a group
type pipelineArgs struct {
	// path is the value of `--pipeline` (empty if not given)
	path string

	// group is the value of `--group` (empty if not given)
	group string
}

// getPipelineArgs extracts the pipeline selection arguments of a command
func getPipelineArgs(result *olive.ArgParseResult) pipelineArgs {
	var args pipelineArgs

	if arg, ok := result.Arguments["pipeline"]; ok {
		args.path = arg.(string)
	}

	if arg, ok := result.Arguments["group"]; ok {
		args.group = arg.(string)
	}

	return args
}

// loadPipeline builds the registry for a command.  The pipeline file is the
// one given by `--pipeline` or, failing that, the one found by `pipeline.Find`;
// without either the builtin pipeline is used.  The group is the one given by
// `--group`, then the pipeline file's root, then the builtin root.  It returns
// the registry, the path of the loaded pipeline file (if any) and the group to
// run.
func loadPipeline(args pipelineArgs, modulePath string) (*passes.Registry, string, string, error) {
	reg := pipeline.NewRegistry()
	group := pipeline.GroupRoot

	pipelinePath := args.path
	if pipelinePath == "" {
		if found, ok := pipeline.Find(modulePath); ok {
			pipelinePath = found
		}
	}

	if pipelinePath != "" {
		p, err := pipeline.Load(pipelinePath, reg)
		if err != nil {
			return nil, "", "", err
		}

		group = p.Root
	}

	if args.group != "" {
		group = args.group
	}

	return reg, pipelinePath, group, nil
}

// mustLoadPipeline is `loadPipeline` for the commands: a pipeline file that
// cannot be loaded is fatal
func mustLoadPipeline(result *olive.ArgParseResult, modulePath string) (*passes.Registry, string, string) {
	reg, pipelinePath, group, err := loadPipeline(getPipelineArgs(result), modulePath)
	if err != nil {
		logging.LogConfigError("Pipeline", err.Error())
		logging.LogFatal("unable to load pipeline file")
	}

	return reg, pipelinePath, group
}

// reportUnit prints the failures of a unit and, if requested, its ledger
func reportUnit(unit *build.Unit, showLedger bool) {
	// load errors have already been logged by the driver
	if unit.Err != nil {
		return
	}

	if showLedger {
		logging.PrintInfoMessage("Module", unit.Module.Name)
		if err := logging.PrintTable([]string{"Unit", "Name", "Status", "Diagnostic"}, unit.Result.Rows()); err != nil {
			logging.PrintErrorMessage("Output Error", err)
		}
	}

	if !unit.Result.Success {
		if err := unit.Result.Print(os.Stderr); err != nil {
			logging.PrintErrorMessage("Output Error", err)
		}
	}
}

// emitModule writes a transformed module to `w` in the given format.  `none`
// writes nothing.
func emitModule(w io.Writer, m *ir.Module, emit string) error {
	switch emit {
	case "tree":
		return ir.Fprint(w, m)
	case "yaml":
		return irfile.Encode(w, m)
	case "llvm":
		g := generate.NewGenerator(m)
		if _, err := g.Generate(); err != nil {
			return err
		}

		_, err := g.WriteTo(w)
		return err
	case "none":
		return nil
	}

	return fmt.Errorf("unknown output format `%s`", emit)
}
