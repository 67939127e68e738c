// Package cmd is the top-level "driver" package for the U compiler: it
// defines the `uc` command line, manages compiler state and runs the phases
// of the compiler.
package cmd

import (
	"os"
	"path/filepath"

	"github.com/ComedicChimera/olive"
	"github.com/pterm/pterm"

	"ulang/common"
	"ulang/depm"
	"ulang/report"
)

// Execute is the main entry point for the `uc` CLI utility.  It never returns.
func Execute() {
	os.Exit(Main())
}

// Main runs the `uc` CLI utility on the process arguments and returns its exit
// code.
func Main() int {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		pterm.DisableColor()
	}

	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("uc", "uc is the compiler for the U language", true)
	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the compiler log level", false, []string{"silent", "error", "warn", "verbose"})
	logLvlArg.SetDefaultValue("verbose")

	buildCmd := cli.AddSubcommand("build", "compile a project into a module file", true)
	buildCmd.AddPrimaryArg("project-path", "the path to the project directory or project file", true)
	buildCmd.AddStringArg("output", "o", "the output directory or module file path", false)
	buildCmd.AddStringArg("allocator", "a", "the allocation function of the module", false)
	buildCmd.AddStringArg("deallocator", "x", "the deallocation function of the module", false)
	buildCmd.AddStringArg("entry", "e", "the entry point function of the module", false)
	buildCmd.AddStringArg("logfile", "lf", "the file to write structured compiler logs to", false)
	buildCmd.AddFlag("debug", "d", "embed debug information in the module and log debug messages")
	buildCmd.AddFlag("no-warnings", "w", "treat warnings as errors")
	buildCmd.AddFlag("no-deprecated", "nd", "disallow deprecated features")
	buildCmd.AddFlag("emit-ll", "L", "write an LLVM declaration header next to the module file")

	dumpCmd := cli.AddSubcommand("dump", "display the contents of a module file", true)
	dumpCmd.AddPrimaryArg("module-path", "the path to the module file", true)
	dumpCmd.AddFlag("raw", "r", "print the decoded module structure as is")

	initCmd := cli.AddSubcommand("init", "initialize a project", true)
	initCmd.AddPrimaryArg("project-path", "the path to the project directory", true)
	initCmd.AddStringArg("id", "i", "the project id: defaults to the directory name", false)

	cli.AddSubcommand("version", "print the U compiler version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		report.ReportFatal("%s", err.Error())
	}

	logLevel, _ := report.LogLevelFromName(result.Arguments["loglevel"].(string))
	report.InitReporter(logLevel)

	// process the inputed command line
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "build":
		return execBuildCommand(subResult)
	case "dump":
		return execDumpCommand(subResult)
	case "init":
		return execInitCommand(subResult)
	case "version":
		report.DisplayInfoMessage("U Version", common.UVersion)
	}

	return 0
}

// execBuildCommand executes the build subcommand and handles all errors.
func execBuildCommand(result *olive.ArgParseResult) int {
	projPath, _ := result.PrimaryArg()

	opts := BuildOptions{
		OutputPath:         stringArg(result, "output"),
		Allocator:          stringArg(result, "allocator"),
		Deallocator:        stringArg(result, "deallocator"),
		Entry:              stringArg(result, "entry"),
		Debug:              result.HasFlag("debug"),
		DisallowWarnings:   result.HasFlag("no-warnings"),
		DisallowDeprecated: result.HasFlag("no-deprecated"),
		EmitLL:             result.HasFlag("emit-ll"),
	}

	if err := report.InitLogger(opts.Debug, stringArg(result, "logfile")); err != nil {
		report.ReportFatal("failed to open log file: %s", err)
	}
	defer report.CloseLogger()

	c := NewCompiler(projPath, opts)
	if !c.Compile() {
		report.ReportCompilationFinished("")
		return 1
	}

	report.ReportCompilationFinished(c.outputPath)
	return 0
}

// execInitCommand executes the init subcommand.
func execInitCommand(result *olive.ArgParseResult) int {
	projPath, _ := result.PrimaryArg()

	absPath, err := filepath.Abs(projPath)
	if err != nil {
		report.ReportFatal("error calculating absolute path: %s", err)
	}

	id := stringArg(result, "id")
	if id == "" {
		id = filepath.Base(absPath)
	}

	projFilePath, err := depm.InitProject(id, absPath)
	if err != nil {
		report.ReportFatal("failed to initialize project: %s", err)
	}

	report.DisplayInfoMessage("Created", projFilePath)
	return 0
}

// stringArg returns the value of an optional string argument or the empty
// string if it was not given.
func stringArg(result *olive.ArgParseResult, name string) string {
	if v, ok := result.Arguments[name]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}

	return ""
}
