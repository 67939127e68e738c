package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"ulang/abi"
	"ulang/codegen"
	"ulang/common"
	"ulang/depm"
	"ulang/report"
	"ulang/resolve"
	"ulang/uir"
)

// BuildOptions are the settings given on the command line.  Any non-empty
// option overrides the corresponding project file setting.
type BuildOptions struct {
	// The output directory or module file path.
	OutputPath string

	Allocator   string
	Deallocator string
	Entry       string

	// Whether to embed debug information in the module file.
	Debug bool

	DisallowWarnings   bool
	DisallowDeprecated bool

	// Whether to write an LLVM declaration header next to the module.
	EmitLL bool
}

// Compiler represents the global state of the compiler.
type Compiler struct {
	// projPath is the path given for the project: either its directory or its
	// project file.
	projPath string

	// opts are the command line build options.
	opts BuildOptions

	// pf is the loaded project file.
	pf *depm.ProjectFile

	// mod is the module being compiled.
	mod *depm.Module

	// outputPath is the path of the module file to write.
	outputPath string
}

// NewCompiler creates a new compiler for the project at projPath.
func NewCompiler(projPath string, opts BuildOptions) *Compiler {
	return &Compiler{projPath: projPath, opts: opts}
}

// Compile runs every phase of the compiler.  It returns whether compilation
// succeeded.  All errors are reported as they occur.
func (c *Compiler) Compile() bool {
	if !c.loadProject() {
		return false
	}

	report.ReportCompileHeader(common.UVersion, c.pf.Project.ID)

	phases := []struct {
		name string
		run  func() bool
	}{
		{"Tokenizing", c.tokenize},
		{"Resolving", c.resolve},
		{"Generating", c.generate},
		{"Writing", c.write},
	}

	for _, phase := range phases {
		report.ReportBeginPhase(phase.name)

		if !c.runPhase(phase.run) || report.AnyErrors() {
			report.ReportEndPhase(false)
			return false
		}
	}

	report.ReportEndPhase(true)
	return true
}

// runPhase runs a single phase.  A phase that panics is reported and fails.
func (c *Compiler) runPhase(run func() bool) (ok bool) {
	defer report.CatchErrors(c.pf.Path, filepath.Base(c.pf.Path))
	return run()
}

// loadProject loads the project file and merges the command line options into
// it.
func (c *Compiler) loadProject() bool {
	pf, err := depm.LoadProject(c.projPath)
	if err != nil {
		report.ReportFatal("%s", err)
		return false
	}

	overrideString(&pf.Allocator, c.opts.Allocator)
	overrideString(&pf.Deallocator, c.opts.Deallocator)
	overrideString(&pf.Entry, c.opts.Entry)
	pf.DisallowWarnings = pf.DisallowWarnings || c.opts.DisallowWarnings
	pf.DisallowDeprecated = pf.DisallowDeprecated || c.opts.DisallowDeprecated

	report.SetWarningsAsErrors(pf.DisallowWarnings)

	c.pf = pf
	c.mod = depm.NewModule(pf.Project)
	c.outputPath = c.resolveOutputPath()

	report.Logger().Info("loaded project",
		"id", pf.Project.ID,
		"version", pf.Project.Version.String(),
		"root", pf.Root,
		"output", c.outputPath,
	)
	return true
}

// resolveOutputPath computes the path of the module file.  An output option
// ending in the module file extension names the file itself; any other output
// option names its directory.
func (c *Compiler) resolveOutputPath() string {
	fileName := c.pf.Project.ID + common.ModuleFileExt

	switch {
	case c.opts.OutputPath == "":
		return filepath.Join(c.pf.Root, common.OutputDirName, fileName)
	case filepath.Ext(c.opts.OutputPath) == common.ModuleFileExt:
		return c.opts.OutputPath
	default:
		return filepath.Join(c.opts.OutputPath, fileName)
	}
}

// tokenize loads and tokenizes every source file of the project.  Every file
// is tokenized even if an earlier one fails.
func (c *Compiler) tokenize() bool {
	paths, err := depm.DiscoverSources(c.pf.Root)
	if err != nil {
		report.ReportStdError(c.pf.Root, err)
		return false
	}

	for _, path := range paths {
		sf, err := depm.LoadSource(len(c.mod.Files), c.pf.Root, path)
		if err != nil {
			report.ReportError(sf.AbsPath, sf.ReprPath, sf.Src, err)
			continue
		}

		report.Logger().Debug("tokenized file", "file", sf.ReprPath, "tokens", len(sf.Tokens))
		c.mod.Files = append(c.mod.Files, sf)
	}

	return true
}

// resolve builds the module's symbol tables and checks the entry point.
func (c *Compiler) resolve() bool {
	if err := resolve.NewResolver(c.mod).Resolve(); err != nil {
		c.reportFileError(err)
		return false
	}

	report.Logger().Debug("resolved module",
		"structs", len(c.mod.Structs),
		"unions", len(c.mod.Unions),
		"functions", len(c.mod.Functions),
	)

	if c.pf.Entry != "" {
		if _, ok := c.mod.LookupFunction(c.pf.Entry); !ok {
			report.ReportCompileWarning(c.pf.Path, filepath.Base(c.pf.Path), nil, "entry point `%s` is not defined", c.pf.Entry)
		}
	}

	return true
}

// generate generates the body of every function.
func (c *Compiler) generate() bool {
	if err := codegen.NewGenerator(c.mod).Generate(); err != nil {
		c.reportFileError(err)
		return false
	}

	return true
}

// write writes the module file and, if requested, its declaration header.
func (c *Compiler) write() bool {
	if err := os.MkdirAll(filepath.Dir(c.outputPath), 0755); err != nil {
		report.ReportFatal("failed to create output directory: %s", err)
	}

	if err := uir.Write(c.outputPath, c.mod, uir.Options{Debug: c.opts.Debug}); err != nil {
		report.ReportFatal("failed to write module file: %s", err)
	}

	if c.opts.EmitLL {
		llPath := strings.TrimSuffix(c.outputPath, common.ModuleFileExt) + ".ll"
		if err := abi.WriteLL(llPath, c.mod); err != nil {
			report.ReportStdError(filepath.Base(llPath), err)
			return false
		}
	}

	return true
}

// reportFileError reports an error returned by one of the phases, attributing
// it to its source file when known.
func (c *Compiler) reportFileError(err error) {
	var fe *depm.FileError
	if errors.As(err, &fe) {
		report.ReportError(fe.File.AbsPath, fe.File.ReprPath, fe.File.Src, fe.Err)
	} else {
		report.ReportStdError(c.pf.Root, err)
	}
}

// overrideString replaces *dst with value if value is non-empty.
func overrideString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
