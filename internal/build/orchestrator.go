// Package build produces an executable for a test file, either by
// delegating to a detected project build system or by direct multi-step
// compilation with generated driver programs.
package build

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/phuslu/log"

	"fortest/internal/buildsys"
	"fortest/internal/config"
	"fortest/internal/domain"
	"fortest/internal/generate"
	"fortest/internal/resolve"
)

// Orchestrator coordinates build-system delegation, dependency resolution
// and driver generation to turn a test file into a runnable executable.
type Orchestrator struct {
	cfg       *config.Config
	detector  *buildsys.Detector
	resolver  *resolve.Resolver
	generator *generate.Generator
	log       *log.Logger
}

// NewOrchestrator creates a new Orchestrator
func NewOrchestrator(
	cfg *config.Config,
	detector *buildsys.Detector,
	resolver *resolve.Resolver,
	generator *generate.Generator,
	logger *log.Logger,
) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		detector:  detector,
		resolver:  resolver,
		generator: generator,
		log:       logger,
	}
}

// Delegate attempts to build via a detected project build system. It
// returns the located test executable ("" when no system was found, the
// native build failed, or no executable could be located — all of which
// mean: fall back to direct compilation) plus the detection descriptor,
// which stays useful for include paths even when delegation failed.
func (o *Orchestrator) Delegate(ctx context.Context, testFile string) (string, *buildsys.Descriptor) {
	desc := o.detector.Detect(testFile)
	if desc == nil {
		return "", nil
	}

	sys := buildsys.New(*desc, o.log)
	if err := sys.Build(ctx); err != nil {
		o.log.Debug().Err(err).Str("type", string(desc.Type)).Msg("native build failed, falling back to direct compilation")
		return "", desc
	}
	exe := sys.LocateExecutable(testFile)
	if exe == "" {
		o.log.Debug().Str("type", string(desc.Type)).Msg("no executable located, falling back to direct compilation")
	}
	return exe, desc
}

// CompileStandalone compiles a standalone program file by itself, with no
// dependency resolution and no generated driver.
func (o *Orchestrator) CompileStandalone(ctx context.Context, testFile, outputDir string) (string, error) {
	executable := filepath.Join(outputDir, fileStem(testFile))
	args := []string{"-J", outputDir, "-o", executable, testFile}
	if err := o.runCompiler(ctx, args); err != nil {
		return "", err
	}
	return executable, nil
}

// CompileCase builds one test case in isolation: resolve the module's
// transitive dependencies, compile each into an object file, generate the
// kind-appropriate driver, and link everything into one executable.
// The returned error carries the compiler diagnostics; the caller reports
// it as a failing TestResult rather than aborting the run.
func (o *Orchestrator) CompileCase(ctx context.Context, unit domain.SourceUnit, tc domain.TestCase, outputDir string) (string, error) {
	// The test module itself may use the assertion module, so it stays in
	// the dependency set for every kind; only the generated driver differs
	// (abort drivers never reference it).
	moduleFiles := o.resolver.FindModuleFiles(unit.Path, true, outputDir)

	objects, err := o.compileDependencies(ctx, moduleFiles, unit.Path, outputDir)
	if err != nil {
		return "", err
	}

	var driver string
	switch tc.Kind {
	case domain.KindAbortExpected:
		driver, err = o.generator.WriteAbortRunner(tc.Module, tc.Subroutine, outputDir)
	default:
		driver, err = o.generator.WriteSingleRunner(tc.Module, tc.Subroutine, outputDir)
	}
	if err != nil {
		return "", err
	}

	executable := filepath.Join(outputDir, "run_"+tc.Subroutine)
	return executable, o.link(ctx, unit.Path, driver, executable, objects, outputDir)
}

// CompileFull builds one executable covering a whole module file: all
// dependencies are compiled and a runner invoking every test subroutine in
// order is generated and linked in. Used for files that declare a module
// but no program of their own and therefore cannot compile standalone.
func (o *Orchestrator) CompileFull(ctx context.Context, unit domain.SourceUnit, outputDir string) (string, error) {
	moduleFiles := o.resolver.FindModuleFiles(unit.Path, true, outputDir)

	objects, err := o.compileDependencies(ctx, moduleFiles, unit.Path, outputDir)
	if err != nil {
		return "", err
	}

	driver, err := o.generator.WriteFullRunner(unit.Path, unit.ModuleName, unit.TestSubroutines, outputDir)
	if err != nil {
		return "", err
	}

	executable := filepath.Join(outputDir, fileStem(unit.Path))
	return executable, o.link(ctx, unit.Path, driver, executable, objects, outputDir)
}

// compileDependencies compiles each resolved module into an object file,
// in dependency order, using discovered build directories as module
// search paths.
func (o *Orchestrator) compileDependencies(ctx context.Context, moduleFiles []string, testFile, outputDir string) ([]string, error) {
	includeDirs := o.includeDirs(testFile)
	var objects []string

	for _, moduleFile := range moduleFiles {
		object := filepath.Join(outputDir, fileStem(moduleFile)+".o")
		args := []string{"-c", moduleFile}
		for _, dir := range includeDirs {
			args = append(args, "-I", dir)
		}
		args = append(args, "-J", outputDir, "-o", object)

		if err := o.runCompiler(ctx, args); err != nil {
			return nil, fmt.Errorf("failed to compile dependency %s: %w", filepath.Base(moduleFile), err)
		}
		objects = append(objects, object)
	}
	return objects, nil
}

// link produces the final executable from the dependency objects, the test
// source file and the generated driver.
func (o *Orchestrator) link(ctx context.Context, testFile, driver, executable string, objects []string, outputDir string) error {
	args := []string{"-o", executable}
	for _, dir := range o.includeDirs(testFile) {
		args = append(args, "-I", dir)
	}
	args = append(args, "-I", outputDir, "-J", outputDir)
	args = append(args, objects...)
	args = append(args, testFile, driver)
	return o.runCompiler(ctx, args)
}

// includeDirs collects build directories that may hold pre-compiled module
// interfaces: generic build/ trees near the test file plus, for FPM
// projects, the toolchain build directories.
func (o *Orchestrator) includeDirs(testFile string) []string {
	dirs := o.resolver.FindBuildDirectories(testFile)
	if desc := o.detector.Detect(testFile); desc != nil {
		if searcher, ok := buildsys.New(*desc, o.log).(buildsys.ModuleSearcher); ok {
			dirs = append(dirs, searcher.BuildDirectories()...)
		}
	}
	return dirs
}

// runCompiler invokes the configured compiler; a non-zero exit becomes an
// error carrying the captured diagnostics.
func (o *Orchestrator) runCompiler(ctx context.Context, args []string) error {
	o.log.Debug().Str("compiler", o.cfg.Compiler).Strs("args", args).Msg("invoking compiler")
	cmd := exec.CommandContext(ctx, o.cfg.Compiler, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w\n%s", o.cfg.Compiler, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
