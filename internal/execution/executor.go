// Package execution drives the build-and-run pipeline for each test file
// and classifies outcomes into test results.
package execution

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/phuslu/log"

	"fortest/internal/build"
	"fortest/internal/domain"
	"fortest/internal/parser"
	"fortest/internal/source"
)

// Executor runs all tests of one file: it classifies the file, drives the
// orchestrator per test subroutine (or once, for standalone programs) and
// turns process outcomes into TestResults. Files are processed one at a
// time; there is no overlap between spawned subprocesses.
type Executor struct {
	scanner      *source.Scanner
	orchestrator *build.Orchestrator
	runner       *Runner
	parser       *parser.OutputParser
	log          *log.Logger
}

// NewExecutor creates a new Executor
func NewExecutor(
	scanner *source.Scanner,
	orchestrator *build.Orchestrator,
	runner *Runner,
	outputParser *parser.OutputParser,
	logger *log.Logger,
) *Executor {
	return &Executor{
		scanner:      scanner,
		orchestrator: orchestrator,
		runner:       runner,
		parser:       outputParser,
		log:          logger,
	}
}

// RunFile builds and executes every test in testFile, writing build
// artifacts into outputDir. Failures come back as failing TestResults;
// only context cancellation aborts early.
func (e *Executor) RunFile(ctx context.Context, testFile, outputDir string) []domain.TestResult {
	unit := e.scanner.ScanFile(testFile)

	if e.isStandalone(unit) {
		return e.runStandalone(ctx, unit, outputDir)
	}
	return e.runModuleTests(ctx, unit, outputDir)
}

// isStandalone reports whether the file compiles by itself: it declares a
// program, or its name carries the abort marker.
func (e *Executor) isStandalone(unit domain.SourceUnit) bool {
	return unit.IsProgram ||
		strings.Contains(strings.ToLower(filepath.Base(unit.Path)), domain.AbortMarker)
}

// runStandalone compiles the file alone, bypassing dependency resolution
// and driver generation, and reports one result named after the file.
func (e *Executor) runStandalone(ctx context.Context, unit domain.SourceUnit, outputDir string) []domain.TestResult {
	name := fileStem(unit.Path)

	exe, _ := e.orchestrator.Delegate(ctx, unit.Path)
	if exe == "" {
		var err error
		if unit.IsProgram || unit.ModuleName == "" {
			exe, err = e.orchestrator.CompileStandalone(ctx, unit.Path, outputDir)
		} else {
			// An abort-named module file carries no program of its own;
			// it gets a generated whole-file runner instead.
			exe, err = e.orchestrator.CompileFull(ctx, unit, outputDir)
		}
		if err != nil {
			return []domain.TestResult{{
				Name:    name,
				Passed:  false,
				Message: fmt.Sprintf("Compilation failed:\n%v", err),
			}}
		}
	}

	outcome := e.runner.Run(ctx, exe)
	if strings.Contains(strings.ToLower(name), domain.AbortMarker) {
		return []domain.TestResult{classifyAbort(name, outcome)}
	}
	return []domain.TestResult{e.classifyNormal(name, outcome)}
}

// runModuleTests runs every test subroutine of a module-like file, each in
// its own process.
func (e *Executor) runModuleTests(ctx context.Context, unit domain.SourceUnit, outputDir string) []domain.TestResult {
	if unit.ModuleName == "" {
		e.log.Warn().Str("file", unit.Path).Msg("no module declaration found")
		return nil
	}
	if len(unit.TestSubroutines) == 0 {
		e.log.Warn().Str("file", unit.Path).Msg("no test subroutines found")
		return nil
	}

	normal, abortExpected := unit.SplitTests()

	// A delegated build that yields a runnable executable covers all
	// normal tests in one process. Abort-expected tests always need
	// per-process isolation, so the delegated binary is only usable for
	// files without them.
	if len(abortExpected) == 0 {
		if exe, _ := e.orchestrator.Delegate(ctx, unit.Path); exe != "" {
			outcome := e.runner.Run(ctx, exe)
			return e.classifyDelegated(unit, normal, outcome)
		}
	}

	var results []domain.TestResult
	for _, sub := range normal {
		if ctx.Err() != nil {
			return results
		}
		results = append(results, e.runSingleCase(ctx, unit, domain.NewTestCase(unit.ModuleName, sub), outputDir))
	}
	for _, sub := range abortExpected {
		if ctx.Err() != nil {
			return results
		}
		results = append(results, e.runSingleCase(ctx, unit, domain.NewTestCase(unit.ModuleName, sub), outputDir))
	}
	return results
}

// runSingleCase compiles one test case into its own executable and runs it.
func (e *Executor) runSingleCase(ctx context.Context, unit domain.SourceUnit, tc domain.TestCase, outputDir string) domain.TestResult {
	exe, err := e.orchestrator.CompileCase(ctx, unit, tc, outputDir)
	if err != nil {
		return domain.TestResult{
			Name:    tc.Subroutine,
			Passed:  false,
			Message: fmt.Sprintf("Compilation failed:\n%v", err),
		}
	}

	outcome := e.runner.Run(ctx, exe)
	if tc.Kind == domain.KindAbortExpected {
		return classifyAbort(tc.Subroutine, outcome)
	}
	return e.classifyNormal(tc.Subroutine, outcome)
}

// classifyNormal judges a normal test run: pass needs exit code zero and a
// pass tag in the output. When the output carries no tags at all, exit
// code zero alone is accepted as a pass (kept for compatibility with
// assertion-free tests; see DESIGN.md).
func (e *Executor) classifyNormal(name string, outcome Outcome) domain.TestResult {
	if outcome.TimedOut {
		return domain.TestResult{Name: name, Passed: false, Message: "Test execution timed out"}
	}

	parsed := e.parser.Parse(outcome.Output)
	if len(parsed) == 0 {
		if outcome.ExitCode == 0 {
			e.log.Debug().Str("test", name).Msg("no structured markers in output, accepting exit code zero as pass")
			return domain.TestResult{Name: name, Passed: true, Message: "Test completed successfully"}
		}
		return domain.TestResult{
			Name:    name,
			Passed:  false,
			Message: fmt.Sprintf("Test failed with exit code %d\n%s", outcome.ExitCode, outcome.Output),
		}
	}

	passed := outcome.ExitCode == 0
	var failures []string
	for _, r := range parsed {
		if !r.Passed {
			passed = false
			failures = append(failures, r.Name)
		}
	}
	message := ""
	if len(failures) > 0 {
		message = "Failed assertions: " + strings.Join(failures, ", ")
	} else if !passed {
		message = fmt.Sprintf("Test failed with exit code %d", outcome.ExitCode)
	}
	return domain.TestResult{Name: name, Passed: passed, Message: message}
}

// classifyDelegated turns the single delegated run into one result per
// normal subroutine: the per-assertion tags decide the overall verdict,
// attributed to each subroutine of the file.
func (e *Executor) classifyDelegated(unit domain.SourceUnit, normal []string, outcome Outcome) []domain.TestResult {
	if outcome.TimedOut {
		var results []domain.TestResult
		for _, sub := range normal {
			results = append(results, domain.TestResult{Name: sub, Passed: false, Message: "Test execution timed out"})
		}
		return results
	}

	parsed := e.parser.Parse(e.parser.FilterBuildNoise(outcome.Output))
	if len(parsed) > 0 {
		return parsed
	}

	var results []domain.TestResult
	for _, sub := range normal {
		results = append(results, e.classifyNormal(sub, outcome))
	}
	return results
}

// classifyAbort judges an abort-expected run: any non-zero exit code from
// a started process is a pass; completing normally is the failure. A
// binary that never started proves nothing about error stop.
func classifyAbort(name string, outcome Outcome) domain.TestResult {
	if outcome.TimedOut {
		return domain.TestResult{Name: name, Passed: false, Message: "Test execution timed out"}
	}
	if outcome.StartFailed {
		return domain.TestResult{
			Name:    name,
			Passed:  false,
			Message: "Test executable failed to run:\n" + outcome.Output,
		}
	}
	if outcome.ExitCode != 0 {
		return domain.TestResult{
			Name:    name,
			Passed:  true,
			Message: fmt.Sprintf("Successfully triggered error stop (exit code: %d)", outcome.ExitCode),
		}
	}
	return domain.TestResult{
		Name:    name,
		Passed:  false,
		Message: "Expected error stop but test exited normally (exit code: 0)",
	}
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
