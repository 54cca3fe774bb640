package commands

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"fortest/internal/build"
	"fortest/internal/config"
	"fortest/internal/discovery"
	"fortest/internal/domain"
	"fortest/internal/execution"
	"fortest/internal/parser"
	"fortest/internal/source"
	"fortest/internal/storage"
	"fortest/internal/ui"
)

// ErrTestsFailed signals a completed run with at least one failing test.
// main recognizes it and exits non-zero without printing an extra error.
var ErrTestsFailed = errors.New("some tests failed")

// RunCommand handles the run command
type RunCommand struct {
	config       *config.Config
	scanner      *discovery.Scanner
	filter       *discovery.Filter
	source       *source.Scanner
	orchestrator *build.Orchestrator
	parser       *parser.OutputParser
	storage      storage.Storage
	formatter    *ui.Formatter
	log          *log.Logger
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(
	cfg *config.Config,
	scanner *discovery.Scanner,
	filter *discovery.Filter,
	src *source.Scanner,
	orchestrator *build.Orchestrator,
	outputParser *parser.OutputParser,
	st storage.Storage,
	formatter *ui.Formatter,
	logger *log.Logger,
) *RunCommand {
	return &RunCommand{
		config:       cfg,
		scanner:      scanner,
		filter:       filter,
		source:       src,
		orchestrator: orchestrator,
		parser:       outputParser,
		storage:      st,
		formatter:    formatter,
		log:          logger,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		rc.config.Flags.Pattern = args[0]
	}

	// Discover tests
	tests, err := rc.scanner.Scan(rc.config.GetTestPath(), rc.config.GetPattern())
	if err != nil {
		return err
	}

	// Filter tests
	tests = rc.filter.FilterByName(tests, rc.config.Flags.NameFilter)

	if len(tests) == 0 {
		color.Yellow("No test files found")
		return ErrTestsFailed
	}

	// Build artifacts go to a scratch directory unless the user pinned one
	outputDir, cleanup, err := rc.buildDir()
	if err != nil {
		return err
	}
	defer cleanup()

	// The timeout flag is only applied after flag parsing, so the runner
	// cannot be wired up front with the other dependencies.
	runner := execution.NewRunner(rc.config.Timeout, rc.log)
	executor := execution.NewExecutor(rc.source, rc.orchestrator, runner, rc.parser, rc.log)

	progressBar := ui.NewProgressBar(len(tests))

	var stats domain.RunStats
	var failures []domain.TestFailure
	start := time.Now()

	for i, testFile := range tests {
		rc.formatter.PrintFileHeader(testFile)

		results := executor.RunFile(cmd.Context(), testFile, outputDir)
		rc.formatter.PrintResults(results)

		for _, result := range results {
			stats.Record(result)
			if !result.Passed {
				failures = append(failures, domain.TestFailure{
					TestName: result.Name,
					FilePath: testFile,
					Message:  result.Message,
				})
			}
		}
		progressBar.Update(i+1, stats.Passed, stats.Failed)
	}
	progressBar.Finish()

	duration := time.Since(start)

	// Save results
	if err := rc.storage.Save(stats, failures, rc.config.Compiler, duration); err != nil {
		return fmt.Errorf("failed to save test results: %w", err)
	}

	if rc.formatter.PrintFinalSummary(stats) != 0 {
		return ErrTestsFailed
	}
	return nil
}

// buildDir returns the directory for compilation artifacts and a cleanup
// function. A user-supplied --build-dir is created if needed and kept;
// temporary directories are always removed.
func (rc *RunCommand) buildDir() (string, func(), error) {
	if dir := rc.config.Flags.BuildDir; dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", nil, fmt.Errorf("failed to create build directory: %w", err)
		}
		return dir, func() {}, nil
	}

	dir, err := os.MkdirTemp("", "fortest-")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temporary build directory: %w", err)
	}
	return dir, func() { os.RemoveAll(dir) }, nil
}
