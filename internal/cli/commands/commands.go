package commands

import (
	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"fortest/internal/build"
	"fortest/internal/buildsys"
	"fortest/internal/cli"
	"fortest/internal/config"
	"fortest/internal/discovery"
	"fortest/internal/generate"
	"fortest/internal/parser"
	"fortest/internal/resolve"
	"fortest/internal/source"
	"fortest/internal/storage"
	"fortest/internal/ui"
)

// Commands holds all CLI commands
type Commands struct {
	Run    *RunCommand
	List   *ListCommand
	Faills *FaillsCommand

	logger *log.Logger
}

// NewCommands creates all commands with dependencies
func NewCommands(cfg *config.Config) *Commands {
	// Quiet by default; PreRunE raises the level when --verbose is set
	logger := &log.Logger{
		Level:  log.WarnLevel,
		Writer: &log.ConsoleWriter{ColorOutput: true},
	}

	// Initialize dependencies
	sourceScanner := source.NewScanner(logger)
	fileScanner := discovery.NewScanner(cfg.PathsToIgnore)
	filter := discovery.NewFilter()
	detector := buildsys.NewDetector(logger)
	resolver := resolve.NewResolver(sourceScanner, logger, cfg.ProjectPath)
	generator := generate.NewGenerator()
	orchestrator := build.NewOrchestrator(cfg, detector, resolver, generator, logger)
	outputParser := parser.NewOutputParser()
	jsonStorage := storage.NewJSONStorage(cfg.GetOutputPath())
	formatter := ui.NewFormatter(sourceScanner)
	failureViewer := ui.NewFailureViewer(jsonStorage)

	return &Commands{
		Run:    NewRunCommand(cfg, fileScanner, filter, sourceScanner, orchestrator, outputParser, jsonStorage, formatter, logger),
		List:   NewListCommand(cfg, fileScanner, filter, formatter),
		Faills: NewFaillsCommand(cfg, jsonStorage, failureViewer),
		logger: logger,
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	applyFlags := func(cmd *cobra.Command, args []string) error {
		// Update config with flags after parsing
		cfg.ApplyFlags(flags.ToConfigFlags())
		if flags.Verbose {
			c.logger.Level = log.DebugLevel
		}
		return nil
	}

	// Run command
	runCmd := &cobra.Command{
		Use:     "run [pattern]",
		Short:   "Run Fortran unit tests",
		Long:    "Discover Fortran test files, compile them together with their module dependencies and execute each test subroutine",
		Args:    cobra.MaximumNArgs(1),
		RunE:    c.Run.Execute,
		PreRunE: applyFlags,
	}
	runCmd.Flags().StringVarP(&flags.Compiler, "compiler", "c", "", "Fortran compiler to use (default gfortran)")
	runCmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable verbose diagnostic output")
	runCmd.Flags().StringVar(&flags.BuildDir, "build-dir", "", "Directory for build artifacts (default: a temporary directory removed after the run)")
	runCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path to the folder where test detection should start")
	runCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter tests by name pattern (supports wildcards, e.g., 'test_math*' or '*stack*')")
	runCmd.Flags().IntVar(&flags.Timeout, "timeout", 0, "Per-test execution timeout in seconds (default 30)")
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:     "list [pattern]",
		Short:   "List discovered test files",
		Long:    "Scan and list all Fortran test files without executing them",
		Args:    cobra.MaximumNArgs(1),
		RunE:    c.List.Execute,
		PreRunE: applyFlags,
	}
	listCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter tests by name pattern (supports wildcards, e.g., 'test_math*' or '*stack*')")
	listCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path to the folder where test detection should start")
	listCmd.Flags().BoolVarP(&flags.Subroutines, "subroutines", "s", false, "List test subroutines instead of test files")
	listCmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable verbose diagnostic output")
	rootCmd.AddCommand(listCmd)

	// Faills command
	faillsCmd := &cobra.Command{
		Use:   "faills",
		Short: "View test failures interactively",
		Long:  "Display test failures from the last test run in an interactive viewer",
		RunE:  c.Faills.Execute,
	}
	rootCmd.AddCommand(faillsCmd)
}
