package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"fortest/internal/cli"
	"fortest/internal/cli/commands"
	"fortest/internal/config"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:     "fortest",
		Short:   "Dependency-aware Fortran unit test runner",
		Long:    `A build orchestrator and unit test runner for Fortran projects. Discovers test files, resolves their module dependencies, compiles them with generated driver programs and reports assertion results.`,
		Version: version,
		// Errors are reported below; a failing test run should not dump usage
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Create initial config with defaults
	cfg := config.New()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Create commands with dependencies
	cmds := commands.NewCommands(cfg)

	// Register all commands
	cmds.Register(rootCmd, &flags, cfg)

	// Ctrl-C cancels in-flight compilations and test processes
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Execute root command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, commands.ErrTestsFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
