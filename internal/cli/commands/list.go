package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"fortest/internal/config"
	"fortest/internal/discovery"
	"fortest/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	config    *config.Config
	scanner   *discovery.Scanner
	filter    *discovery.Filter
	formatter *ui.Formatter
}

// NewListCommand creates a new ListCommand
func NewListCommand(
	cfg *config.Config,
	scanner *discovery.Scanner,
	filter *discovery.Filter,
	formatter *ui.Formatter,
) *ListCommand {
	return &ListCommand{
		config:    cfg,
		scanner:   scanner,
		filter:    filter,
		formatter: formatter,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		lc.config.Flags.Pattern = args[0]
	}

	tests, err := lc.scanner.Scan(lc.config.GetTestPath(), lc.config.GetPattern())
	if err != nil {
		return err
	}

	// Filter tests
	tests = lc.filter.FilterByName(tests, lc.config.Flags.NameFilter)

	if len(tests) == 0 {
		color.Yellow("No test files found")
		return nil
	}

	return lc.formatter.PrintTestList(tests, lc.config.Flags.Subroutines)
}
