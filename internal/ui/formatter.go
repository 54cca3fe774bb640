package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"fortest/internal/domain"
	"fortest/internal/source"
)

const (
	passTag = "[PASS]"
	failTag = "[FAIL]"
)

// Formatter formats and displays test output
type Formatter struct {
	scanner *source.Scanner
}

// NewFormatter creates a new Formatter
func NewFormatter(scanner *source.Scanner) *Formatter {
	return &Formatter{scanner: scanner}
}

// PrintFileHeader announces the test file about to run.
func (f *Formatter) PrintFileHeader(testFile string) {
	fmt.Println(strings.Repeat("-", 60))
	color.Blue("Testing: %s", testFile)
}

// PrintResults prints one tagged line per test result, with indented
// detail for failures.
func (f *Formatter) PrintResults(results []domain.TestResult) {
	for _, r := range results {
		if r.Passed {
			fmt.Printf("%s %s\n", color.GreenString(passTag), r.Name)
		} else {
			fmt.Printf("%s %s\n", color.RedString(failTag), r.Name)
			if r.Message != "" {
				for _, line := range strings.Split(r.Message, "\n") {
					fmt.Printf("       %s\n", line)
				}
			}
		}
	}
}

// PrintFinalSummary prints run totals and returns the tool's exit code:
// 0 when at least one test ran and all passed, 1 otherwise.
func (f *Formatter) PrintFinalSummary(stats domain.RunStats) int {
	separator := strings.Repeat("=", 50)

	fmt.Println(strings.Repeat("-", 60))
	fmt.Println("All tests completed.")
	fmt.Println(separator)
	fmt.Printf("Total tests: %d\n", stats.Total)
	color.Green("%s%4d", passTag, stats.Passed)
	color.Red("%s%4d", failTag, stats.Failed)
	fmt.Println(separator)

	if stats.AllPassed() {
		color.Green("\nAll tests passed! ✓")
		return 0
	}
	color.Red("\nSome tests failed ✗")
	return 1
}

// PrintTestList lists discovered test files; withSubroutines also lists
// each file's test subroutines.
func (f *Formatter) PrintTestList(testFiles []string, withSubroutines bool) error {
	for _, file := range testFiles {
		color.Cyan(file)
		if !withSubroutines {
			continue
		}
		unit := f.scanner.ScanFile(file)
		for _, sub := range unit.TestSubroutines {
			fmt.Printf("  %s\n", sub)
		}
	}
	fmt.Printf("\n%d test file(s)\n", len(testFiles))
	return nil
}
