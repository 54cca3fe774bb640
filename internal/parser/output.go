// Package parser extracts structured pass/fail tags from captured test
// output.
package parser

import (
	"regexp"
	"strings"

	"fortest/internal/domain"
)

const (
	// PassTag marks a passed assertion in test output.
	PassTag = "[PASS]"
	// FailTag marks a failed assertion in test output.
	FailTag = "[FAIL]"
)

var (
	ansiPattern        = regexp.MustCompile(`\x1b\[[0-9;]*m`)
	passSummaryPattern = regexp.MustCompile(`\[PASS\]\s*\d+\s*$`)
	failSummaryPattern = regexp.MustCompile(`\[FAIL\]\s*\d+\s*$`)
)

// OutputParser parses captured test executable output.
type OutputParser struct{}

// NewOutputParser creates a new OutputParser
func NewOutputParser() *OutputParser {
	return &OutputParser{}
}

// Parse extracts one TestResult per tagged assertion line. ANSI color
// codes are stripped first and the trailing summary count lines
// ("[PASS]   9") are skipped.
func (p *OutputParser) Parse(output string) []domain.TestResult {
	var results []domain.TestResult

	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		clean := strings.TrimRight(ansiPattern.ReplaceAllString(line, ""), " \t")

		if passSummaryPattern.MatchString(clean) || failSummaryPattern.MatchString(clean) {
			continue
		}

		if idx := strings.Index(clean, PassTag); idx >= 0 {
			name := strings.TrimSpace(clean[idx+len(PassTag):])
			results = append(results, domain.TestResult{Name: name, Passed: true})
		} else if idx := strings.Index(clean, FailTag); idx >= 0 {
			name := strings.TrimSpace(clean[idx+len(FailTag):])
			results = append(results, domain.TestResult{Name: name, Passed: false})
		}
	}
	return results
}

// FilterBuildNoise removes build-tool progress messages (fpm, make) from
// captured output while keeping tagged results and indented assertion
// detail lines.
func (p *OutputParser) FilterBuildNoise(output string) string {
	noise := []string{
		"fpm build complete",
		"fpm test complete",
		"+ mkdir",
		"+ gfortran",
		"+ ar",
		"build/gfortran",
		"[100%]",
		"[  0%]",
		"[ 50%]",
		"building",
		"<INFO>",
		"STOP 0",
		" done.",
	}

	var kept []string
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, PassTag) || strings.Contains(line, FailTag) {
			kept = append(kept, line)
			continue
		}
		// Indented lines carry assertion detail
		if strings.HasPrefix(line, "       ") {
			kept = append(kept, line)
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		isNoise := false
		for _, n := range noise {
			if strings.Contains(line, n) {
				isNoise = true
				break
			}
		}
		if !isNoise {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
