package domain

import "strings"

const (
	// TestPrefix marks a subroutine as a test.
	TestPrefix = "test_"
	// AbortMarker marks a test that is expected to terminate abnormally.
	AbortMarker = "error_stop"
	// AssertionModule is the module name of the bundled assertion helpers.
	AssertionModule = "fortest_assertions"
)

// TestKind classifies how a test's outcome is judged.
type TestKind int

const (
	// KindNormal passes on exit code zero with a pass tag in the output.
	KindNormal TestKind = iota
	// KindAbortExpected passes only on a non-zero exit code.
	KindAbortExpected
)

// TestCase is a single test subroutine within a module.
type TestCase struct {
	Module     string // Module that declares the subroutine
	Subroutine string // Subroutine name (lowercase)
	Kind       TestKind
}

// NewTestCase classifies the subroutine by its name at creation time.
func NewTestCase(module, subroutine string) TestCase {
	kind := KindNormal
	if strings.Contains(subroutine, AbortMarker) {
		kind = KindAbortExpected
	}
	return TestCase{Module: module, Subroutine: subroutine, Kind: kind}
}

// SourceUnit holds the facts derived from scanning one source file.
// It is never mutated after creation and recomputed fresh on every scan.
type SourceUnit struct {
	Path            string   // Location of the source file
	ModuleName      string   // Declared module name, empty for standalone programs
	Uses            []string // Referenced module names, lowercase, first-occurrence order
	TestSubroutines []string // Test subroutine names, lowercase, declaration order
	IsProgram       bool     // File contains a program declaration
}

// SplitTests separates normal tests from abort-expected tests,
// preserving extraction order within each group.
func (u SourceUnit) SplitTests() (normal, abortExpected []string) {
	for _, name := range u.TestSubroutines {
		if strings.Contains(name, AbortMarker) {
			abortExpected = append(abortExpected, name)
		} else {
			normal = append(normal, name)
		}
	}
	return normal, abortExpected
}
