package source

import (
	"os"
	"regexp"
	"strings"

	"github.com/phuslu/log"

	"fortest/internal/domain"
)

var (
	commentPattern    = regexp.MustCompile(`(?m)!.*$`)
	modulePattern     = regexp.MustCompile(`(?i)\bmodule\s+(\w+)`)
	programPattern    = regexp.MustCompile(`(?i)\bprogram\s+\w+`)
	usePattern        = regexp.MustCompile(`(?im)^[ \t]*use\s*(?:,\s*intrinsic\s*)?(?:::\s*)?(\w+)`)
	subroutinePattern = regexp.MustCompile(`(?im)^[ \t]*subroutine\s+(` + domain.TestPrefix + `\w+)\b`)
)

// Scanner extracts a module's declared name, its use-declared dependencies
// and its test subroutines from Fortran source text. All matching happens
// on comment-stripped text so commented-out declarations are never picked up.
type Scanner struct {
	log *log.Logger
}

// NewScanner creates a new Scanner
func NewScanner(logger *log.Logger) *Scanner {
	return &Scanner{log: logger}
}

// ScanFile derives all source facts for one file. Unreadable files yield
// empty facts with a warning; a corrupt file must not abort the run.
func (s *Scanner) ScanFile(path string) domain.SourceUnit {
	data, err := os.ReadFile(path)
	if err != nil {
		s.log.Warn().Str("file", path).Err(err).Msg("could not read source file")
		return domain.SourceUnit{Path: path}
	}
	text := string(data)
	return domain.SourceUnit{
		Path:            path,
		ModuleName:      ModuleName(text),
		Uses:            DependencyNames(text),
		TestSubroutines: TestSubroutines(text),
		IsProgram:       HasProgram(text),
	}
}

// StripComments removes everything from the comment marker to end of line.
func StripComments(text string) string {
	return commentPattern.ReplaceAllString(text, "")
}

// ModuleName returns the first declared module name in lowercase, or ""
// if the file declares no module.
func ModuleName(text string) string {
	match := modulePattern.FindStringSubmatch(StripComments(text))
	if match == nil {
		return ""
	}
	return strings.ToLower(match[1])
}

// HasProgram reports whether the file contains a program declaration.
func HasProgram(text string) bool {
	return programPattern.MatchString(StripComments(text))
}

// DependencyNames returns every module name referenced by a use statement,
// case-folded, first-occurrence order preserved, duplicates removed.
// Accepts "use m", "use :: m", "use, intrinsic :: m" and "use m, only: ...".
func DependencyNames(text string) []string {
	matches := usePattern.FindAllStringSubmatch(StripComments(text), -1)

	seen := make(map[string]bool)
	var names []string
	for _, m := range matches {
		name := strings.ToLower(m[1])
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// TestSubroutines returns every subroutine declared with the test prefix,
// lowercase, order preserved, duplicates removed. Only declaration lines
// match; the closing "end subroutine <name>" line does not.
func TestSubroutines(text string) []string {
	matches := subroutinePattern.FindAllStringSubmatch(StripComments(text), -1)

	seen := make(map[string]bool)
	var names []string
	for _, m := range matches {
		name := strings.ToLower(m[1])
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}
