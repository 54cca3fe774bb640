// Package resolve computes the ordered set of module files a test file
// transitively depends on, resolving module names to files by scanning a
// bounded set of candidate directories.
package resolve

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"

	"github.com/phuslu/log"

	"fortest/internal/domain"
	"fortest/internal/source"
)

//go:embed bundled/module_fortest_assertions.f90
var bundledAssertions []byte

// assertionFileName is the conventional file name of the assertion module.
const assertionFileName = "module_fortest_assertions.f90"

// intrinsicModules are never resolved to files.
var intrinsicModules = map[string]bool{
	"iso_fortran_env": true,
	"iso_c_binding":   true,
	"ieee_arithmetic": true,
	"ieee_exceptions": true,
	"ieee_features":   true,
}

const (
	// searchDepthMax bounds the upward walk for candidate directories.
	searchDepthMax = 4
	// scanDepthMax bounds the recursive scan inside each candidate.
	scanDepthMax = 3
	// fallbackScanDepth bounds the last-resort scan from the working dir.
	fallbackScanDepth = 6
)

// targetSubdirs are conventional source locations probed at each ancestor.
var targetSubdirs = []string{
	"src",
	"app",
	"lib",
	"examples",
	filepath.Join("fortran", "src"),
}

// Resolver finds the module files a test file depends on.
type Resolver struct {
	scanner *source.Scanner
	log     *log.Logger
	workDir string
}

// NewResolver creates a Resolver. workDir anchors the last-resort broad
// search; pass "" to use the process working directory.
func NewResolver(scanner *source.Scanner, logger *log.Logger, workDir string) *Resolver {
	if workDir == "" {
		workDir, _ = os.Getwd()
	}
	return &Resolver{scanner: scanner, log: logger, workDir: workDir}
}

// FindModuleFiles returns the transitive module dependencies of testFile in
// dependency-first compilation order. Each file appears at most once;
// cyclic references terminate after each participant is visited once.
// When includeAssertions is set and the file references the assertion
// module, its defining file is located in the project or, failing that,
// materialized from the bundled copy into scratchDir and listed first.
// Unresolvable names are dropped with a warning.
func (r *Resolver) FindModuleFiles(testFile string, includeAssertions bool, scratchDir string) []string {
	testAbs, err := filepath.Abs(testFile)
	if err != nil {
		testAbs = testFile
	}
	searchDirs := r.buildSearchDirectories(testAbs)
	uses := r.scanner.ScanFile(testAbs).Uses

	// The test file never re-discovers itself as a user module.
	visited := map[string]bool{testAbs: true}
	var ordered []string

	if includeAssertions && containsName(uses, domain.AssertionModule) {
		if assertion := r.findAssertionModule(searchDirs, scratchDir); assertion != "" {
			visited[assertion] = true
			ordered = append(ordered, assertion)
		}
	}

	for _, name := range uses {
		r.emitTransitive(name, searchDirs, visited, &ordered)
	}
	return ordered
}

// emitTransitive resolves one module name and appends its file after all
// of the file's own dependencies, using an explicit stack so that cycles
// terminate without unbounded recursion.
func (r *Resolver) emitTransitive(name string, searchDirs []string, visited map[string]bool, ordered *[]string) {
	if r.skipName(name) {
		return
	}
	file := r.findModuleFileByName(name, searchDirs)
	if file == "" {
		r.log.Warn().Str("module", name).Msg("could not resolve module dependency")
		return
	}
	if visited[file] {
		return
	}

	type frame struct {
		path     string
		expanded bool
	}
	stack := []frame{{path: file}}
	visited[file] = true

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.expanded {
			*ordered = append(*ordered, top.path)
			stack = stack[:len(stack)-1]
			continue
		}
		top.expanded = true

		// Push in reverse so first-listed dependencies are expanded,
		// and therefore emitted, first.
		deps := r.scanner.ScanFile(top.path).Uses
		for i := len(deps) - 1; i >= 0; i-- {
			dep := deps[i]
			if r.skipName(dep) {
				continue
			}
			depFile := r.findModuleFileByName(dep, searchDirs)
			if depFile == "" {
				r.log.Warn().Str("module", dep).Str("requiredBy", top.path).Msg("could not resolve module dependency")
				continue
			}
			if visited[depFile] {
				// Already emitted or currently in progress: a cycle stops
				// descending here and keeps the single occurrence.
				continue
			}
			visited[depFile] = true
			stack = append(stack, frame{path: depFile})
		}
	}
}

func (r *Resolver) skipName(name string) bool {
	return intrinsicModules[name] || name == domain.AssertionModule
}

// buildSearchDirectories walks up to searchDepthMax ancestors of the test
// file, collecting conventional source subdirectories that exist plus each
// ancestor itself, de-duplicated in first-seen order.
func (r *Resolver) buildSearchDirectories(testFile string) []string {
	var dirs []string
	current := filepath.Dir(testFile)

	for i := 0; i < searchDepthMax; i++ {
		for _, sub := range targetSubdirs {
			candidate := filepath.Join(current, sub)
			if info, err := os.Stat(candidate); err == nil && info.IsDir() {
				dirs = append(dirs, candidate)
			}
		}
		dirs = append(dirs, current)

		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}

	seen := make(map[string]bool)
	var unique []string
	for _, d := range dirs {
		if !seen[d] {
			seen[d] = true
			unique = append(unique, d)
		}
	}
	return unique
}

// findAssertionModule locates the project's copy of the assertion module,
// falling back to materializing the bundled copy into scratchDir.
func (r *Resolver) findAssertionModule(searchDirs []string, scratchDir string) string {
	for _, dir := range searchDirs {
		for _, file := range findFortranFiles(dir, 2) {
			if filepath.Base(file) == assertionFileName {
				r.log.Debug().Str("file", file).Msg("using project assertions")
				return file
			}
		}
	}

	bundled := filepath.Join(scratchDir, assertionFileName)
	if _, err := os.Stat(bundled); err != nil {
		if err := os.WriteFile(bundled, bundledAssertions, 0644); err != nil {
			r.log.Warn().Err(err).Msg("could not materialize bundled assertions")
			return ""
		}
	}
	r.log.Debug().Str("file", bundled).Msg("using bundled assertions")
	return bundled
}

// findModuleFileByName scans each candidate directory's Fortran files for
// one whose declared module name matches, then falls back to one broader
// recursive search from the working directory.
func (r *Resolver) findModuleFileByName(name string, searchDirs []string) string {
	lower := strings.ToLower(name)
	for _, dir := range searchDirs {
		for _, file := range findFortranFiles(dir, scanDepthMax) {
			if r.declaredModule(file) == lower {
				return file
			}
		}
	}

	r.log.Debug().Str("module", name).Str("workDir", r.workDir).Msg("module not in search dirs, broadening search")
	for _, file := range findFortranFiles(r.workDir, fallbackScanDepth) {
		if r.declaredModule(file) == lower {
			return file
		}
	}
	return ""
}

func (r *Resolver) declaredModule(file string) string {
	return r.scanner.ScanFile(file).ModuleName
}

// FindBuildDirectories searches upward for build directories that may hold
// pre-compiled module interfaces, including their subdirectories with
// .mod files. Only used for the direct-compilation fallback.
func (r *Resolver) FindBuildDirectories(testFile string) []string {
	abs, err := filepath.Abs(testFile)
	if err != nil {
		abs = testFile
	}
	var buildDirs []string
	current := filepath.Dir(abs)

	for i := 0; i < searchDepthMax; i++ {
		for _, name := range []string{"build", "Build", "BUILD"} {
			dir := filepath.Join(current, name)
			info, statErr := os.Stat(dir)
			if statErr != nil || !info.IsDir() {
				continue
			}
			buildDirs = append(buildDirs, dir)
			_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
				if err != nil || !d.IsDir() || path == dir {
					return nil
				}
				if mods, _ := filepath.Glob(filepath.Join(path, "*.mod")); len(mods) > 0 {
					buildDirs = append(buildDirs, path)
				}
				return nil
			})
		}

		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}
	return buildDirs
}

// findFortranFiles recursively collects .f90 files up to maxDepth,
// skipping hidden and unreadable directories.
func findFortranFiles(dir string, maxDepth int) []string {
	var files []string

	var scan func(current string, depth int)
	scan = func(current string, depth int) {
		if depth > maxDepth {
			return
		}
		entries, err := os.ReadDir(current)
		if err != nil {
			return
		}
		for _, entry := range entries {
			path := filepath.Join(current, entry.Name())
			if entry.IsDir() {
				if !strings.HasPrefix(entry.Name(), ".") {
					scan(path, depth+1)
				}
				continue
			}
			if filepath.Ext(entry.Name()) == ".f90" {
				files = append(files, path)
			}
		}
	}

	scan(dir, 0)
	return files
}

func containsName(names []string, target string) bool {
	for _, n := range names {
		if n == target {
			return true
		}
	}
	return false
}
