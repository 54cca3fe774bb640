package config

const (
	// DefaultCompiler is the Fortran compiler used when none is configured
	DefaultCompiler = "gfortran"
	// DefaultPattern matches test files during discovery
	DefaultPattern = "test_*.f90"
	// DefaultTimeoutSeconds bounds each spawned test executable
	DefaultTimeoutSeconds = 30
	// DefaultOutputJSONFile is the default output JSON file name
	DefaultOutputJSONFile = "test-results.json"
	// DefaultOutputJSONDir is the default output directory
	DefaultOutputJSONDir = "storage"
)

// DefaultPathsToIgnore are directories skipped when scanning for test files.
var DefaultPathsToIgnore = []string{
	"build",
	"node_modules",
	".git",
}
