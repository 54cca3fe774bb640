package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string
	TestPath    string

	// Build settings
	Compiler string
	Timeout  time.Duration

	// Output settings
	OutputJSONFile string
	OutputJSONDir  string

	// Paths to ignore when scanning
	PathsToIgnore []string

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
	Compiler    string
	Verbose     bool
	BuildDir    string
	TestPath    string
	Pattern     string
	NameFilter  string
	Timeout     int
	Subroutines bool
}

// New creates a new Config with defaults, applying any .env overrides.
func New() *Config {
	// A missing .env file is fine
	_ = godotenv.Load()

	cfg := &Config{
		ProjectPath:    ".",
		TestPath:       ".",
		Compiler:       DefaultCompiler,
		Timeout:        DefaultTimeoutSeconds * time.Second,
		OutputJSONFile: DefaultOutputJSONFile,
		OutputJSONDir:  DefaultOutputJSONDir,
	}
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)

	if compiler := os.Getenv("FORTEST_COMPILER"); compiler != "" {
		cfg.Compiler = compiler
	}
	if timeout := os.Getenv("FORTEST_TIMEOUT"); timeout != "" {
		if secs, err := strconv.Atoi(timeout); err == nil && secs > 0 {
			cfg.Timeout = time.Duration(secs) * time.Second
		}
	}
	return cfg
}

// ApplyFlags stores the parsed flags and applies their overrides.
func (c *Config) ApplyFlags(flags Flags) {
	c.Flags = flags
	if flags.Compiler != "" {
		c.Compiler = flags.Compiler
	}
	if flags.Timeout > 0 {
		c.Timeout = time.Duration(flags.Timeout) * time.Second
	}
}

// GetTestPath returns the discovery root, using the flag if provided.
func (c *Config) GetTestPath() string {
	if c.Flags.TestPath != "" {
		if filepath.IsAbs(c.Flags.TestPath) {
			return c.Flags.TestPath
		}
		return filepath.Join(c.ProjectPath, c.Flags.TestPath)
	}
	return filepath.Join(c.ProjectPath, c.TestPath)
}

// GetPattern returns the test file pattern, using the flag if provided.
func (c *Config) GetPattern() string {
	if c.Flags.Pattern != "" {
		return c.Flags.Pattern
	}
	return DefaultPattern
}

// GetOutputPath returns the full path to the output JSON file. Resolves to
// an absolute path so run and faills always read/write the same file
// regardless of cwd.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.ProjectPath, c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
