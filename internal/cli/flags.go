package cli

import "fortest/internal/config"

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

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		Compiler:    f.Compiler,
		Verbose:     f.Verbose,
		BuildDir:    f.BuildDir,
		TestPath:    f.TestPath,
		Pattern:     f.Pattern,
		NameFilter:  f.NameFilter,
		Timeout:     f.Timeout,
		Subroutines: f.Subroutines,
	}
}
