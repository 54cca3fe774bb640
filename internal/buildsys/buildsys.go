// Package buildsys detects project-level build systems and delegates
// builds to them. Each recognized system implements the System interface;
// the orchestrator only ever holds the interface.
package buildsys

import (
	"context"

	"github.com/phuslu/log"
)

// Type identifies a recognized build system.
type Type string

const (
	FPM   Type = "fpm"
	CMake Type = "cmake"
	Make  Type = "make"
)

// Descriptor is an immutable record of a detected build system.
type Descriptor struct {
	Type       Type
	ProjectDir string // Absolute directory containing the marker file
}

// System builds a project and locates the resulting test executable.
type System interface {
	// Build runs the native build command in the project root. A non-zero
	// exit is returned as an error carrying the captured output.
	Build(ctx context.Context) error
	// LocateExecutable probes plausible executable locations for the given
	// test file. Returns "" when nothing exists.
	LocateExecutable(testFile string) string
	// Descriptor returns the detection record this system was built from.
	Descriptor() Descriptor
}

// New returns the System implementation for a detected descriptor.
func New(desc Descriptor, logger *log.Logger) System {
	switch desc.Type {
	case FPM:
		return &fpmSystem{desc: desc, log: logger}
	case CMake:
		return &cmakeSystem{desc: desc, log: logger}
	default:
		return &makeSystem{desc: desc, log: logger}
	}
}
