package buildsys

import (
	"os"
	"path/filepath"

	"github.com/phuslu/log"
)

// markers in priority order: FPM natively understands Fortran module
// graphs, so it wins over CMake and Make when markers coexist.
var markers = []struct {
	file string
	typ  Type
}{
	{"fpm.toml", FPM},
	{"CMakeLists.txt", CMake},
	{"Makefile", Make},
}

// Detector finds a recognized build system by walking upward from a
// source file to the filesystem root.
type Detector struct {
	log *log.Logger
}

// NewDetector creates a new Detector
func NewDetector(logger *log.Logger) *Detector {
	return &Detector{log: logger}
}

// Detect returns the first directory, ascending from the test file, that
// holds any marker. Priority only breaks ties between markers coexisting
// in the same directory; a lower-priority marker is never skipped in favor
// of a higher-priority one further up. Returns nil if no marker exists up
// to the filesystem root.
func (d *Detector) Detect(testFile string) *Descriptor {
	abs, err := filepath.Abs(testFile)
	if err != nil {
		abs = testFile
	}
	current := filepath.Dir(abs)

	for current != filepath.Dir(current) {
		for _, m := range markers {
			if _, err := os.Stat(filepath.Join(current, m.file)); err == nil {
				d.log.Debug().Str("type", string(m.typ)).Str("dir", current).Msg("detected build system")
				return &Descriptor{Type: m.typ, ProjectDir: current}
			}
		}
		current = filepath.Dir(current)
	}

	d.log.Debug().Msg("no build system detected")
	return nil
}
