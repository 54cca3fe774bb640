package buildsys

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/phuslu/log"
)

type cmakeSystem struct {
	desc Descriptor
	log  *log.Logger
}

func (s *cmakeSystem) Descriptor() Descriptor { return s.desc }

// Build configures and builds the project in <root>/build.
func (s *cmakeSystem) Build(ctx context.Context) error {
	buildDir := s.buildDir()
	if err := os.MkdirAll(buildDir, 0755); err != nil {
		return fmt.Errorf("create cmake build dir: %w", err)
	}

	configure := exec.CommandContext(ctx, "cmake", "..")
	configure.Dir = buildDir
	if output, err := configure.CombinedOutput(); err != nil {
		return fmt.Errorf("cmake configure failed: %w\n%s", err, output)
	}

	build := exec.CommandContext(ctx, "make")
	build.Dir = buildDir
	if output, err := build.CombinedOutput(); err != nil {
		return fmt.Errorf("cmake build failed: %w\n%s", err, output)
	}
	return nil
}

// LocateExecutable probes plausible names in the build directory: the file
// stem and the stem with the test prefix re-applied.
func (s *cmakeSystem) LocateExecutable(testFile string) string {
	stem := fileStem(testFile)
	candidates := []string{
		stem,
		"test_" + strings.TrimPrefix(stem, "test_"),
	}
	for _, name := range candidates {
		executable := filepath.Join(s.buildDir(), name)
		if _, err := os.Stat(executable); err == nil {
			return executable
		}
	}
	s.log.Debug().Str("dir", s.buildDir()).Msg("no cmake test executable found")
	return ""
}

func (s *cmakeSystem) buildDir() string {
	return filepath.Join(s.desc.ProjectDir, "build")
}
