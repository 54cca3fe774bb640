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

type makeSystem struct {
	desc Descriptor
	log  *log.Logger
}

func (s *makeSystem) Descriptor() Descriptor { return s.desc }

// Build runs "make" in the project root.
func (s *makeSystem) Build(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "make")
	cmd.Dir = s.desc.ProjectDir
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("make failed: %w\n%s", err, output)
	}
	return nil
}

// LocateExecutable probes the project root, the build subdirectory and the
// test-prefix-normalized name.
func (s *makeSystem) LocateExecutable(testFile string) string {
	stem := fileStem(testFile)
	candidates := []string{
		filepath.Join(s.desc.ProjectDir, stem),
		filepath.Join(s.desc.ProjectDir, "build", stem),
		filepath.Join(s.desc.ProjectDir, "test_"+strings.TrimPrefix(stem, "test_")),
	}
	for _, executable := range candidates {
		if _, err := os.Stat(executable); err == nil {
			return executable
		}
	}
	s.log.Debug().Str("dir", s.desc.ProjectDir).Msg("no make test executable found")
	return ""
}
