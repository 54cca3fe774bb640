package buildsys

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/phuslu/log"
)

// fpmManifest is the subset of fpm.toml we care about.
type fpmManifest struct {
	Name string `toml:"name"`
}

type fpmSystem struct {
	desc Descriptor
	log  *log.Logger
}

func (s *fpmSystem) Descriptor() Descriptor { return s.desc }

// Build runs "fpm build" in the project root.
func (s *fpmSystem) Build(ctx context.Context) error {
	if name := s.projectName(); name != "" {
		s.log.Debug().Str("project", name).Str("dir", s.desc.ProjectDir).Msg("building with fpm")
	}

	cmd := exec.CommandContext(ctx, "fpm", "build")
	cmd.Dir = s.desc.ProjectDir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("fpm build failed: %w\n%s", err, output)
	}
	return nil
}

// LocateExecutable probes build/<toolchain>_*/test/<stem> for the test binary.
func (s *fpmSystem) LocateExecutable(testFile string) string {
	stem := fileStem(testFile)
	pattern := filepath.Join(s.desc.ProjectDir, "build", "gfortran_*", "test")
	testDirs, err := filepath.Glob(pattern)
	if err != nil {
		return ""
	}
	for _, dir := range testDirs {
		executable := filepath.Join(dir, stem)
		if _, err := os.Stat(executable); err == nil {
			return executable
		}
	}
	s.log.Debug().Str("file", testFile).Msg("no fpm test executable found")
	return ""
}

// BuildDirectories returns FPM build directories containing compiled module
// interfaces, including those of fetched dependencies. Used as include
// paths when falling back to direct compilation.
func (s *fpmSystem) BuildDirectories() []string {
	var dirs []string
	buildDir := filepath.Join(s.desc.ProjectDir, "build")

	toolchainDirs, _ := filepath.Glob(filepath.Join(buildDir, "gfortran_*"))
	depDirs, _ := filepath.Glob(filepath.Join(buildDir, "dependencies", "*", "build", "gfortran_*"))
	for _, dir := range append(toolchainDirs, depDirs...) {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}
		dirs = append(dirs, dir)
		dirs = append(dirs, subdirsWithModFiles(dir)...)
	}
	return dirs
}

// projectName reads the package name from fpm.toml, "" when unreadable.
func (s *fpmSystem) projectName() string {
	data, err := os.ReadFile(filepath.Join(s.desc.ProjectDir, "fpm.toml"))
	if err != nil {
		return ""
	}
	var manifest fpmManifest
	if err := toml.Unmarshal(data, &manifest); err != nil {
		s.log.Warn().Err(err).Msg("could not parse fpm.toml")
		return ""
	}
	return manifest.Name
}

// fileStem returns the file name without its extension.
func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// subdirsWithModFiles finds subdirectories containing compiled .mod files.
func subdirsWithModFiles(root string) []string {
	var dirs []string
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() || path == root {
			return nil
		}
		if mods, _ := filepath.Glob(filepath.Join(path, "*.mod")); len(mods) > 0 {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs
}
