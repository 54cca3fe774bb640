package discovery

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScanner_Scan(t *testing.T) {
	tmpDir := t.TempDir()

	testDirs := []string{
		"tests",
		"src",
		"build",
		".hidden",
	}
	for _, dir := range testDirs {
		if err := os.MkdirAll(filepath.Join(tmpDir, dir), 0755); err != nil {
			t.Fatalf("failed to create dir %s: %v", dir, err)
		}
	}

	testFiles := []string{
		"tests/test_math.f90",
		"tests/test_strings.f90",
		"src/math_module.f90",
		"build/test_stale.f90",
		".hidden/test_hidden.f90",
		"test_root.f90",
	}
	for _, file := range testFiles {
		fullPath := filepath.Join(tmpDir, file)
		if err := os.WriteFile(fullPath, []byte("! test"), 0644); err != nil {
			t.Fatalf("failed to create file %s: %v", file, err)
		}
	}

	scanner := NewScanner([]string{"build"})

	t.Run("matches pattern and skips build and hidden dirs", func(t *testing.T) {
		results, err := scanner.Scan(tmpDir, "test_*.f90")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 3 {
			t.Errorf("expected 3 test files, got %d: %v", len(results), results)
		}
	})

	t.Run("pattern naming a concrete file returns only it", func(t *testing.T) {
		target := filepath.Join(tmpDir, "src", "math_module.f90")
		results, err := scanner.Scan(tmpDir, target)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 1 || results[0] != target {
			t.Errorf("expected [%s], got %v", target, results)
		}
	})

	t.Run("returns error for non-existent directory", func(t *testing.T) {
		if _, err := scanner.Scan("/non/existent/path", "test_*.f90"); err == nil {
			t.Error("expected error for non-existent directory")
		}
	})

	t.Run("returns error for file instead of directory", func(t *testing.T) {
		testFile := filepath.Join(tmpDir, "testfile.txt")
		os.WriteFile(testFile, []byte("test"), 0644)
		if _, err := scanner.Scan(testFile, "test_*.f90"); err == nil {
			t.Error("expected error for file path")
		}
	})
}
