package source

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/phuslu/log"
)

func TestModuleName(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "simple module",
			text:     "module sample_module\ncontains\nend module sample_module\n",
			expected: "sample_module",
		},
		{
			name:     "case folded",
			text:     "MODULE Sample_Module\nEND MODULE Sample_Module\n",
			expected: "sample_module",
		},
		{
			name:     "standalone program",
			text:     "program main\n    print *, 'hello'\nend program main\n",
			expected: "",
		},
		{
			name:     "commented out module",
			text:     "! module ghost_module\nprogram main\nend program main\n",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ModuleName(tt.text); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestDependencyNames(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "plain use",
			text:     "module m\n    use helper\nend module m\n",
			expected: []string{"helper"},
		},
		{
			name:     "double colon and only clause",
			text:     "use :: alpha\nuse beta, only: thing\n",
			expected: []string{"alpha", "beta"},
		},
		{
			name:     "intrinsic attribute",
			text:     "use, intrinsic :: iso_fortran_env\n",
			expected: []string{"iso_fortran_env"},
		},
		{
			name:     "duplicates removed case insensitively",
			text:     "use Helper\nuse helper\nuse HELPER, only: f\n",
			expected: []string{"helper"},
		},
		{
			name:     "order preserved",
			text:     "use zeta\nuse alpha\nuse zeta\n",
			expected: []string{"zeta", "alpha"},
		},
		{
			name:     "trailing comment use is ignored",
			text:     "integer :: x ! use hidden_module\n",
			expected: nil,
		},
		{
			name:     "commented out use is ignored",
			text:     "! use hidden_module\nuse real_module\n",
			expected: []string{"real_module"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DependencyNames(tt.text)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestTestSubroutines(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name: "declaration extracted once despite end line",
			text: "subroutine test_addition()\n" +
				"    call assert_equal(2, 1+1, 'adds')\n" +
				"end subroutine test_addition\n",
			expected: []string{"test_addition"},
		},
		{
			name: "multiple subroutines in order",
			text: "subroutine test_b()\nend subroutine test_b\n" +
				"subroutine test_a()\nend subroutine test_a\n",
			expected: []string{"test_b", "test_a"},
		},
		{
			name:     "non-test subroutines skipped",
			text:     "subroutine helper()\nend subroutine helper\n",
			expected: nil,
		},
		{
			name:     "commented out declaration skipped",
			text:     "! subroutine test_ghost()\nsubroutine test_real()\nend subroutine test_real\n",
			expected: []string{"test_real"},
		},
		{
			name:     "indented declaration",
			text:     "    subroutine test_indented()\n    end subroutine test_indented\n",
			expected: []string{"test_indented"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TestSubroutines(tt.text)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestScanner_ScanFile(t *testing.T) {
	logger := &log.Logger{Level: log.ErrorLevel}
	scanner := NewScanner(logger)

	t.Run("derives all facts from a file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "test_sample.f90")
		content := "module test_sample\n" +
			"    use fortest_assertions\n" +
			"    use sample_module\n" +
			"contains\n" +
			"    subroutine test_one()\n" +
			"    end subroutine test_one\n" +
			"    subroutine test_error_stop_div()\n" +
			"    end subroutine test_error_stop_div\n" +
			"end module test_sample\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write test file: %v", err)
		}

		unit := scanner.ScanFile(path)
		if unit.ModuleName != "test_sample" {
			t.Errorf("expected module test_sample, got %q", unit.ModuleName)
		}
		if !reflect.DeepEqual(unit.Uses, []string{"fortest_assertions", "sample_module"}) {
			t.Errorf("unexpected uses: %v", unit.Uses)
		}
		if !reflect.DeepEqual(unit.TestSubroutines, []string{"test_one", "test_error_stop_div"}) {
			t.Errorf("unexpected subroutines: %v", unit.TestSubroutines)
		}
		if unit.IsProgram {
			t.Error("module file should not be classified as a program")
		}
	})

	t.Run("missing file yields empty facts", func(t *testing.T) {
		unit := scanner.ScanFile("/non/existent/file.f90")
		if unit.ModuleName != "" || len(unit.Uses) != 0 || len(unit.TestSubroutines) != 0 {
			t.Errorf("expected empty facts, got %+v", unit)
		}
	})
}
