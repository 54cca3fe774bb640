package generate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerator_FullRunner(t *testing.T) {
	g := NewGenerator()

	text := g.FullRunner("test_math", "test_math", []string{"test_add", "test_sub"})

	expected := "program run_test_math\n" +
		"    use fortest_assertions\n" +
		"    use test_math\n" +
		"    implicit none\n" +
		"    call test_add()\n" +
		"    call test_sub()\n" +
		"    call print_summary()\n" +
		"end program run_test_math\n"
	if text != expected {
		t.Errorf("unexpected program text:\n%s", text)
	}
}

func TestGenerator_SingleRunner(t *testing.T) {
	g := NewGenerator()

	text := g.SingleRunner("test_math", "test_add")

	if !strings.Contains(text, "use fortest_assertions\n") {
		t.Error("single runner must use the assertion module")
	}
	if strings.Count(text, "call test_add()") != 1 {
		t.Error("single runner must call exactly one subroutine")
	}
	if strings.Contains(text, "print_summary") {
		t.Error("single runner must not print the summary")
	}
}

func TestGenerator_AbortRunner(t *testing.T) {
	g := NewGenerator()

	text := g.AbortRunner("test_math", "test_error_stop_div")

	if strings.Contains(text, "fortest_assertions") {
		t.Error("abort runner must not use the assertion module")
	}
	if !strings.Contains(text, "call test_error_stop_div()") {
		t.Error("abort runner must call the subroutine")
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	g := NewGenerator()

	subs := []string{"test_a", "test_b"}
	if g.FullRunner("test_m", "test_m", subs) != g.FullRunner("test_m", "test_m", subs) {
		t.Error("full runner output must be byte-identical across calls")
	}
	if g.SingleRunner("m", "test_a") != g.SingleRunner("m", "test_a") {
		t.Error("single runner output must be byte-identical across calls")
	}
	if g.AbortRunner("m", "test_error_stop_a") != g.AbortRunner("m", "test_error_stop_a") {
		t.Error("abort runner output must be byte-identical across calls")
	}
}

func TestGenerator_WriteRunners(t *testing.T) {
	g := NewGenerator()
	dir := t.TempDir()

	t.Run("full runner file name derives from the test file", func(t *testing.T) {
		path, err := g.WriteFullRunner("/proj/test_math.f90", "test_math", []string{"test_add"}, dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if filepath.Base(path) != "gen_runner_test_math.f90" {
			t.Errorf("unexpected file name %s", path)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("driver not written: %v", err)
		}
	})

	t.Run("single runner file name derives from the subroutine", func(t *testing.T) {
		path, err := g.WriteSingleRunner("test_math", "test_add", dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if filepath.Base(path) != "gen_test_add.f90" {
			t.Errorf("unexpected file name %s", path)
		}
	})
}
