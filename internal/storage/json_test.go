package storage

import (
	"path/filepath"
	"testing"
	"time"

	"fortest/internal/domain"
)

func TestJSONStorage_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage", "test-results.json")
	st := NewJSONStorage(path)

	stats := domain.RunStats{Total: 3, Passed: 2, Failed: 1}
	failures := []domain.TestFailure{
		{TestName: "test_div", FilePath: "tests/test_math.f90", Message: "expected 2 but got 3"},
	}

	if err := st.Save(stats, failures, "gfortran", 1500*time.Millisecond); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	output, err := st.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if output.Meta.TotalTests != 3 || output.Meta.PassedTests != 2 || output.Meta.FailedTests != 1 {
		t.Errorf("unexpected meta: %+v", output.Meta)
	}
	if output.Meta.Compiler != "gfortran" {
		t.Errorf("expected compiler gfortran, got %q", output.Meta.Compiler)
	}
	if len(output.Details) != 1 || output.Details[0].TestName != "test_div" {
		t.Errorf("unexpected details: %+v", output.Details)
	}
}

func TestJSONStorage_LoadMissing(t *testing.T) {
	st := NewJSONStorage(filepath.Join(t.TempDir(), "missing.json"))
	if _, err := st.Load(); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestJSONStorage_SaveOutputRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test-results.json")
	st := NewJSONStorage(path)

	output := &domain.RunOutput{
		Details: []domain.TestFailure{{TestName: "test_a", Resolved: true}},
	}
	if err := st.SaveOutput(output); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := st.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !loaded.Details[0].Resolved {
		t.Error("resolved flag not persisted")
	}
}
