package parser

import (
	"reflect"
	"testing"

	"fortest/internal/domain"
)

func TestOutputParser_Parse(t *testing.T) {
	p := NewOutputParser()

	tests := []struct {
		name     string
		output   string
		expected []domain.TestResult
	}{
		{
			name:   "pass and fail tags",
			output: "[PASS] adds two numbers\n[FAIL] divides by zero\n",
			expected: []domain.TestResult{
				{Name: "adds two numbers", Passed: true},
				{Name: "divides by zero", Passed: false},
			},
		},
		{
			name:   "ansi codes stripped",
			output: "\x1b[32m[PASS]\x1b[0m colored assertion\n",
			expected: []domain.TestResult{
				{Name: "colored assertion", Passed: true},
			},
		},
		{
			name:   "summary count lines skipped",
			output: "[PASS] real result\n[PASS]   9\n[FAIL]   0\n",
			expected: []domain.TestResult{
				{Name: "real result", Passed: true},
			},
		},
		{
			name:     "no tags yields nothing",
			output:   "STOP 0\nsome chatter\n",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Parse(tt.output)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestOutputParser_FilterBuildNoise(t *testing.T) {
	p := NewOutputParser()

	output := "fpm build complete\n" +
		"+ gfortran -c src/m.f90\n" +
		"[PASS] keeps results\n" +
		"       expected 1 but got 2\n" +
		"STOP 0\n" +
		"unrelated chatter\n"

	got := p.FilterBuildNoise(output)
	want := "[PASS] keeps results\n" +
		"       expected 1 but got 2\n" +
		"unrelated chatter"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
