package domain

// TestResult is the outcome of executing one test case.
type TestResult struct {
	Name    string // Test name
	Passed  bool   // Whether the test passed
	Message string // Free-text detail (assertion text, compiler diagnostics, ...)
}

// RunStats aggregates results for one run. It is owned by the top-level
// run command and passed into the executor, so repeated runs in the same
// process never share counters.
type RunStats struct {
	Total  int
	Passed int
	Failed int
}

// Record updates the counters with one result.
func (s *RunStats) Record(r TestResult) {
	s.Total++
	if r.Passed {
		s.Passed++
	} else {
		s.Failed++
	}
}

// AllPassed reports whether at least one test ran and none failed.
func (s *RunStats) AllPassed() bool {
	return s.Total > 0 && s.Failed == 0
}

// RunMeta contains metadata about a persisted test run.
type RunMeta struct {
	TotalTests      int     `json:"total_tests"`
	PassedTests     int     `json:"passed_tests"`
	FailedTests     int     `json:"failed_tests"`
	Compiler        string  `json:"compiler"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Timestamp       string  `json:"timestamp"`
}

// RunOutput is the complete persisted structure for a test run.
type RunOutput struct {
	Meta    RunMeta       `json:"meta"`
	Details []TestFailure `json:"details"`
}
