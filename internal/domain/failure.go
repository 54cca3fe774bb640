package domain

// TestFailure is a failed test case as persisted for the faills viewer.
type TestFailure struct {
	TestName string `json:"test_name"`
	FilePath string `json:"file_path"`
	Message  string `json:"message"`
	Resolved bool   `json:"resolved,omitempty"` // Marked handled in the viewer
}
