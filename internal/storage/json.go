package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fortest/internal/domain"
)

// Save writes run statistics and failures to the configured JSON file.
func (s *JSONStorage) Save(stats domain.RunStats, failures []domain.TestFailure, compiler string, duration time.Duration) error {
	output := domain.RunOutput{
		Meta: domain.RunMeta{
			TotalTests:      stats.Total,
			PassedTests:     stats.Passed,
			FailedTests:     stats.Failed,
			Compiler:        compiler,
			Duration:        duration.String(),
			DurationSeconds: duration.Seconds(),
			Timestamp:       time.Now().Format(time.RFC3339),
		},
		Details: failures,
	}
	return s.SaveOutput(&output)
}

// Load reads the last run from the configured JSON file.
func (s *JSONStorage) Load() (*domain.RunOutput, error) {
	data, err := os.ReadFile(s.outputPath)
	if err != nil {
		return nil, fmt.Errorf("read results file: %w", err)
	}
	var output domain.RunOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	return &output, nil
}

// SaveOutput writes the full output to the configured JSON file.
func (s *JSONStorage) SaveOutput(output *domain.RunOutput) error {
	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.outputPath), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(s.outputPath, data, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}
