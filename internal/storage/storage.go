package storage

import (
	"time"

	"fortest/internal/domain"
)

// Storage persists and loads test run results (e.g. for the faills viewer).
type Storage interface {
	Save(stats domain.RunStats, failures []domain.TestFailure, compiler string, duration time.Duration) error
	Load() (*domain.RunOutput, error)
	// SaveOutput writes the full output (e.g. after resolving failures in the viewer).
	SaveOutput(output *domain.RunOutput) error
}

// JSONStorage stores results in a JSON file under the configured output path.
type JSONStorage struct {
	outputPath string
}

// NewJSONStorage returns a Storage that reads/writes the given JSON path.
func NewJSONStorage(outputPath string) *JSONStorage {
	return &JSONStorage{outputPath: outputPath}
}
