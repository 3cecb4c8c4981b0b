package analyzer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ResultFileName is the name of the saved result file.
const ResultFileName = "fndep-result.json"

// Storage handles reading and writing the last result to disk.
type Storage interface {
	// Load loads the result from disk. Returns nil if file doesn't exist.
	Load() (*Result, error)

	// Save saves the result to disk using atomic write pattern.
	Save(res *Result) error

	// Exists checks if the result file exists.
	Exists() bool

	// Path returns the location of the result file.
	Path() string
}

// storage implements Storage with atomic write support.
type storage struct {
	dir string // directory containing the result file (.fndep/)
}

// NewStorage creates a new result storage instance.
func NewStorage(dir string) (Storage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	// Temp directory lives beside the result so the rename stays on one filesystem
	tempDir := filepath.Join(dir, ".tmp")
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	return &storage{dir: dir}, nil
}

// Load loads the result from disk.
func (s *storage) Load() (*Result, error) {
	data, err := os.ReadFile(s.Path())
	if os.IsNotExist(err) {
		return nil, nil // Not an error, just no result yet
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read result file: %w", err)
	}

	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("failed to parse result JSON: %w", err)
	}

	return &res, nil
}

// Save saves the result to disk using atomic write pattern.
func (s *storage) Save(res *Result) error {
	if res.Version == "" {
		res.Version = ResultVersion
	}

	jsonData, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	tempPath := filepath.Join(s.dir, ".tmp", ResultFileName)
	if err := os.WriteFile(tempPath, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write temp result file: %w", err)
	}

	if err := os.Rename(tempPath, s.Path()); err != nil {
		return fmt.Errorf("failed to rename temp result file: %w", err)
	}

	return nil
}

// Exists checks if the result file exists.
func (s *storage) Exists() bool {
	_, err := os.Stat(s.Path())
	return err == nil
}

// Path returns the full path to the result file.
func (s *storage) Path() string {
	return filepath.Join(s.dir, ResultFileName)
}
