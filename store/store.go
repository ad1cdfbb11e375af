package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"econtent/types"
)

// OutputStore persists task outcomes to an append-only JSONL file.
// One writer at a time; append is the only mutation.
type OutputStore struct {
	path string
}

// NewOutputStore creates a store writing to path, creating parent
// directories as needed.
func NewOutputStore(path string) (*OutputStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return &OutputStore{path: path}, nil
}

// Path returns the underlying file path
func (s *OutputStore) Path() string {
	return s.path
}

// Write appends one record as a single JSON line
func (s *OutputStore) Write(rec *types.OutputRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal output record: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open output store: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to append output record: %w", err)
	}
	return nil
}
