package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spampipe/spampipe/pkg/learning"
)

// FileStore persists model snapshots as indented JSON files
type FileStore struct {
	path string
}

// NewFileStore creates a file store writing to the given path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the snapshot file path
func (s *FileStore) Path() string {
	return s.path
}

// Save writes the snapshot to the store path
func (s *FileStore) Save(ctx context.Context, snap *learning.Snapshot) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create model directory: %v", err)
		}
	}

	file, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to create model file: %v", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode model: %v", err)
	}

	return nil
}

// Load reads a snapshot from the store path
func (s *FileStore) Load(ctx context.Context) (*learning.Snapshot, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model file: %v", err)
	}
	defer file.Close()

	var snap learning.Snapshot
	if err := json.NewDecoder(file).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode model: %v", err)
	}

	return &snap, nil
}
