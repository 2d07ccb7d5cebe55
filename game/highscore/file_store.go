package highscore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore implements Store as a single JSON file holding a string map. The
// whole map is rewritten on every Set; the values it holds are tiny.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a file-backed store at path, creating the parent
// directory if needed. The file itself is created on first Set.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return &FileStore{path: path}, nil
}

// Get returns the stored value for key. A missing or unreadable file reads as
// absent; the tracker treats absent as zero.
func (fs *FileStore) Get(key string) (string, bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	values, err := fs.read()
	if err != nil {
		return "", false
	}

	value, ok := values[key]
	return value, ok
}

// Set stores value under key and rewrites the file
func (fs *FileStore) Set(key, value string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	values, err := fs.read()
	if err != nil {
		// Start fresh over an unreadable file rather than fail the write
		values = make(map[string]string)
	}
	values[key] = value

	jsonData, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store data: %w", err)
	}

	if err := os.WriteFile(fs.path, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}

	return nil
}

func (fs *FileStore) read() (map[string]string, error) {
	jsonData, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}

	values := make(map[string]string)
	if err := json.Unmarshal(jsonData, &values); err != nil {
		return nil, err
	}
	return values, nil
}
