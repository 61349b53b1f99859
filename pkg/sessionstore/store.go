package sessionstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Store keeps one serialized value per key as a JSON file under a base
// directory. It backs the durable copy of the current session identity:
// written on login, removed on logout, read once at startup.
type Store struct {
	baseDir string
}

// New ensures the base directory exists and returns a handle.
func New(baseDir string) (*Store, error) {
	if baseDir == "" {
		baseDir = ".session"
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}
	return &Store{baseDir: baseDir}, nil
}

// Save marshals v and writes it under key, replacing any previous value.
func (s *Store) Save(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal session value: %w", err)
	}
	if err := os.WriteFile(s.resolve(key), data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// Load reads the value stored under key into v. It returns false when no
// value exists. Corrupted content is discarded and reported as absent so a
// stale or malformed session never surfaces as an error to callers.
func (s *Store) Load(key string, v interface{}) (bool, error) {
	data, err := os.ReadFile(s.resolve(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read session file: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		_ = os.Remove(s.resolve(key))
		return false, nil
	}
	return true, nil
}

// Clear removes the value stored under key. Missing values are not an error.
func (s *Store) Clear(key string) error {
	if err := os.Remove(s.resolve(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear session file: %w", err)
	}
	return nil
}

func (s *Store) resolve(key string) string {
	return filepath.Join(s.baseDir, key+".json")
}
