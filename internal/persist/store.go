package persist

// File-backed one-key status store: the persist.path config setting
// holds the last persisted RUN/STOP status so a reboot resumes where the
// controller left off.

import (
	"encoding/json"
	"os"
	"path/filepath"
)

type statusDocument struct {
	Status string `json:"status"`
}

// Store persists a single status string to a JSON file.
type Store struct {
	path string
}

// New creates a Store backed by the given file path.
func New(path string) *Store {
	return &Store{path: path}
}

// Save writes status to the backing file, creating parent directories as
// needed. Writes go through a temp file and rename so a crash mid-write
// cannot leave a truncated status file.
func (s *Store) Save(status string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	data, err := json.Marshal(statusDocument{Status: status})
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Load reads the persisted status. If the file does not exist, it
// returns defaultStatus with no error (boot behavior: default STOP).
func (s *Store) Load(defaultStatus string) (string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return defaultStatus, nil
	}
	if err != nil {
		return "", err
	}

	var doc statusDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", err
	}
	if doc.Status == "" {
		return defaultStatus, nil
	}
	return doc.Status, nil
}
