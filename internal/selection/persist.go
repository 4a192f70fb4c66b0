package selection

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"routine2cal/internal/model"
)

// The selection list persists as a single JSON document so a restart
// restores the user's timetable. Writes are atomic (temp file + rename).

type stateFile struct {
	Selections []model.SelectedSession `json:"selections"`
}

// LoadFile replaces the store contents with the state at path. A missing
// file leaves the store empty and is not an error.
func (s *Store) LoadFile(path string) error {
	if path == "" {
		return errors.New("state path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	var state stateFile
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = state.Selections
	return nil
}

// SaveFile writes the current selections to path with 0600 permissions,
// creating the parent directory if needed.
func (s *Store) SaveFile(path string) error {
	if path == "" {
		return errors.New("state path is empty")
	}

	state := stateFile{Selections: s.List()}
	data, err := json.MarshalIndent(&state, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".routine2cal-state-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
