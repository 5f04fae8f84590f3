package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// stateVersion is bumped when the document schema changes so Load can
	// apply migrations later.
	stateVersion = 1

	stateFileName = "profile.json"
	appDirName    = "zenscreen"
)

// FileStore loads and saves the session document on disk. It is the durable
// copy; the remote document store is best-effort on top of it.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir. Pass an empty string to use
// the default XDG state path.
func NewFileStore(dir string) *FileStore {
	if dir == "" {
		dir = defaultStateDir()
	}
	return &FileStore{dir: dir}
}

// Path returns the full path of the profile file.
func (f *FileStore) Path() string {
	return filepath.Join(f.dir, stateFileName)
}

// Load reads the session document. A missing file yields a fresh profile.
func (f *FileStore) Load() (*State, error) {
	data, err := os.ReadFile(f.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return NewState(), nil
		}
		return nil, fmt.Errorf("reading profile: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parsing profile: %w", err)
	}
	st.initDefaults()
	return &st, nil
}

// Save writes the document using the atomic temp-file-then-rename pattern,
// creating the directory if needed.
func (f *FileStore) Save(st *State) error {
	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}

	st.Version = stateVersion
	st.LastUpdated = time.Now().UTC()

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling profile: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(f.dir, ".profile-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, f.Path()); err != nil {
		return fmt.Errorf("renaming profile: %w", err)
	}
	committed = true

	return nil
}

// defaultStateDir returns ~/.local/state/zenscreen, respecting XDG_STATE_HOME.
func defaultStateDir() string {
	if base := os.Getenv("XDG_STATE_HOME"); base != "" {
		return filepath.Join(base, appDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".local", "state", appDirName)
}
