package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// SessionStore persists sessions by id.
type SessionStore interface {
	Save(s *Session) error          // upsert by id
	Get(id string) (*Session, error) // returns ErrNotFound if none exists
	List() ([]Summary, error)
	Delete(id string) error
}

// Summary is the listing view of a stored session.
type Summary struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Status      Status     `json:"status"`
	FinalScore  *float64   `json:"final_score,omitempty"`
	Answered    int        `json:"answered"`
	Total       int        `json:"total"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Summarize returns the listing view of s.
func (s *Session) Summarize() Summary {
	p := s.Progress()
	return Summary{
		ID:          s.ID,
		Name:        s.Name,
		Email:       s.Email,
		Status:      s.Status,
		FinalScore:  s.FinalScore,
		Answered:    p.Answered,
		Total:       p.Total,
		CreatedAt:   s.CreatedAt,
		CompletedAt: s.CompletedAt,
	}
}

// fileStore keeps one JSON file per session in a directory.
type fileStore struct {
	dir string
}

// NewFileStore returns a SessionStore writing <dir>/<id>.json files. An empty
// dir selects DataDir()/sessions.
func NewFileStore(dir string) (SessionStore, error) {
	if dir == "" {
		base, err := DataDir()
		if err != nil {
			return nil, fmt.Errorf("resolving data directory: %w", err)
		}
		dir = filepath.Join(base, "sessions")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &fileStore{dir: dir}, nil
}

// DataDir returns the screener XDG data directory:
// $XDG_DATA_HOME/screener or ~/.local/share/screener.
func DataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "screener"), nil
}

func (f *fileStore) path(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("invalid session id %q", id)
	}
	return filepath.Join(f.dir, id+".json"), nil
}

// Save marshals s to JSON and writes it atomically via a temp file + os.Rename.
func (f *fileStore) Save(s *Session) (err error) {
	path, err := f.path(s.ID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to persist session state: %w", err)
	}

	tmp, err := os.CreateTemp(f.dir, "session-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to persist session state: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to persist session state: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to persist session state: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to persist session state: %w", err)
	}
	return nil
}

// Get reads the session with the given id.
func (f *fileStore) Get(id string) (*Session, error) {
	path, err := f.path(id)
	if err != nil {
		return nil, err
	}
	return readSession(path)
}

func readSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read session state: %w", err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse session state %s: %w", filepath.Base(path), err)
	}
	return &s, nil
}

// List returns summaries of every stored session, oldest first.
func (f *fileStore) List() ([]Summary, error) {
	paths, err := filepath.Glob(filepath.Join(f.dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	out := make([]Summary, 0, len(paths))
	for _, p := range paths {
		s, err := readSession(p)
		if err != nil {
			return nil, err
		}
		out = append(out, s.Summarize())
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Delete removes the session file. Deleting an unknown id returns ErrNotFound.
func (f *fileStore) Delete(id string) error {
	path, err := f.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete session state: %w", err)
	}
	return nil
}
