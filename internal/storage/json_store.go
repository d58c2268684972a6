package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Veraticus/mood2movie/internal/model"
	"github.com/Veraticus/mood2movie/internal/service"
)

// JSONStore keeps one pretty-printed JSON document per user in a directory.
type JSONStore struct {
	dir string
}

var _ service.LibraryStore = (*JSONStore)(nil)

// NewJSONStore creates a store rooted at dir. The directory is created lazily
// on the first save.
func NewJSONStore(dir string) (*JSONStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage directory cannot be empty")
	}
	return &JSONStore{dir: dir}, nil
}

func (s *JSONStore) path(username string) (string, error) {
	key, err := UserKey(username)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, key+".json"), nil
}

// Save replaces the user's document. The new content is written to a temp
// file and renamed into place so a crash never leaves a truncated document.
func (s *JSONStore) Save(ctx context.Context, username string, library model.Library) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateLibrary(library); err != nil {
		return err
	}
	path, err := s.path(username)
	if err != nil {
		return err
	}

	data, err := encodeLibrary(library)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write library: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync library: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close library: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace library: %w", err)
	}

	slog.Debug("library saved", "path", path, "titles", len(library))
	return nil
}

// Load reads the user's document. A user with no document gets an empty library.
func (s *JSONStore) Load(ctx context.Context, username string) (model.Library, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	path, err := s.path(username)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.Library{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read library: %w", err)
	}

	library, err := decodeLibrary(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	slog.Debug("library loaded", "path", path, "titles", len(library))
	return library, nil
}

// Users lists the keys of every document in the directory. A directory that
// was never written to holds no users.
func (s *JSONStore) Users(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list storage directory: %w", err)
	}

	users := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		users = append(users, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(users)
	return users, nil
}

// Close is a no-op; the store holds no open handles.
func (s *JSONStore) Close() error {
	return nil
}
