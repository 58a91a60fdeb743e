package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LocalStorage keeps catalog source files on disk under a base directory.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage ensures the base directory exists and returns a handle.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./data"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

// SaveStream copies from r into the named file. Names are flattened to their base component
// and a partially written file is removed.
func (s *LocalStorage) SaveStream(filename string, r io.Reader) (string, error) {
	name, err := cleanName(filename)
	if err != nil {
		return "", err
	}
	file, err := os.Create(filepath.Join(s.baseDir, name))
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	_, copyErr := io.Copy(file, r)
	closeErr := file.Close()
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		if err := s.Delete(name); err != nil {
			return "", fmt.Errorf("write %s: %v (cleanup: %w)", name, copyErr, err)
		}
		return "", fmt.Errorf("write %s: %w", name, copyErr)
	}
	return name, nil
}

// List returns the stored file names with the given extension, sorted.
func (s *LocalStorage) List(ext string) ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read data directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ext == "" || strings.EqualFold(filepath.Ext(e.Name()), ext) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// ReadFile returns the content of a stored file.
func (s *LocalStorage) ReadFile(filename string) ([]byte, error) {
	name, err := cleanName(filename)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.baseDir, name))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// Delete removes a stored file if present.
func (s *LocalStorage) Delete(filename string) error {
	name, err := cleanName(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.baseDir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	return nil
}

func cleanName(filename string) (string, error) {
	name := filepath.Base(filepath.Clean(strings.TrimSpace(filename)))
	if name == "." || name == ".." || name == string(filepath.Separator) || name == "" {
		return "", fmt.Errorf("invalid file name %q", filename)
	}
	return name, nil
}
