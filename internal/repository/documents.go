package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

var (
	ErrNotExist  = errors.New("document doesn't exist")
	ErrMalformed = errors.New("document is malformed")
)

// Documents stores whole documents by name. Every Write replaces the previous content in full.
type Documents interface {
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, data []byte) error
}

// Files keeps each document in its own file; the document name is the file path.
type Files struct {
	perm fs.FileMode
}

func NewFiles() *Files {
	return &Files{
		perm: 0644,
	}
}

func (f *Files) Read(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("repository.Files, read %s: %w", name, err)
	}
	return data, nil
}

// Write writes data next to the target and renames it over, so a crash mid-write
// never leaves a half-written document behind.
func (f *Files) Write(_ context.Context, name string, data []byte) error {
	dir := filepath.Dir(name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("repository.Files, create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(name)+".*.tmp")
	if err != nil {
		return fmt.Errorf("repository.Files, create temp file for %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("repository.Files, write %s: %w", name, err)
	}
	if err = tmp.Chmod(f.perm); err != nil {
		tmp.Close()
		return fmt.Errorf("repository.Files, chmod %s: %w", name, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("repository.Files, close %s: %w", name, err)
	}
	if err = os.Rename(tmp.Name(), name); err != nil {
		return fmt.Errorf("repository.Files, replace %s: %w", name, err)
	}
	return nil
}
