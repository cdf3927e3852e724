package localfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"moviecatalog/poster"
)

// PosterStore implements poster.Storage on a local directory that is also
// served statically.
type PosterStore struct {
	Dir string
}

func NewPosterStore(dir string) *PosterStore {
	return &PosterStore{Dir: dir}
}

func (s *PosterStore) path(name string) string {
	return filepath.Join(s.Dir, filepath.Base(name))
}

// Save writes content to a new file. Existing files are never overwritten.
func (s *PosterStore) Save(_ context.Context, name string, content io.Reader) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}

	p := s.path(name)
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(f, content); err != nil {
		_ = f.Close()
		_ = os.Remove(p)
		return err
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(p)
		return err
	}

	return nil
}

// Remove deletes a stored poster. Anything that is not a regular file
// inside Dir, including Dir's parent named as "..", counts as missing.
func (s *PosterStore) Remove(_ context.Context, name string) error {
	switch name = filepath.Base(name); name {
	case ".", "..", string(filepath.Separator):
		return poster.ErrImageMissing
	}

	p := s.path(name)
	info, err := os.Lstat(p)
	if errors.Is(err, fs.ErrNotExist) {
		return poster.ErrImageMissing
	}
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return poster.ErrImageMissing
	}

	err = os.Remove(p)
	if errors.Is(err, fs.ErrNotExist) {
		return poster.ErrImageMissing
	}
	return err
}
