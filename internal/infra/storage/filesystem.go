package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/zeebo/xxh3"
)

// FileStore keeps signature images as write-once files under a directory.
// References are bare file names: "<xxh3 of content>-<random>.png".
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "storage.NewFileStore: mkdir failed")
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) Put(ctx context.Context, png []byte) (string, error) {
	ref := fmt.Sprintf("%016x-%s.png", xxh3.Hash(png), uuid.NewString()[:8])

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", errors.Wrap(err, "FileStore.Put: create temp failed")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(png); err != nil {
		tmp.Close()
		return "", errors.Wrap(err, "FileStore.Put: write failed")
	}
	if err := tmp.Close(); err != nil {
		return "", errors.Wrap(err, "FileStore.Put: close failed")
	}
	if err := os.Chmod(tmp.Name(), 0o444); err != nil {
		return "", errors.Wrap(err, "FileStore.Put: chmod failed")
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, ref)); err != nil {
		return "", errors.Wrap(err, "FileStore.Put: rename failed")
	}
	return ref, nil
}

func (s *FileStore) Remove(ctx context.Context, ref string) error {
	path, err := s.path(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "FileStore.Remove failed")
	}
	return nil
}

// Verify reports whether the stored bytes still match the digest in the reference.
func (s *FileStore) Verify(ref string) (bool, error) {
	path, err := s.path(ref)
	if err != nil {
		return false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, errors.Wrap(err, "FileStore.Verify: read failed")
	}
	digest, _, _ := strings.Cut(ref, "-")
	return digest == fmt.Sprintf("%016x", xxh3.Hash(data)), nil
}

func (s *FileStore) path(ref string) (string, error) {
	if ref == "" || ref != filepath.Base(ref) || strings.HasPrefix(ref, ".") {
		return "", errors.Errorf("invalid signature reference %q", ref)
	}
	return filepath.Join(s.dir, ref), nil
}
