package snapshot

import (
	"context"
	"os"
	"path/filepath"

	"github.com/vango-dev/head/internal/errors"
)

// FileStore writes snapshots under a directory.
type FileStore struct {
	dir string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a FileStore, creating dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.New("E301").WithDetail(dir).Wrap(err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the root directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Put writes body to key. The file is replaced atomically.
func (s *FileStore) Put(ctx context.Context, key string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key, err := CleanKey(key)
	if err != nil {
		return err
	}

	dst := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.New("E301").WithDetail(key).Wrap(err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".snapshot-*")
	if err != nil {
		return errors.New("E301").WithDetail(key).Wrap(err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return errors.New("E301").WithDetail(key).Wrap(err)
	}
	if err := tmp.Close(); err != nil {
		return errors.New("E301").WithDetail(key).Wrap(err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return errors.New("E301").WithDetail(key).Wrap(err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return errors.New("E301").WithDetail(key).Wrap(err)
	}
	return nil
}
