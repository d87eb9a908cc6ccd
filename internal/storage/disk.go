package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

// DiskStorage writes images below a public root directory served as static
// files.
type DiskStorage struct {
	Root string
}

func NewDiskStorage(root string) *DiskStorage {
	return &DiskStorage{Root: root}
}

func (d *DiskStorage) Save(ctx context.Context, path string, reader io.Reader, size int64) error {
	full := filepath.Join(d.Root, filepath.FromSlash(path))

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}

	file, err := os.Create(full)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = io.Copy(file, reader)
	return err
}

func (d *DiskStorage) Delete(ctx context.Context, path string) error {
	full := filepath.Join(d.Root, filepath.FromSlash(path))

	err := os.Remove(full)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (d *DiskStorage) Exists(ctx context.Context, path string) (bool, error) {
	full := filepath.Join(d.Root, filepath.FromSlash(path))

	_, err := os.Stat(full)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
