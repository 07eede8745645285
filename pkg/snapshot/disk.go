package snapshot

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// tempPrefix marks files still being written.
const tempPrefix = ".tmp-"

// DiskStore stores frames as files under a directory. Keys map to relative
// paths; writes go to a temp file that is renamed into place.
type DiskStore struct {
	dir string
}

// NewDiskStore creates a DiskStore rooted at dir, creating it if needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, storeError("create", dir, err)
	}
	return &DiskStore{dir: dir}, nil
}

// Dir returns the store's root directory.
func (s *DiskStore) Dir() string {
	return s.dir
}

func (s *DiskStore) path(key string) string {
	return filepath.Join(s.dir, filepath.FromSlash(key))
}

// Put writes data under key.
func (s *DiskStore) Put(ctx context.Context, key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return storeError("put", key, err)
	}

	target := s.path(key)
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return storeError("put", key, err)
	}

	f, err := os.CreateTemp(filepath.Dir(target), tempPrefix+"*")
	if err != nil {
		return storeError("put", key, err)
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return storeError("put", key, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return storeError("put", key, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return storeError("put", key, err)
	}
	return nil
}

// Get reads the file under key.
func (s *DiskStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound(key)
	}
	if err != nil {
		return nil, storeError("get", key, err)
	}
	return data, nil
}

// List walks the directory and returns the keys starting with prefix.
func (s *DiskStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(s.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), tempPrefix) {
			return nil
		}
		rel, err := filepath.Rel(s.dir, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, storeError("list", prefix, err)
	}
	sort.Strings(keys)
	return keys, nil
}
