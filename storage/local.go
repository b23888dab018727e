package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	imgerr "github.com/Skryldev/imgfit/errors"
)

// Local stores images on the local filesystem.
type Local struct {
	rootDir     string
	permissions os.FileMode
}

// NewLocal creates a Local storage adapter rooted at dir.
func NewLocal(dir string, perm os.FileMode) (*Local, error) {
	if perm == 0 {
		perm = 0o644
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("local storage: mkdir %s: %w", dir, err)
	}
	return &Local{rootDir: dir, permissions: perm}, nil
}

func (l *Local) absPath(key Key) string {
	return filepath.Join(l.rootDir, filepath.Clean(key.Bucket), filepath.Clean(key.Path))
}

func (l *Local) Put(ctx context.Context, key Key, r io.Reader, meta map[string]string) error {
	if err := ctx.Err(); err != nil {
		return imgerr.Wrap(imgerr.CodeOutputFailed, "storage.local.put", err)
	}

	path := l.absPath(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return imgerr.Wrap(imgerr.CodeOutputFailed, "storage.local.put.mkdir", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, l.permissions)
	if err != nil {
		return imgerr.Wrap(imgerr.CodeOutputFailed, "storage.local.put.open", err)
	}
	defer f.Close()

	if _, err = io.Copy(f, r); err != nil {
		return imgerr.Wrap(imgerr.CodeOutputFailed, "storage.local.put.copy", err)
	}

	if len(meta) > 0 {
		metaPath := path + ".meta.json"
		mf, err := os.OpenFile(metaPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, l.permissions)
		if err == nil {
			_ = json.NewEncoder(mf).Encode(meta)
			mf.Close()
		}
	}
	return nil
}

func (l *Local) Get(ctx context.Context, key Key) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, imgerr.Wrap(imgerr.CodeOutputFailed, "storage.local.get", err)
	}
	f, err := os.Open(l.absPath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, imgerr.New(imgerr.CodeOutputFailed, "storage.local.get", fmt.Errorf("key not found: %v", key))
		}
		return nil, imgerr.Wrap(imgerr.CodeOutputFailed, "storage.local.get.open", err)
	}
	return f, nil
}

func (l *Local) Delete(ctx context.Context, key Key) error {
	if err := ctx.Err(); err != nil {
		return imgerr.Wrap(imgerr.CodeOutputFailed, "storage.local.delete", err)
	}
	path := l.absPath(key)
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return imgerr.Wrap(imgerr.CodeOutputFailed, "storage.local.delete", err)
	}
	_ = os.Remove(path + ".meta.json")
	return nil
}

func (l *Local) Exists(ctx context.Context, key Key) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, imgerr.Wrap(imgerr.CodeOutputFailed, "storage.local.exists", err)
	}
	_, err := os.Stat(l.absPath(key))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, imgerr.Wrap(imgerr.CodeOutputFailed, "storage.local.exists.stat", err)
}
