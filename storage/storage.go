// Package storage provides Adapter implementations used to persist
// encoded output: a local filesystem adapter and an S3-compatible adapter.
package storage

import (
	"context"
	"io"
)

// Key uniquely identifies a stored object.
type Key struct {
	Bucket string
	Path   string
}

// Adapter persists and retrieves encoded images.
type Adapter interface {
	Put(ctx context.Context, key Key, r io.Reader, meta map[string]string) error
	Get(ctx context.Context, key Key) (io.ReadCloser, error)
	Delete(ctx context.Context, key Key) error
	Exists(ctx context.Context, key Key) (bool, error)
}
