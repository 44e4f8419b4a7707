// Package storage defines the file storage abstraction shared by ingest and
// integration backends (local disk, S3-compatible object stores).
package storage

import (
	"context"
	"mime/multipart"
)

// File describes a file that has been saved to a Storage backend.
type File struct {
	Filename     string
	Size         int64
	MIMEType     string
	Extension    string
	AbsolutePath string // set for local backends, empty when not applicable (e.g. S3)
	RelativePath string
}

// Entry describes one item returned by List.
type Entry struct {
	Name  string
	Path  string
	IsDir bool
	Size  int64
}

// Storage is the contract every file storage backend implements.
type Storage interface {
	Save(ctx context.Context, fh *multipart.FileHeader, path string) (*File, error)
	Delete(ctx context.Context, path string) error
	DeleteDir(ctx context.Context, dir string) error
	Exists(ctx context.Context, path string) bool
	List(ctx context.Context, dir string) ([]Entry, error)
	URL(path string) string
}
