package services

import (
	"context"
	"io"
)

// UploadedFile represents a file uploaded by the user
type UploadedFile struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// StoredObject is a stored file opened for reading
type StoredObject struct {
	Content     io.ReadCloser
	Size        int64
	ContentType string
}

// ObjectStore stores and retrieves raw file bytes by key. The core only
// consumes a reference; the storage medium behind it is external.
type ObjectStore interface {
	// Put stores the object under key
	Put(ctx context.Context, key string, content io.Reader, size int64, contentType string) error

	// Get opens the object for reading
	Get(ctx context.Context, key string) (*StoredObject, error)

	// Remove deletes the object
	Remove(ctx context.Context, key string) error
}
