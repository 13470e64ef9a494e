package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var ErrFileNotFound = errors.New("file not found")

type FileStorage interface {
	// Upload stores a file and returns its storage key
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Download retrieves a file
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a file. A missing file is ErrFileNotFound.
	Delete(ctx context.Context, path string) error

	// List returns the files directly under dir, newest first
	List(ctx context.Context, dir string) ([]FileInfo, error)
}

type FileInfo struct {
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
}
