package backup

import (
	"context"
	"io"
)

type BackupService interface {
	Create(ctx context.Context) (Snapshot, error)
	List(ctx context.Context) ([]Snapshot, error)
	// Open streams a snapshot. The caller closes the reader.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error
}
