package backup

import "errors"

var (
	ErrSnapshotNotFound = errors.New("backup snapshot not found")
	ErrInvalidName      = errors.New("invalid backup name")
)
