package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/backup"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/storage"
)

const (
	backupDir         = "backups"
	historyCollection = "employee_history"
	nameLayout        = "20060102T150405Z"
)

var snapshotName = regexp.MustCompile(`^backup-\d{8}T\d{6}Z\.json$`)

type BackupServiceImpl struct {
	backup.TableDumper
	user.HistoryRepository
	storage storage.FileStorage
	now     func() time.Time
}

func NewBackupService(dumper backup.TableDumper, historyRepository user.HistoryRepository, fileStorage storage.FileStorage) backup.BackupService {
	return &BackupServiceImpl{
		TableDumper:       dumper,
		HistoryRepository: historyRepository,
		storage:           fileStorage,
		now:               time.Now,
	}
}

// Create implements backup.BackupService.
func (s *BackupServiceImpl) Create(ctx context.Context) (backup.Snapshot, error) {
	tables, err := s.TableDumper.DumpTables(ctx)
	if err != nil {
		return backup.Snapshot{}, fmt.Errorf("failed to dump tables: %w", err)
	}

	history, err := s.HistoryRepository.ListAll(ctx)
	if err != nil {
		return backup.Snapshot{}, fmt.Errorf("failed to read employee history: %w", err)
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return backup.Snapshot{}, fmt.Errorf("failed to encode employee history: %w", err)
	}
	tables[historyCollection] = historyJSON

	createdAt := s.now().UTC()
	body, err := json.Marshal(backup.Dump{CreatedAt: createdAt, Collections: tables})
	if err != nil {
		return backup.Snapshot{}, fmt.Errorf("failed to encode backup: %w", err)
	}

	name := "backup-" + createdAt.Format(nameLayout) + ".json"
	if _, err := s.storage.Upload(ctx, bytes.NewReader(body), path.Join(backupDir, name), "application/json"); err != nil {
		return backup.Snapshot{}, fmt.Errorf("failed to store backup: %w", err)
	}

	slog.Info("Backup created", "name", name, "size", len(body), "collections", len(tables))
	return backup.Snapshot{Name: name, Size: int64(len(body)), CreatedAt: createdAt}, nil
}

// List implements backup.BackupService. Newest first.
func (s *BackupServiceImpl) List(ctx context.Context) ([]backup.Snapshot, error) {
	files, err := s.storage.List(ctx, backupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	snapshots := make([]backup.Snapshot, 0, len(files))
	for _, f := range files {
		if !snapshotName.MatchString(f.Name) {
			continue
		}
		createdAt := f.ModifiedAt
		stamp := strings.TrimSuffix(strings.TrimPrefix(f.Name, "backup-"), ".json")
		if t, err := time.Parse(nameLayout, stamp); err == nil {
			createdAt = t
		}
		snapshots = append(snapshots, backup.Snapshot{Name: f.Name, Size: f.Size, CreatedAt: createdAt})
	}
	return snapshots, nil
}

// Open implements backup.BackupService.
func (s *BackupServiceImpl) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if !snapshotName.MatchString(name) {
		return nil, backup.ErrInvalidName
	}
	rc, err := s.storage.Download(ctx, path.Join(backupDir, name))
	if errors.Is(err, storage.ErrFileNotFound) {
		return nil, backup.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open backup: %w", err)
	}
	return rc, nil
}

// Delete implements backup.BackupService.
func (s *BackupServiceImpl) Delete(ctx context.Context, name string) error {
	if !snapshotName.MatchString(name) {
		return backup.ErrInvalidName
	}
	err := s.storage.Delete(ctx, path.Join(backupDir, name))
	if errors.Is(err, storage.ErrFileNotFound) {
		return backup.ErrSnapshotNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete backup: %w", err)
	}
	slog.Info("Backup deleted", "name", name)
	return nil
}
