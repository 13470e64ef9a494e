package backup

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/backup"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hris-attendance-go/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDumper struct {
	tables map[string]json.RawMessage
	err    error
}

func (d stubDumper) DumpTables(ctx context.Context) (map[string]json.RawMessage, error) {
	if d.err != nil {
		return nil, d.err
	}
	out := make(map[string]json.RawMessage, len(d.tables))
	for k, v := range d.tables {
		out[k] = v
	}
	return out, nil
}

func newBackupService(t *testing.T, dumper backup.TableDumper) *BackupServiceImpl {
	t.Helper()
	fs, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	history := &servicetest.History{}
	require.NoError(t, history.Append(context.Background(), []user.History{{ID: "h1", UserID: "u1", Field: "name", OldValue: "a", NewValue: "b"}}))

	svc := NewBackupService(dumper, history, fs).(*BackupServiceImpl)
	svc.now = func() time.Time { return time.Date(2026, 2, 10, 12, 30, 0, 0, time.UTC) }
	return svc
}

func TestCreateListOpen(t *testing.T) {
	ctx := context.Background()
	svc := newBackupService(t, stubDumper{tables: map[string]json.RawMessage{
		"users":    json.RawMessage(`[{"id":"u1","name":"John"}]`),
		"holidays": json.RawMessage(`[]`),
	}})

	snap, err := svc.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, "backup-20260210T123000Z.json", snap.Name)
	assert.Positive(t, snap.Size)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, snap.Name, list[0].Name)
	assert.Equal(t, snap.CreatedAt, list[0].CreatedAt)

	rc, err := svc.Open(ctx, snap.Name)
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)

	var dump backup.Dump
	require.NoError(t, json.Unmarshal(body, &dump))
	assert.Contains(t, dump.Collections, "users")
	assert.Contains(t, dump.Collections, "holidays")
	assert.Contains(t, string(dump.Collections["employee_history"]), `"field":"name"`)
}

func TestOpen_RejectsBadNames(t *testing.T) {
	svc := newBackupService(t, stubDumper{})

	_, err := svc.Open(context.Background(), "../config.json")
	assert.ErrorIs(t, err, backup.ErrInvalidName)

	_, err = svc.Open(context.Background(), "backup-20200101T000000Z.json")
	assert.ErrorIs(t, err, backup.ErrSnapshotNotFound)
}

func TestCreate_DumpFailure(t *testing.T) {
	svc := newBackupService(t, stubDumper{err: errors.New("connection reset")})

	_, err := svc.Create(context.Background())
	assert.Error(t, err)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc := newBackupService(t, stubDumper{tables: map[string]json.RawMessage{"users": json.RawMessage(`[]`)}})

	snap, err := svc.Create(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, snap.Name))
	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, svc.Delete(ctx, snap.Name), backup.ErrSnapshotNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "../config.json"), backup.ErrInvalidName)
}
