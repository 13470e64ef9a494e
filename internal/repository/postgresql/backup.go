package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/backup"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
)

// BackupTables are dumped in dependency order.
var BackupTables = []string{
	"users",
	"holidays",
	"attendance_months",
	"leave_balances",
	"leave_accruals",
	"leave_usages",
	"correction_requests",
}

type backupRepositoryImpl struct {
	db *database.DB
}

func NewBackupRepository(db *database.DB) backup.TableDumper {
	return &backupRepositoryImpl{db: db}
}

// DumpTables implements backup.TableDumper. All tables are read from one snapshot
// when ctx carries a transaction.
func (r *backupRepositoryImpl) DumpTables(ctx context.Context) (map[string]json.RawMessage, error) {
	q := GetQuerier(ctx, r.db)

	out := make(map[string]json.RawMessage, len(BackupTables))
	for _, table := range BackupTables {
		var raw []byte
		query := fmt.Sprintf(`SELECT COALESCE(json_agg(t), '[]'::json) FROM %s t`, table)
		if err := q.QueryRow(ctx, query).Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to dump %s: %w", table, err)
		}
		out[table] = json.RawMessage(raw)
	}
	return out, nil
}
