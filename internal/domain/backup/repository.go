package backup

import (
	"context"
	"encoding/json"
)

// TableDumper exports relational tables as JSON arrays keyed by table name.
type TableDumper interface {
	DumpTables(ctx context.Context) (map[string]json.RawMessage, error)
}
