package backup

import (
	"encoding/json"
	"time"
)

// Snapshot describes a stored dump file.
type Snapshot struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// Dump is the snapshot document. Each collection holds its rows as a raw JSON array.
type Dump struct {
	CreatedAt   time.Time                  `json:"created_at"`
	Collections map[string]json.RawMessage `json:"collections"`
}
