package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

var truncateOrder = []string{
	"correction_requests",
	"leave_usages",
	"leave_accruals",
	"leave_balances",
	"attendance_months",
	"holidays",
	"users",
}

// openTestDatabase connects to TEST_DATABASE_URL, applies the schema and
// empties every table. Tests are skipped when the variable is unset.
func openTestDatabase(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(context.Background(), dsn, database.PoolSize{MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	ctx := context.Background()
	schema, err := os.ReadFile(filepath.Join("..", "..", "..", "..", "migrations", "0001_init.sql"))
	require.NoError(t, err)
	_, err = db.Exec(ctx, string(schema))
	require.NoError(t, err)

	for _, table := range truncateOrder {
		_, err := db.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err, "truncate %s", table)
	}
	return db
}
