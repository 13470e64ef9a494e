package mongodb_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/otp"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/mongodb"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMongo(t *testing.T) *database.MongoDB {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}
	db, err := database.NewMongoDB(uri, "hris_attendance_test_"+uuid.NewString()[:8])
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(context.Background()) })
	return db
}

func TestHistoryRepository_AppendAndList(t *testing.T) {
	ctx := context.Background()
	repo, err := mongodb.NewHistoryRepository(ctx, testMongo(t))
	require.NoError(t, err)

	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	before := user.User{ID: "u1", Name: "John Doe"}
	after := before
	after.Name = "John A. Doe"

	require.NoError(t, repo.Append(ctx, user.Diff(before, after, "hr@example.com", base)))
	after2 := after
	after2.Designation = "Engineer"
	require.NoError(t, repo.Append(ctx, user.Diff(after, after2, "hr@example.com", base.Add(time.Hour))))
	require.NoError(t, repo.Append(ctx, nil))

	entries, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "designation", entries[0].Field, "newest first")
	assert.Equal(t, "name", entries[1].Field)

	none, err := repo.ListByUser(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLoginCodeStore_TakeIsOneShot(t *testing.T) {
	ctx := context.Background()
	store, err := mongodb.NewLoginCodeStore(ctx, testMongo(t))
	require.NoError(t, err)

	entry := otp.Entry{Secret: "JBSWY3DPEHPK3PXP", ExpiresAt: time.Now().Add(time.Minute).Truncate(time.Millisecond)}
	require.NoError(t, store.Save(ctx, "s1", entry))

	got, err := store.Take(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, entry.Secret, got.Secret)

	_, err = store.Take(ctx, "s1")
	assert.ErrorIs(t, err, otp.ErrCodeNotFound)

	require.NoError(t, store.Save(ctx, "s2", otp.Entry{Secret: "x", ExpiresAt: time.Now().Add(-time.Second)}))
	_, err = store.Take(ctx, "s2")
	assert.ErrorIs(t, err, otp.ErrCodeNotFound)
}
