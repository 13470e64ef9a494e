package postgresql_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/correction"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createUser(t *testing.T, db *database.DB, code, name, email string) user.User {
	t.Helper()
	u, err := postgresql.NewUserRepository(db).Create(context.Background(), user.User{
		EmployeeCode: code,
		Name:         name,
		Email:        email,
		IsActive:     true,
		Schedule:     user.DefaultSchedule(),
	})
	require.NoError(t, err)
	return u
}

func TestUserRepository(t *testing.T) {
	db := openTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(db)

	created := createUser(t, db, "E001", "John.Doe", "john@example.com")
	assert.NotEmpty(t, created.ID)
	assert.Empty(t, created.ExtraInfo)

	noCode := createUser(t, db, "", "Alex Kim", "alex@example.com")
	assert.Empty(t, noCode.EmployeeCode, "missing codes are stored as NULL and do not collide")
	createUser(t, db, "", "Priya Sharma", "priya@example.com")

	_, err := repo.Create(ctx, user.User{Name: "Dup", Email: "john@example.com", Schedule: user.DefaultSchedule()})
	assert.ErrorIs(t, err, user.ErrUserEmailExists)
	_, err = repo.Create(ctx, user.User{EmployeeCode: "E001", Name: "Dup", Email: "dup@example.com", Schedule: user.DefaultSchedule()})
	assert.ErrorIs(t, err, user.ErrEmployeeCodeExists)

	require.NoError(t, repo.UpdateSchedule(ctx, created.ID, user.Schedule{ShiftStart: "10:00", ShiftEnd: "19:00", GraceMinutes: 5}))
	require.NoError(t, repo.UpdateExtraInfo(ctx, created.ID, user.ExtraInfo{{Label: "Blood Group", Value: "O+"}}))

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "10:00", got.Schedule.ShiftStart)
	assert.Equal(t, user.ExtraInfo{{Label: "Blood Group", Value: "O+"}}, got.ExtraInfo)

	got.IsActive = false
	_, err = repo.Update(ctx, got)
	require.NoError(t, err)

	active, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	_, err = repo.GetByID(ctx, "0190b6e4-0000-7000-8000-000000000000")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
	assert.ErrorIs(t, repo.UpdateSchedule(ctx, "0190b6e4-0000-7000-8000-000000000000", user.DefaultSchedule()), user.ErrUserNotFound)
}

func TestHolidayRepository_UniqueDate(t *testing.T) {
	db := openTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewHolidayRepository(db)

	h, err := repo.Create(ctx, holiday.Holiday{Date: "2026-01-26", Name: "Republic Day"})
	require.NoError(t, err)
	assert.Equal(t, "2026-01-26", h.Date)

	_, err = repo.Create(ctx, holiday.Holiday{Date: "2026-01-26", Name: "Again"})
	assert.ErrorIs(t, err, holiday.ErrHolidayExists)

	require.NoError(t, repo.Delete(ctx, h.ID))
	_, err = repo.Create(ctx, holiday.Holiday{Date: "2026-01-26", Name: "Republic Day"})
	assert.NoError(t, err)

	between, err := repo.ListBetween(ctx, "2026-01-01", "2026-01-31")
	require.NoError(t, err)
	assert.Len(t, between, 1)
}

func TestAttendanceRepository_UpsertMonth(t *testing.T) {
	db := openTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(db)
	u := createUser(t, db, "E001", "John.Doe", "john@example.com")

	month := attendance.NewMonthlyAttendance(u.ID, "2026-01")
	month.Days["2026-01-12"] = attendance.DailyRecord{Date: "2026-01-12", PresenceType: attendance.PresencePresent, TotalHours: 9, Source: attendance.SourceManual}.Normalize()
	month.Summary = attendance.Summarize(month.Days)

	first, err := repo.UpsertMonth(ctx, month)
	require.NoError(t, err)

	month.Days["2026-01-13"] = attendance.DailyRecord{Date: "2026-01-13", PresenceType: attendance.PresenceAbsent, Source: attendance.SourceManual}.Normalize()
	month.Summary = attendance.Summarize(month.Days)
	second, err := repo.UpsertMonth(ctx, month)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "one row per user-month")

	got, err := repo.GetMonth(ctx, u.ID, "2026-01")
	require.NoError(t, err)
	assert.Len(t, got.Days, 2)
	assert.Equal(t, 1, got.Summary.AbsentDays)

	_, err = repo.GetMonth(ctx, u.ID, "2026-02")
	assert.ErrorIs(t, err, attendance.ErrMonthNotFound)
}

func TestLeaveRepositories(t *testing.T) {
	db := openTestDatabase(t)
	ctx := context.Background()
	u := createUser(t, db, "E001", "John.Doe", "john@example.com")

	accruals := postgresql.NewLeaveAccrualRepository(db)
	ok, err := accruals.Create(ctx, leave.LeaveAccrual{UserID: u.ID, MonthYear: "2026-01", Amount: decimal.NewFromInt(2)})
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = accruals.Create(ctx, leave.LeaveAccrual{UserID: u.ID, MonthYear: "2026-01", Amount: decimal.NewFromInt(2)})
	require.NoError(t, err)
	assert.False(t, ok, "second accrual for the month is ignored")

	balances := postgresql.NewLeaveBalanceRepository(db)
	b := leave.NewLeaveBalance(u.ID)
	b.Credit(decimal.NewFromInt(2))
	b.Debit(decimal.NewFromFloat(0.5))
	saved, err := balances.Upsert(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, "1.5", saved.Remaining.String())

	usages := postgresql.NewLeaveUsageRepository(db)
	require.NoError(t, usages.Upsert(ctx, leave.LeaveUsage{UserID: u.ID, Date: "2026-01-05", Amount: decimal.NewFromFloat(0.5)}))
	usage, err := usages.Get(ctx, u.ID, "2026-01-05")
	require.NoError(t, err)
	assert.Equal(t, "0.5", usage.Amount.String())
	require.NoError(t, usages.Delete(ctx, u.ID, "2026-01-05"))
	_, err = usages.Get(ctx, u.ID, "2026-01-05")
	assert.ErrorIs(t, err, leave.ErrUsageNotFound)
}

func TestCorrectionRepository_ResolveOnce(t *testing.T) {
	db := openTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewCorrectionRepository(db)
	u := createUser(t, db, "E001", "John.Doe", "john@example.com")

	c, err := repo.Create(ctx, correction.CorrectionRequest{
		UserID:          u.ID,
		Date:            "2026-01-20",
		RequestedStatus: attendance.PresencePresent,
		Reason:          "forgot to punch",
		ApproverEmail:   "hr@example.com",
		Token:           "token-1",
		Status:          correction.StatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, "John.Doe", c.UserName)

	res := correction.Resolution{ID: c.ID, Status: correction.StatusApproved, ResolvedBy: "hr@example.com", ResolvedAt: time.Now()}
	resolved, err := repo.Resolve(ctx, res)
	require.NoError(t, err)
	assert.Equal(t, correction.StatusApproved, resolved.Status)

	res.Status = correction.StatusRejected
	_, err = repo.Resolve(ctx, res)
	assert.ErrorIs(t, err, correction.ErrCorrectionAlreadyResolved)

	pending, err := repo.List(ctx, correction.ListFilter{Status: correction.StatusPending})
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestBackupRepository_DumpTables(t *testing.T) {
	db := openTestDatabase(t)
	createUser(t, db, "E001", "John.Doe", "john@example.com")

	tables, err := postgresql.NewBackupRepository(db).DumpTables(context.Background())
	require.NoError(t, err)
	for _, table := range postgresql.BackupTables {
		assert.Contains(t, tables, table)
	}

	var users []map[string]any
	require.NoError(t, json.Unmarshal(tables["users"], &users))
	require.Len(t, users, 1)
	assert.Equal(t, "john@example.com", users[0]["email"])
}
