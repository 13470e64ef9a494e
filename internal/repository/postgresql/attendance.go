package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `id, user_id, month_year, days, summary, updated_at`

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

func scanMonth(row pgx.Row) (attendance.MonthlyAttendance, error) {
	var m attendance.MonthlyAttendance
	err := row.Scan(&m.ID, &m.UserID, &m.MonthYear, &m.Days, &m.Summary, &m.UpdatedAt)
	if m.Days == nil {
		m.Days = make(map[string]attendance.DailyRecord)
	}
	return m, err
}

// GetMonth implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetMonth(ctx context.Context, userID, monthYear string) (attendance.MonthlyAttendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendance_months WHERE user_id = $1 AND month_year = $2`

	m, err := scanMonth(q.QueryRow(ctx, query, userID, monthYear))
	if err != nil {
		if isNotFound(err) {
			return attendance.MonthlyAttendance{}, attendance.ErrMonthNotFound
		}
		return attendance.MonthlyAttendance{}, fmt.Errorf("failed to get attendance month: %w", err)
	}
	return m, nil
}

// UpsertMonth implements attendance.AttendanceRepository. The last writer wins.
func (r *attendanceRepositoryImpl) UpsertMonth(ctx context.Context, month attendance.MonthlyAttendance) (attendance.MonthlyAttendance, error) {
	q := GetQuerier(ctx, r.db)

	days := month.Days
	if days == nil {
		days = map[string]attendance.DailyRecord{}
	}

	query := `
		INSERT INTO attendance_months (user_id, month_year, days, summary)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, month_year)
		DO UPDATE SET days = EXCLUDED.days, summary = EXCLUDED.summary, updated_at = NOW()
		RETURNING ` + attendanceColumns

	saved, err := scanMonth(q.QueryRow(ctx, query, month.UserID, month.MonthYear, days, month.Summary))
	if err != nil {
		return attendance.MonthlyAttendance{}, fmt.Errorf("failed to upsert attendance month: %w", err)
	}
	return saved, nil
}

// ListByMonth implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByMonth(ctx context.Context, monthYear string) ([]attendance.MonthlyAttendance, error) {
	return r.list(ctx, `SELECT `+attendanceColumns+` FROM attendance_months WHERE month_year = $1 ORDER BY user_id`, monthYear)
}

// ListByUser implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]attendance.MonthlyAttendance, error) {
	return r.list(ctx, `SELECT `+attendanceColumns+` FROM attendance_months WHERE user_id = $1 ORDER BY month_year`, userID)
}

func (r *attendanceRepositoryImpl) list(ctx context.Context, query string, arg string) ([]attendance.MonthlyAttendance, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance months: %w", err)
	}
	defer rows.Close()

	months := make([]attendance.MonthlyAttendance, 0)
	for rows.Next() {
		m, err := scanMonth(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance month: %w", err)
		}
		months = append(months, m)
	}
	return months, rows.Err()
}
