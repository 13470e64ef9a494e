package attendance

import "context"

// AttendanceRepository - interface for attendance_months table
type AttendanceRepository interface {
	GetMonth(ctx context.Context, userID, monthYear string) (MonthlyAttendance, error)
	UpsertMonth(ctx context.Context, month MonthlyAttendance) (MonthlyAttendance, error)
	ListByMonth(ctx context.Context, monthYear string) ([]MonthlyAttendance, error)
	ListByUser(ctx context.Context, userID string) ([]MonthlyAttendance, error)
}
