package attendance

import (
	"context"
	"io"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/machineformat"
)

type AttendanceService interface {
	Import(ctx context.Context, req ImportRequest) (ImportResult, error)
	MachineFormats(ctx context.Context) []machineformat.Template

	GetMonth(ctx context.Context, userID, monthYear string) (MonthlyAttendance, error)
	UpdateDay(ctx context.Context, req UpdateDayRequest) (MonthlyAttendance, error)
	// ApplyDay stores rec for userID, syncs the leave ledger and re-summarizes the month.
	// It joins any transaction carried by ctx.
	ApplyDay(ctx context.Context, userID string, rec DailyRecord) (MonthlyAttendance, error)

	ListSummaries(ctx context.Context, monthYear string) ([]SummaryRow, error)
	ExportSummaries(ctx context.Context, monthYear string, w io.Writer) error
	AbsentRecords(ctx context.Context, req AbsentRecordsRequest) (AbsentRecordsResponse, error)
}
