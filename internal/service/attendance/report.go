package attendance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/spreadsheet"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

var summaryHeader = []string{
	"Employee Code", "Name", "Month", "Recorded Days", "Present Days", "Half Days",
	"Leave Days", "Holidays", "Absent Days", "Late Arrivals", "Total Hours",
	"Excess Hours", "Total Value",
}

// ListSummaries implements attendance.AttendanceService. Active users without
// a stored month appear with a zero summary.
func (s *AttendanceServiceImpl) ListSummaries(ctx context.Context, monthYear string) ([]attendance.SummaryRow, error) {
	if !validator.IsValidMonthYear(monthYear) {
		return nil, validator.ValidationErrors{{Field: "month_year", Message: "month_year must be YYYY-MM"}}
	}

	users, err := s.UserRepository.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	months, err := s.AttendanceRepository.ListByMonth(ctx, monthYear)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance months: %w", err)
	}

	byUser := make(map[string]attendance.MonthlyAttendance, len(months))
	for _, m := range months {
		byUser[m.UserID] = m
	}

	rows := make([]attendance.SummaryRow, 0, len(users))
	for _, u := range users {
		m, ok := byUser[u.ID]
		if !ok && !u.IsActive {
			continue
		}
		rows = append(rows, attendance.SummaryRow{
			UserID:         u.ID,
			EmployeeCode:   u.EmployeeCode,
			Name:           u.Name,
			MonthYear:      monthYear,
			MonthlySummary: m.Summary,
		})
	}
	return rows, nil
}

// ExportSummaries implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ExportSummaries(ctx context.Context, monthYear string, w io.Writer) error {
	rows, err := s.ListSummaries(ctx, monthYear)
	if err != nil {
		return err
	}

	data := make([][]any, 0, len(rows))
	for _, r := range rows {
		data = append(data, []any{
			r.EmployeeCode, r.Name, r.MonthYear, r.RecordedDays, r.PresentDays, r.HalfDays,
			r.LeaveDays, r.Holidays, r.AbsentDays, r.LateArrivals, r.TotalHours,
			r.TotalExcessHours, r.TotalValue,
		})
	}

	if err := spreadsheet.WriteXLSX(w, "Summary "+monthYear, summaryHeader, data); err != nil {
		return fmt.Errorf("failed to write summary report: %w", err)
	}
	return nil
}

// AbsentRecords implements attendance.AttendanceService. An empty user list
// means every active user. Per-user failures are reported, not fatal.
func (s *AttendanceServiceImpl) AbsentRecords(ctx context.Context, req attendance.AbsentRecordsRequest) (attendance.AbsentRecordsResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AbsentRecordsResponse{}, err
	}

	var users []user.User
	resp := attendance.AbsentRecordsResponse{
		MonthYear: req.MonthYear,
		Records:   make([]attendance.AbsentRecord, 0),
	}

	if len(req.UserIDs) == 0 {
		all, err := s.UserRepository.List(ctx, true)
		if err != nil {
			return attendance.AbsentRecordsResponse{}, fmt.Errorf("failed to list users: %w", err)
		}
		users = all
	} else {
		for _, id := range req.UserIDs {
			u, err := s.UserRepository.GetByID(ctx, id)
			if err != nil {
				resp.Failures = append(resp.Failures, attendance.UserFailure{UserID: id, Error: err.Error()})
				continue
			}
			users = append(users, u)
		}
	}

	for _, u := range users {
		month, err := s.AttendanceRepository.GetMonth(ctx, u.ID, req.MonthYear)
		if errors.Is(err, attendance.ErrMonthNotFound) {
			continue
		}
		if err != nil {
			resp.Failures = append(resp.Failures, attendance.UserFailure{UserID: u.ID, Error: err.Error()})
			continue
		}

		dates := make([]string, 0, len(month.Days))
		for date := range month.Days {
			dates = append(dates, date)
		}
		sort.Strings(dates)

		for _, date := range dates {
			rec := month.Days[date]
			if !rec.IsAbsent() {
				continue
			}
			resp.Records = append(resp.Records, attendance.AbsentRecord{
				UserID:       u.ID,
				UserName:     u.Name,
				Date:         date,
				PresenceType: rec.PresenceType,
				TotalHours:   rec.TotalHours,
				Remarks:      rec.Remarks,
			})
		}
	}

	return resp, nil
}
