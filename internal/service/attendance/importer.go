package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/machineformat"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/spreadsheet"
)

// userMonth groups one user's imported punches for one month, keyed by date.
type userMonth struct {
	user      user.User
	monthYear string
	punches   map[string][]string
}

// Import implements attendance.AttendanceService. It never fails as a whole
// once the file is readable: unmatched rows and failed months are reported in
// the result and the rest is written.
func (s *AttendanceServiceImpl) Import(ctx context.Context, req attendance.ImportRequest) (attendance.ImportResult, error) {
	if err := req.Validate(); err != nil {
		return attendance.ImportResult{}, err
	}

	tmpl, err := s.registry.Get(req.Machine)
	if err != nil {
		return attendance.ImportResult{}, err
	}

	rows, err := spreadsheet.ReadRows(req.File, req.FileName)
	if err != nil {
		return attendance.ImportResult{}, fmt.Errorf("%w: %v", attendance.ErrInvalidImportFile, err)
	}

	parsed, rowErrs, err := tmpl.Parse(rows)
	if err != nil {
		return attendance.ImportResult{}, fmt.Errorf("%w: %v", attendance.ErrInvalidImportFile, err)
	}

	result := attendance.ImportResult{
		Machine:  tmpl.ID,
		RowsRead: len(parsed) + len(rowErrs),
		Errors:   make([]attendance.ImportError, 0),
	}
	for _, re := range rowErrs {
		result.Failed++
		result.Errors = append(result.Errors, attendance.ImportError{Row: re.Line, Message: re.Message})
	}

	users, err := s.UserRepository.List(ctx, false)
	if err != nil {
		return attendance.ImportResult{}, fmt.Errorf("failed to list users: %w", err)
	}

	groups, from, to := s.group(parsed, user.NewDirectory(users), &result)
	if len(groups) == 0 {
		return result, nil
	}

	holidays, err := s.HolidayRepository.ListBetween(ctx, from, to)
	if err != nil {
		return attendance.ImportResult{}, fmt.Errorf("failed to list holidays: %w", err)
	}
	holidayDates := make(map[string]string, len(holidays))
	for _, h := range holidays {
		holidayDates[h.Date] = h.Name
	}

	for _, g := range groups {
		created, updated, skipped, err := s.importMonth(ctx, g, holidayDates, from, to)
		if err != nil {
			slog.Error("Attendance import failed for user month", "user_id", g.user.ID, "month_year", g.monthYear, "error", err)
			result.Failed += len(g.punches)
			result.Errors = append(result.Errors, attendance.ImportError{
				UserID:  g.user.ID,
				Date:    g.monthYear,
				Message: err.Error(),
			})
			continue
		}
		result.Created += created
		result.Updated += updated
		result.Skipped += skipped
	}

	slog.Info("Attendance import finished",
		"machine", result.Machine,
		"rows", result.RowsRead,
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)

	return result, nil
}

// group matches rows to users and collects punches per user-month. It returns
// the groups in a stable order along with the imported date span.
func (s *AttendanceServiceImpl) group(rows []machineformat.Row, dir *user.Directory, result *attendance.ImportResult) ([]*userMonth, string, string) {
	byKey := make(map[string]*userMonth)
	var from, to string

	for _, row := range rows {
		u, ok := dir.Match(row.EmployeeCode, row.Name)
		if !ok {
			msg := fmt.Sprintf("no employee matches code %q or name %q", row.EmployeeCode, row.Name)
			if dir.Ambiguous(row.Name) {
				msg = fmt.Sprintf("name %q matches more than one employee, add the employee code", row.Name)
			}
			result.Failed++
			result.Errors = append(result.Errors, attendance.ImportError{
				Row:     row.Line,
				Date:    row.Date,
				Message: msg,
			})
			continue
		}

		monthYear := attendance.MonthYearOf(row.Date)
		key := u.ID + "|" + monthYear
		g, ok := byKey[key]
		if !ok {
			g = &userMonth{user: u, monthYear: monthYear, punches: make(map[string][]string)}
			byKey[key] = g
		}
		g.punches[row.Date] = append(g.punches[row.Date], row.Punches...)

		if from == "" || row.Date < from {
			from = row.Date
		}
		if row.Date > to {
			to = row.Date
		}
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	groups := make([]*userMonth, 0, len(keys))
	for _, k := range keys {
		groups = append(groups, byKey[k])
	}
	return groups, from, to
}

// importMonth writes one user-month inside its own transaction.
func (s *AttendanceServiceImpl) importMonth(ctx context.Context, g *userMonth, holidays map[string]string, from, to string) (created, updated, skipped int, err error) {
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		created, updated, skipped = 0, 0, 0

		month, err := s.loadMonth(ctx, g.user.ID, g.monthYear)
		if err != nil {
			return err
		}

		for date, punches := range g.punches {
			existing, exists := month.Days[date]
			if exists && existing.IsProtected() {
				skipped++
				continue
			}
			_, isHoliday := holidays[date]
			month.Days[date] = buildImportedDay(date, punches, g.user.Schedule, isHoliday)
			if exists {
				updated++
			} else {
				created++
			}
		}

		for date, name := range holidays {
			if attendance.MonthYearOf(date) != g.monthYear || date < from || date > to {
				continue
			}
			if _, exists := month.Days[date]; exists {
				continue
			}
			month.Days[date] = attendance.DailyRecord{
				Date:         date,
				PresenceType: attendance.PresenceHoliday,
				Remarks:      name,
				Source:       attendance.SourceHoliday,
			}.Normalize()
			created++
		}

		_, err = s.saveMonth(ctx, month)
		return err
	})
	return created, updated, skipped, err
}

// buildImportedDay turns a day's punches into a record. The earliest punch is
// the check-in and the latest is the check-out.
func buildImportedDay(date string, punches []string, schedule user.Schedule, isHoliday bool) attendance.DailyRecord {
	sorted := append([]string(nil), punches...)
	sort.Strings(sorted)

	rec := attendance.DailyRecord{
		Date:         date,
		PresenceType: attendance.PresenceThumbMachine,
		Source:       attendance.SourceImport,
	}
	if len(sorted) > 0 {
		rec.CheckIn = sorted[0]
	}
	if len(sorted) > 1 {
		rec.CheckOut = sorted[len(sorted)-1]
	}
	rec.TotalHours = attendance.HoursBetween(rec.CheckIn, rec.CheckOut)

	if isHoliday {
		rec.PresenceType = attendance.PresenceHoliday
		rec.Remarks = "worked on holiday"
		return reconcileDay(rec, schedule)
	}

	if shift := schedule.ShiftHours(); rec.TotalHours > 0 && shift > 0 && rec.TotalHours < shift/2 {
		rec.PresenceType = attendance.PresenceHalfDay
	}
	return reconcileDay(rec, schedule)
}
