package machineformat

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var ErrHeaderNotFound = errors.New("header row not found for machine format")

// headerScanLimit is how many leading rows may hold report titles before the header.
const headerScanLimit = 20

// Row is one normalized export line.
type Row struct {
	Line         int
	EmployeeCode string
	Name         string
	Date         string   // YYYY-MM-DD
	Punches      []string // HH:MM, in export order
}

type RowError struct {
	Line    int    `json:"row"`
	Message string `json:"message"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Line, e.Message)
}

type columnIndex struct {
	code, name, date, checkIn, checkOut, clock, timestamp int
}

// Parse maps raw sheet rows to normalized rows. Bad lines are reported, never fatal.
func (t Template) Parse(rows [][]string) ([]Row, []RowError, error) {
	headerAt, idx, err := t.locateHeader(rows)
	if err != nil {
		return nil, nil, err
	}

	parsed := make([]Row, 0, len(rows)-headerAt-1)
	var rowErrs []RowError
	for i := headerAt + 1; i < len(rows); i++ {
		line := i + 1
		row, err := t.parseRow(rows[i], idx)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Message: err.Error()})
			continue
		}
		row.Line = line
		parsed = append(parsed, row)
	}
	return parsed, rowErrs, nil
}

func (t Template) locateHeader(rows [][]string) (int, columnIndex, error) {
	limit := len(rows)
	if limit > headerScanLimit {
		limit = headerScanLimit
	}
	for i := 0; i < limit; i++ {
		idx := columnIndex{
			code:      findColumn(rows[i], t.Columns.EmployeeCode),
			name:      findColumn(rows[i], t.Columns.Name),
			date:      findColumn(rows[i], t.Columns.Date),
			checkIn:   findColumn(rows[i], t.Columns.CheckIn),
			checkOut:  findColumn(rows[i], t.Columns.CheckOut),
			clock:     findColumn(rows[i], t.Columns.Time),
			timestamp: findColumn(rows[i], t.Columns.Timestamp),
		}
		if idx.code < 0 && idx.name < 0 {
			continue
		}
		switch t.Layout {
		case LayoutInOut:
			if idx.date >= 0 && idx.checkIn >= 0 {
				return i, idx, nil
			}
		case LayoutPunchLog:
			if idx.timestamp >= 0 || (idx.date >= 0 && idx.clock >= 0) {
				return i, idx, nil
			}
		}
	}
	return 0, columnIndex{}, fmt.Errorf("%w %s", ErrHeaderNotFound, t.ID)
}

func findColumn(header []string, names []string) int {
	for i, cell := range header {
		for _, name := range names {
			if strings.EqualFold(strings.TrimSpace(cell), strings.TrimSpace(name)) {
				return i
			}
		}
	}
	return -1
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (t Template) parseRow(raw []string, idx columnIndex) (Row, error) {
	row := Row{
		EmployeeCode: cell(raw, idx.code),
		Name:         cell(raw, idx.name),
	}
	if row.EmployeeCode == "" && row.Name == "" {
		return Row{}, fmt.Errorf("missing employee code and name")
	}

	if t.Layout == LayoutPunchLog && idx.timestamp >= 0 {
		value := cell(raw, idx.timestamp)
		ts, err := parseTimestamp(value, t.TimestampLayouts)
		if err != nil {
			return Row{}, fmt.Errorf("invalid timestamp %q", value)
		}
		row.Date = ts.Format("2006-01-02")
		row.Punches = []string{ts.Format("15:04")}
		return row, nil
	}

	dateValue := cell(raw, idx.date)
	date, err := parseDate(dateValue, t.DateLayouts)
	if err != nil {
		return Row{}, fmt.Errorf("invalid date %q", dateValue)
	}
	row.Date = date.Format("2006-01-02")

	clockColumns := []int{idx.checkIn, idx.checkOut}
	if t.Layout == LayoutPunchLog {
		clockColumns = []int{idx.clock}
	}
	for _, col := range clockColumns {
		value := cell(raw, col)
		if value == "" || value == "-" || value == "--:--" {
			continue
		}
		clock, err := parseClock(value, t.TimeLayouts)
		if err != nil {
			return Row{}, fmt.Errorf("invalid time %q", value)
		}
		row.Punches = append(row.Punches, clock)
	}
	return row, nil
}

func parseDate(value string, layouts []string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	// Spreadsheet serial day number
	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		return excelize.ExcelDateToTime(serial, false)
	}
	return time.Time{}, fmt.Errorf("no layout matched")
}

func parseTimestamp(value string, layouts []string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		return excelize.ExcelDateToTime(serial, false)
	}
	return time.Time{}, fmt.Errorf("no layout matched")
}

func parseClock(value string, layouts []string) (string, error) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("15:04"), nil
		}
	}
	// Spreadsheet fraction of a day, e.g. 0.375 for 09:00
	if frac, err := strconv.ParseFloat(value, 64); err == nil && frac >= 0 && frac < 1 {
		minutes := int(math.Round(frac * 24 * 60))
		return fmt.Sprintf("%02d:%02d", minutes/60%24, minutes%60), nil
	}
	return "", fmt.Errorf("no layout matched")
}
