package attendance

import (
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

type ImportRequest struct {
	Machine  string
	FileName string
	File     io.Reader
}

func (r *ImportRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Machine) {
		errs.Add("machine", "machine is required")
	}
	if validator.IsEmpty(r.FileName) || r.File == nil {
		errs.Add("file", "file is required")
	} else {
		ext := strings.ToLower(filepath.Ext(r.FileName))
		if !validator.IsInSlice(ext, []string{".csv", ".xlsx", ".xlsm", ".xls"}) {
			errs.Add("file", "file must be .csv, .xlsx or .xls")
		}
	}

	return errs.Err()
}

type ImportError struct {
	Row     int    `json:"row,omitempty"`
	UserID  string `json:"user_id,omitempty"`
	Date    string `json:"date,omitempty"`
	Message string `json:"message"`
}

// ImportResult counts days, not raw rows. Failures never abort the import.
type ImportResult struct {
	Machine  string        `json:"machine"`
	RowsRead int           `json:"rows_read"`
	Created  int           `json:"created"`
	Updated  int           `json:"updated"`
	Skipped  int           `json:"skipped"`
	Failed   int           `json:"failed"`
	Errors   []ImportError `json:"errors"`
}

type UpdateDayRequest struct {
	UserID       string       `json:"-"`
	MonthYear    string       `json:"-"`
	Date         string       `json:"-"`
	PresenceType PresenceType `json:"presence_type"`
	CheckIn      string       `json:"check_in,omitempty"`
	CheckOut     string       `json:"check_out,omitempty"`
	Late         bool         `json:"late"`
	Remarks      string       `json:"remarks,omitempty"`
}

func (r *UpdateDayRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs.Add("user_id", "user_id is required")
	}
	if !validator.IsValidMonthYear(r.MonthYear) {
		errs.Add("month_year", "month_year must be YYYY-MM")
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must be YYYY-MM-DD")
	} else if MonthYearOf(r.Date) != r.MonthYear {
		errs.Add("date", "date must fall inside month_year")
	}
	if !r.PresenceType.IsValid() {
		errs.Add("presence_type", "presence_type is not a known type")
	}
	errs = append(errs, validateTimeRange(r.CheckIn, r.CheckOut)...)
	if len(r.Remarks) > 500 {
		errs.Add("remarks", "remarks must not exceed 500 characters")
	}

	return errs.Err()
}

// validateTimeRange accepts an empty range, a lone check-in, or an ordered pair.
func validateTimeRange(from, to string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if from != "" && !validator.IsValidClock(from) {
		errs.Add("check_in", "check_in must be HH:MM")
	}
	if to != "" && !validator.IsValidClock(to) {
		errs.Add("check_out", "check_out must be HH:MM")
	}
	if to != "" && from == "" {
		errs.Add("check_in", "check_in is required when check_out is set")
	}
	if len(errs) == 0 && from != "" && to != "" && to <= from {
		errs.Add("check_out", "check_out must be after check_in")
	}
	return errs
}

// HoursBetween returns the hours from HH:MM from to HH:MM to, or zero when either is missing.
func HoursBetween(from, to string) float64 {
	if from == "" || to == "" {
		return 0
	}
	start, err := time.Parse("15:04", from)
	if err != nil {
		return 0
	}
	end, err := time.Parse("15:04", to)
	if err != nil || !end.After(start) {
		return 0
	}
	return round2(end.Sub(start).Hours())
}

type AbsentRecordsRequest struct {
	UserIDs   []string `json:"user_ids"`
	MonthYear string   `json:"month_year"`
}

func (r *AbsentRecordsRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidMonthYear(r.MonthYear) {
		errs.Add("month_year", "month_year must be YYYY-MM")
	}
	for _, id := range r.UserIDs {
		if validator.IsEmpty(id) {
			errs.Add("user_ids", "user_ids must not contain empty values")
			break
		}
	}
	return errs.Err()
}

type AbsentRecord struct {
	UserID       string       `json:"user_id"`
	UserName     string       `json:"user_name"`
	Date         string       `json:"date"`
	PresenceType PresenceType `json:"presence_type"`
	TotalHours   float64      `json:"total_hours"`
	Remarks      string       `json:"remarks,omitempty"`
}

type UserFailure struct {
	UserID string `json:"user_id"`
	Error  string `json:"error"`
}

type AbsentRecordsResponse struct {
	MonthYear string         `json:"month_year"`
	Records   []AbsentRecord `json:"records"`
	Failures  []UserFailure  `json:"failures,omitempty"`
}

type SummaryRow struct {
	UserID       string `json:"user_id"`
	EmployeeCode string `json:"employee_code,omitempty"`
	Name         string `json:"name"`
	MonthYear    string `json:"month_year"`
	MonthlySummary
}
