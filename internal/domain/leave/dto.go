package leave

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type IncrementMonthlyRequest struct {
	MonthYear string `json:"month_year,omitempty"`
}

func (r *IncrementMonthlyRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.MonthYear != "" && !validator.IsValidMonthYear(r.MonthYear) {
		errs.Add("month_year", "month_year must be YYYY-MM")
	}
	return errs.Err()
}

type UserFailure struct {
	UserID string `json:"user_id"`
	Error  string `json:"error"`
}

// IncrementResult reports a monthly accrual run. Skipped users were already credited for the month.
type IncrementResult struct {
	MonthYear string          `json:"month_year"`
	Amount    decimal.Decimal `json:"amount"`
	Credited  int             `json:"credited"`
	Skipped   int             `json:"skipped"`
	Failures  []UserFailure   `json:"failures"`
}

type BalanceResponse struct {
	UserID       string          `json:"user_id"`
	EmployeeCode string          `json:"employee_code,omitempty"`
	Name         string          `json:"name"`
	Earned       decimal.Decimal `json:"earned"`
	Used         decimal.Decimal `json:"used"`
	Remaining    decimal.Decimal `json:"remaining"`
	UpdatedAt    *time.Time      `json:"updated_at,omitempty"`
}
