package user

import (
	"strings"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// ScheduleInput is a shift definition as sent by the dashboard
type ScheduleInput struct {
	ShiftStart   string `json:"shift_start"`
	ShiftEnd     string `json:"shift_end"`
	GraceMinutes int    `json:"grace_minutes"`
}

func (s ScheduleInput) ToSchedule() Schedule {
	return Schedule{ShiftStart: s.ShiftStart, ShiftEnd: s.ShiftEnd, GraceMinutes: s.GraceMinutes}
}

func (s ScheduleInput) Validate() error {
	return s.validate("").Err()
}

func (s ScheduleInput) validate(prefix string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if !validator.IsValidClock(s.ShiftStart) {
		errs = append(errs, validator.ValidationError{
			Field:   prefix + "shift_start",
			Message: "shift_start must be HH:MM",
		})
	}
	if !validator.IsValidClock(s.ShiftEnd) {
		errs = append(errs, validator.ValidationError{
			Field:   prefix + "shift_end",
			Message: "shift_end must be HH:MM",
		})
	}
	if len(errs) == 0 && s.ShiftEnd <= s.ShiftStart {
		errs = append(errs, validator.ValidationError{
			Field:   prefix + "shift_end",
			Message: "shift_end must be after shift_start",
		})
	}
	if s.GraceMinutes < 0 || s.GraceMinutes > 240 {
		errs = append(errs, validator.ValidationError{
			Field:   prefix + "grace_minutes",
			Message: "grace_minutes must be between 0 and 240",
		})
	}
	return errs
}

// CreateUserRequest represents request to create a new employee
type CreateUserRequest struct {
	EmployeeCode string         `json:"employee_code"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	Designation  string         `json:"designation"`
	PartnerName  string         `json:"partner_name"`
	Schedule     *ScheduleInput `json:"schedule,omitempty"`
	CreatedBy    string         `json:"-"`
}

func (r *CreateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	} else if len(r.Name) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 255 characters",
		})
	}

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "invalid email format",
		})
	}

	if len(r.EmployeeCode) > 50 {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_code",
			Message: "employee_code must not exceed 50 characters",
		})
	}

	if r.Schedule != nil {
		errs = append(errs, r.Schedule.validate("schedule.")...)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateUserRequest represents a partial update; nil fields are left alone
type UpdateUserRequest struct {
	ID           string         `json:"-"`
	EmployeeCode *string        `json:"employee_code,omitempty"`
	Name         *string        `json:"name,omitempty"`
	Email        *string        `json:"email,omitempty"`
	Designation  *string        `json:"designation,omitempty"`
	PartnerName  *string        `json:"partner_name,omitempty"`
	IsActive     *bool          `json:"is_active,omitempty"`
	Schedule     *ScheduleInput `json:"schedule,omitempty"`
	ChangedBy    string         `json:"-"`
}

func (r *UpdateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}

	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "invalid email format",
		})
	}

	if r.Schedule != nil {
		errs = append(errs, r.Schedule.validate("schedule.")...)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Apply returns u with the request's non-nil fields written over it.
func (r *UpdateUserRequest) Apply(u User) User {
	if r.EmployeeCode != nil {
		u.EmployeeCode = strings.TrimSpace(*r.EmployeeCode)
	}
	if r.Name != nil {
		u.Name = strings.TrimSpace(*r.Name)
	}
	if r.Email != nil {
		u.Email = strings.ToLower(strings.TrimSpace(*r.Email))
	}
	if r.Designation != nil {
		u.Designation = strings.TrimSpace(*r.Designation)
	}
	if r.PartnerName != nil {
		u.PartnerName = strings.TrimSpace(*r.PartnerName)
	}
	if r.IsActive != nil {
		u.IsActive = *r.IsActive
	}
	if r.Schedule != nil {
		u.Schedule = r.Schedule.ToSchedule()
	}
	return u
}

type ScheduleUpdate struct {
	UserID string `json:"user_id"`
	ScheduleInput
}

type BulkScheduleRequest struct {
	Items     []ScheduleUpdate `json:"items"`
	ChangedBy string           `json:"-"`
}

// Validate checks the envelope only. Items are validated one by one so a bad item fails alone.
func (r *BulkScheduleRequest) Validate() error {
	if len(r.Items) == 0 {
		return validator.ValidationErrors{{Field: "items", Message: "items must not be empty"}}
	}
	return nil
}

const (
	ExtraInfoAdd    = "add"
	ExtraInfoRemove = "remove"
)

type ExtraInfoRequest struct {
	Action string `json:"action"`
	Label  string `json:"label"`
}

func (r *ExtraInfoRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsInSlice(r.Action, []string{ExtraInfoAdd, ExtraInfoRemove}) {
		errs.Add("action", "action must be add or remove")
	}
	if validator.IsEmpty(r.Label) {
		errs.Add("label", "label is required")
	} else if len(r.Label) > 100 {
		errs.Add("label", "label must not exceed 100 characters")
	}
	return errs.Err()
}

type SetExtraInfoRequest struct {
	UserID string `json:"-"`
	Label  string `json:"label"`
	Value  string `json:"value"`
}

func (r *SetExtraInfoRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.Label) {
		errs.Add("label", "label is required")
	}
	if len(r.Value) > 1000 {
		errs.Add("value", "value must not exceed 1000 characters")
	}
	return errs.Err()
}

type ItemFailure struct {
	UserID string `json:"user_id"`
	Error  string `json:"error"`
}

// BulkResult reports per-user outcomes of a batch. One failure never aborts the rest.
type BulkResult struct {
	Updated  int           `json:"updated"`
	Skipped  int           `json:"skipped"`
	Failures []ItemFailure `json:"failures"`
}
