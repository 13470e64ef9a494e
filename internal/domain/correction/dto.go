package correction

import (
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

type CreateCorrectionRequest struct {
	UserID          string                  `json:"user_id"`
	Date            string                  `json:"date"`
	RequestedStatus attendance.PresenceType `json:"requested_status"`
	Reason          string                  `json:"reason"`
	FromTime        string                  `json:"from_time,omitempty"`
	ToTime          string                  `json:"to_time,omitempty"`
	CreatedBy       string                  `json:"-"`
}

func (r *CreateCorrectionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if !r.RequestedStatus.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "requested_status",
			Message: "requested_status is not a known presence type",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	} else if len(r.Reason) > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 1000 characters",
		})
	}

	if r.FromTime != "" && !validator.IsValidClock(r.FromTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "from_time",
			Message: "from_time must be HH:MM",
		})
	}
	if r.ToTime != "" {
		if !validator.IsValidClock(r.ToTime) {
			errs = append(errs, validator.ValidationError{
				Field:   "to_time",
				Message: "to_time must be HH:MM",
			})
		} else if r.FromTime == "" {
			errs = append(errs, validator.ValidationError{
				Field:   "from_time",
				Message: "from_time is required when to_time is set",
			})
		} else if r.ToTime <= r.FromTime {
			errs = append(errs, validator.ValidationError{
				Field:   "to_time",
				Message: "to_time must be after from_time",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ResolveRequest struct {
	ID     string `json:"-"`
	Action Action `json:"-"`
	Token  string `json:"-"`
	Reason string `json:"-"`
}

func (r *ResolveRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.Action != ActionApprove && r.Action != ActionReject {
		errs.Add("action", "action must be approve or reject")
	}
	if validator.IsEmpty(r.Token) {
		errs.Add("token", "token is required")
	}
	if len(r.Reason) > 1000 {
		errs.Add("reason", "reason must not exceed 1000 characters")
	}
	return errs.Err()
}

type ListFilter struct {
	Status Status
	UserID string
}

func (f ListFilter) Validate() error {
	if f.Status == "" {
		return nil
	}
	if !validator.IsInSlice(string(f.Status), []string{string(StatusPending), string(StatusApproved), string(StatusRejected)}) {
		return validator.ValidationErrors{{Field: "status", Message: "status must be pending, approved or rejected"}}
	}
	return nil
}
