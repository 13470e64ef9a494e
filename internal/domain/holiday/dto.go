package holiday

import (
	"strings"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

type CreateHolidayRequest struct {
	Date        string `json:"date"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r *CreateHolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

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

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateHolidayRequest struct {
	ID          string  `json:"-"`
	Date        *string `json:"date,omitempty"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (r *UpdateHolidayRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.Date != nil {
		if _, ok := validator.IsValidDate(*r.Date); !ok {
			errs.Add("date", "date must be in YYYY-MM-DD format")
		}
	}
	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs.Add("name", "name must not be empty")
	}
	return errs.Err()
}

func (r *UpdateHolidayRequest) Apply(h Holiday) Holiday {
	if r.Date != nil {
		h.Date = *r.Date
	}
	if r.Name != nil {
		h.Name = strings.TrimSpace(*r.Name)
	}
	if r.Description != nil {
		h.Description = strings.TrimSpace(*r.Description)
	}
	return h
}

type ListHolidayFilter struct {
	Year string
}

func (f ListHolidayFilter) Validate() error {
	if f.Year == "" {
		return nil
	}
	if len(f.Year) != 4 || !validator.IsNumeric(f.Year) {
		return validator.ValidationErrors{{Field: "year", Message: "year must be YYYY"}}
	}
	return nil
}
