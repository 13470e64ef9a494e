package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/backup"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/correction"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/machineformat"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/spreadsheet"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid password")
	case errors.Is(err, auth.ErrInvalidCode):
		Unauthorized(w, "Invalid or expired login code")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already registered")
	case errors.Is(err, user.ErrExtraInfoLabelExists):
		Conflict(w, "Extra info label already exists")
	case errors.Is(err, user.ErrExtraInfoLabelMissing):
		NotFound(w, "Extra info label not found")

	// Holiday domain errors
	case errors.Is(err, holiday.ErrHolidayNotFound):
		NotFound(w, "Holiday not found")
	case errors.Is(err, holiday.ErrHolidayExists):
		BadRequest(w, "Holiday already exists for this date", nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrMonthNotFound):
		NotFound(w, "Attendance month not found")
	case errors.Is(err, attendance.ErrDayNotFound):
		NotFound(w, "Attendance day not found")
	case errors.Is(err, attendance.ErrInvalidPresenceType):
		BadRequest(w, "Invalid presence type", nil)
	case errors.Is(err, attendance.ErrInvalidImportFile):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, machineformat.ErrUnknownMachine):
		BadRequest(w, "Unknown machine format", nil)
	case errors.Is(err, spreadsheet.ErrUnsupportedFormat):
		BadRequest(w, err.Error(), nil)

	// Leave domain errors
	case errors.Is(err, leave.ErrBalanceNotFound):
		NotFound(w, "Leave balance not found")
	case errors.Is(err, leave.ErrInvalidAmount):
		BadRequest(w, "Leave amount must be positive", nil)

	// Correction domain errors
	case errors.Is(err, correction.ErrCorrectionNotFound):
		NotFound(w, "Correction request not found")
	case errors.Is(err, correction.ErrCorrectionAlreadyResolved):
		Conflict(w, "Request already resolved")
	case errors.Is(err, correction.ErrInvalidToken):
		Unauthorized(w, "Invalid correction token")

	// Backup domain errors
	case errors.Is(err, backup.ErrSnapshotNotFound):
		NotFound(w, "Backup not found")
	case errors.Is(err, backup.ErrInvalidName):
		BadRequest(w, "Invalid backup name", nil)

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
