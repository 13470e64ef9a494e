package auth

import "github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"

// LoginRequest starts a dashboard session with the shared password.
type LoginRequest struct {
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	// Password
	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	} else if len(r.Password) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must not exceed 255 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LoginResponse struct {
	SessionID string `json:"session_id"`
	ExpiresAt int64  `json:"expires_at"`
	SentTo    string `json:"sent_to"`
}

type VerifyOTPRequest struct {
	SessionID string `json:"session_id"`
	Code      string `json:"code"`
}

func (r *VerifyOTPRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.SessionID) {
		errs = append(errs, validator.ValidationError{
			Field:   "session_id",
			Message: "session_id is required",
		})
	}

	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code is required",
		})
	} else if len(r.Code) != 6 || !validator.IsNumeric(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code must be 6 digits",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   int64  `json:"expires_at"`
}

type LogoutRequest struct {
	Token     string
	ExpiresAt int64
}
