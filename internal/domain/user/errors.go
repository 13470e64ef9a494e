package user

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUserEmailExists       = errors.New("email already registered")
	ErrEmployeeCodeExists    = errors.New("employee code already registered")
	ErrExtraInfoLabelExists  = errors.New("extra info label already exists")
	ErrExtraInfoLabelMissing = errors.New("extra info label not found")
)
