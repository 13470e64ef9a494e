package leave

import "errors"

var (
	ErrBalanceNotFound = errors.New("leave balance not found")
	ErrUsageNotFound   = errors.New("leave usage not found")
	ErrInvalidAmount   = errors.New("leave amount must be positive")
)
