package correction

import "errors"

var (
	ErrCorrectionNotFound        = errors.New("correction request not found")
	ErrCorrectionAlreadyResolved = errors.New("request already resolved")
	ErrInvalidToken              = errors.New("invalid or expired correction link")
)
