package attendance

import "errors"

var (
	ErrMonthNotFound       = errors.New("attendance month not found")
	ErrDayNotFound         = errors.New("attendance day not found")
	ErrInvalidPresenceType = errors.New("invalid presence type")
	ErrInvalidImportFile   = errors.New("invalid import file")
)
