package schedule

import "errors"

var (
	ErrInvalidSchedule   = errors.New("invalid schedule expression")
	ErrScheduleExhausted = errors.New("schedule has no future fire times")
	ErrScheduleNil       = errors.New("schedule cannot be nil")
	ErrJobNil            = errors.New("job cannot be nil")
)
