package calendar

import "errors"

var (
	ErrInvalidWeekStart  = errors.New("invalid week start")
	ErrInvalidHourFormat = errors.New("invalid hour format")
)
