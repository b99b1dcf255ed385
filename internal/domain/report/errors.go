package report

import "errors"

var (
	ErrInvalidTrendDays     = errors.New("days must be between 1 and 366")
	ErrInvalidActivityLimit = errors.New("limit must be between 1 and 100")
)
