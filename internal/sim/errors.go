package sim

import "errors"

var (
	ErrNotCold    = errors.New("sim: engine already started")
	ErrStopped    = errors.New("sim: engine stopped")
	ErrNotSettled = errors.New("sim: tick budget exhausted before settling")
)
