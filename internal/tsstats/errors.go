package tsstats

import "errors"

// ErrEmptyInput and ErrBounds complete the sentinel pair the teacher repo's
// stats.go references but never defines.
var (
	ErrEmptyInput = errors.New("tsstats: empty input")
	ErrBounds     = errors.New("tsstats: value out of bounds")
)
