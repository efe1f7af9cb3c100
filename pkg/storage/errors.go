package storage

import "errors"

// ErrEmptyPath is returned when an operation is called with an empty path.
var ErrEmptyPath = errors.New("empty path")
