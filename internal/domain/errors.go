package domain

import "errors"

// ErrNotFound marks a write aimed at a row that does not exist. Point reads
// report absence as a nil result instead.
var ErrNotFound = errors.New("not found")
