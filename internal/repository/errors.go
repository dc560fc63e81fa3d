package repository

import "errors"

// ErrNotFound is returned when a referenced document does not exist.
// Callers treat it as a recoverable condition, not a storage failure.
var ErrNotFound = errors.New("record not found")
