package repository

import "errors"

// Sentinel kinds for streak record storage.
var (
	ErrNotFound       = errors.New("streak record not found")
	ErrCorrupt        = errors.New("streak record is corrupt")
	ErrWriteFailed    = errors.New("streak record write failed")
	ErrUnknownBackend = errors.New("unknown store backend")
)
