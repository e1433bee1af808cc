package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNoPath     = errors.New("cache path is empty")
	ErrWriteCache = errors.New("write cache document")
)
