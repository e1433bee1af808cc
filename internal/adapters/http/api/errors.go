package api

import (
	"errors"
	"fmt"

	"github.com/okian/campusbites/internal/domain/bucket"
	"github.com/okian/campusbites/internal/domain/ranking"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrMissingParam = fmt.Errorf("%w: missing query parameter", ErrBadRequest)
)

// isBadRequest reports whether err was caused by the request itself.
func isBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest) ||
		errors.Is(err, ranking.ErrInvalidKey) ||
		errors.Is(err, ranking.ErrInvalidDirection) ||
		errors.Is(err, bucket.ErrInvalidLevel)
}
