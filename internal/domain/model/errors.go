package model

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds for domain errors. These allow errors.Is from callers.
var (
	ErrNotFound    = errors.New("not found")
	ErrCacheFormat = errors.New("malformed cache document")
	ErrNoData      = errors.New("no data")
)

// NotFoundError reports an unknown university or cuisine.
type NotFoundError struct {
	Kind string // "university" or "cuisine"
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

// Is makes errors.Is(err, ErrNotFound) succeed.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// CacheFormatError reports a cache document that does not have the expected
// shape. It is raised at load time, never per lookup.
type CacheFormatError struct {
	Path     string
	Problems []string
	Err      error
}

func (e *CacheFormatError) Error() string {
	var b strings.Builder
	b.WriteString("malformed cache document")
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}
	if len(e.Problems) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Problems, "; "))
	} else if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Is makes errors.Is(err, ErrCacheFormat) succeed.
func (e *CacheFormatError) Is(target error) bool { return target == ErrCacheFormat }

func (e *CacheFormatError) Unwrap() error { return e.Err }

// NoDataError reports an aggregate asked over an empty list.
type NoDataError struct {
	Op string
}

func (e *NoDataError) Error() string {
	if e.Op == "" {
		return "no data"
	}
	return "no data for " + e.Op
}

// Is makes errors.Is(err, ErrNoData) succeed.
func (e *NoDataError) Is(target error) bool { return target == ErrNoData }
