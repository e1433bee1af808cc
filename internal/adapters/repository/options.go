package repository

import (
	"os"

	"github.com/okian/campusbites/pkg/logger"
)

// Option applies a configuration option to the FileStore.
type Option func(*FileStore)

// WithLogger sets the logger used for load and save events.
func WithLogger(l logger.Logger) Option {
	return func(s *FileStore) {
		if l != nil {
			s.log = l
		}
	}
}

// WithFileMode sets the permission bits of a saved document.
func WithFileMode(mode os.FileMode) Option {
	return func(s *FileStore) {
		if mode != 0 {
			s.mode = mode
		}
	}
}

// WithIndent makes Save pretty-print the document.
func WithIndent(indent string) Option {
	return func(s *FileStore) {
		s.indent = indent
	}
}
