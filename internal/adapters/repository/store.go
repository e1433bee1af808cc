// Package repository loads, holds and persists the cached venue document.
package repository

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/okian/campusbites/internal/domain/model"
	"github.com/okian/campusbites/pkg/metrics"
)

// Loader reads a document from durable storage.
type Loader interface {
	Load(ctx context.Context) (model.Document, error)
}

// Saver writes a document to durable storage.
type Saver interface {
	Save(ctx context.Context, doc model.Document) error
}

// Snapshot is the immutable, in-memory view of a loaded document. Readers
// never lock: a reload publishes a new document pointer atomically.
type Snapshot struct {
	doc      atomic.Pointer[model.Document]
	loadedAt atomic.Int64
}

// NewSnapshot returns a snapshot holding doc. A nil doc is treated as empty.
func NewSnapshot(doc model.Document) *Snapshot {
	s := &Snapshot{}
	s.publish(doc)
	return s
}

// Reload reads a fresh document from l and publishes it. On error the
// previous document stays in place.
func (s *Snapshot) Reload(ctx context.Context, l Loader) error {
	start := time.Now()
	doc, err := l.Load(ctx)
	if err != nil {
		metrics.RecordCacheLoadError()
		return err
	}
	s.publish(doc)
	metrics.RecordCacheLoad(float64(time.Since(start).Milliseconds()), len(doc), doc.VenueCount())
	return nil
}

// Document returns the current document. Callers must not modify it.
func (s *Snapshot) Document() model.Document {
	if p := s.doc.Load(); p != nil {
		return *p
	}
	return model.Document{}
}

// LoadedAt returns when the current document was published.
func (s *Snapshot) LoadedAt() time.Time {
	return time.Unix(0, s.loadedAt.Load())
}

func (s *Snapshot) publish(doc model.Document) {
	if doc == nil {
		doc = model.Document{}
	}
	s.doc.Store(&doc)
	s.loadedAt.Store(time.Now().UnixNano())
}
