package repository

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/okian/campusbites/internal/domain/catalog"
	"github.com/okian/campusbites/internal/domain/model"
	"github.com/okian/campusbites/pkg/logger"
)

//go:embed schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func documentSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	})
	return schema, schemaErr
}

// FileStore reads and writes the cache document as a single JSON file.
type FileStore struct {
	path   string
	mode   os.FileMode
	indent string
	log    logger.Logger
}

// NewFileStore returns a store for the file at path.
func NewFileStore(path string, opts ...Option) (*FileStore, error) {
	if path == "" {
		return nil, ErrNoPath
	}
	s := &FileStore{
		path: path,
		mode: 0o644,
		log:  logger.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the file location.
func (s *FileStore) Path() string { return s.path }

// Load reads and validates the document. A missing file yields an empty
// document. Any malformed content, an empty file included, yields a
// *model.CacheFormatError.
func (s *FileStore) Load(ctx context.Context) (model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Warn(ctx, "cache file not found, serving empty document", logger.String("path", s.path))
		return model.Document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache document %s: %w", s.path, err)
	}

	doc, err := s.decode(data)
	if err != nil {
		s.log.Error(ctx, "cache document rejected", logger.String("path", s.path), logger.Error(err))
		return nil, err
	}

	s.log.Info(ctx, "cache document loaded",
		logger.String("path", s.path),
		logger.Int("universities", len(doc)),
		logger.Int("venues", doc.VenueCount()),
		logger.Any("took", time.Since(start)),
	)
	return doc, nil
}

func (s *FileStore) decode(data []byte) (model.Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &model.CacheFormatError{Path: s.path, Problems: []string{"file is empty"}}
	}

	sch, err := documentSchema()
	if err != nil {
		return nil, fmt.Errorf("compile cache schema: %w", err)
	}
	result, err := sch.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &model.CacheFormatError{Path: s.path, Err: err}
	}
	if !result.Valid() {
		problems := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			problems[i] = desc.String()
		}
		return nil, &model.CacheFormatError{Path: s.path, Problems: problems}
	}

	var fd fileDocument
	if err := json.Unmarshal(data, &fd); err != nil {
		return nil, &model.CacheFormatError{Path: s.path, Err: err}
	}
	doc, err := fromFile(fd)
	if err != nil {
		return nil, &model.CacheFormatError{Path: s.path, Err: err}
	}
	if problems := checkCatalog(doc); len(problems) > 0 {
		return nil, &model.CacheFormatError{Path: s.path, Problems: problems}
	}
	return doc, nil
}

// checkCatalog requires every catalog cuisine under each catalog university
// present in the document. Keys outside the catalog are left alone.
func checkCatalog(doc model.Document) []string {
	var problems []string
	for _, u := range catalog.Universities() {
		byCuisine, ok := doc[u]
		if !ok {
			continue
		}
		for _, c := range catalog.Cuisines() {
			if _, ok := byCuisine[c]; !ok {
				problems = append(problems, fmt.Sprintf("%s: missing cuisine %q", u, c))
			}
		}
	}
	return problems
}

// Save writes doc atomically: the new content is written to a temporary
// file in the same directory and renamed over the target.
func (s *FileStore) Save(ctx context.Context, doc model.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if s.indent != "" {
		data, err = json.MarshalIndent(toFile(doc), "", s.indent)
	} else {
		data, err = json.Marshal(toFile(doc))
	}
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrWriteCache, err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".cache-*.json")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteCache, err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %w", ErrWriteCache, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %w", ErrWriteCache, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteCache, err)
	}
	if err := os.Chmod(tmpName, s.mode); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteCache, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteCache, err)
	}

	s.log.Info(ctx, "cache document saved",
		logger.String("path", s.path),
		logger.Int("universities", len(doc)),
		logger.Int("venues", doc.VenueCount()),
		logger.Int("bytes", len(data)),
	)
	return nil
}
