package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang/geo/s2"
	"github.com/redis/go-redis/v9"

	"github.com/okian/campusbites/internal/domain/model"
	"github.com/okian/campusbites/internal/domain/normalize"
	"github.com/okian/campusbites/pkg/logger"
	"github.com/okian/campusbites/pkg/metrics"
)

const (
	memoKeyPrefix  = "campusbites:places:v1:"
	defaultMemoTTL = 7 * 24 * time.Hour
)

// NewRedisClient connects to addr and verifies the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

// Memo replays proximity searches for positions already looked up. It is
// keyed by the S2 leaf cell of the position plus radius and type, so only
// identical lookups are shared. Redis failures bypass the memo.
type Memo struct {
	next   Searcher
	rdb    redis.UniversalClient
	ttl    time.Duration
	radius int
	kind   string
	log    logger.Logger
}

// MemoOption applies a configuration option to the Memo.
type MemoOption func(*Memo)

// WithTTL sets how long memo entries live.
func WithTTL(d time.Duration) MemoOption {
	return func(m *Memo) {
		if d > 0 {
			m.ttl = d
		}
	}
}

// WithScope sets the radius and type that are part of the key.
func WithScope(radius int, kind string) MemoOption {
	return func(m *Memo) {
		if radius > 0 {
			m.radius = radius
		}
		if kind != "" {
			m.kind = kind
		}
	}
}

// WithMemoLogger sets the memo logger.
func WithMemoLogger(l logger.Logger) MemoOption {
	return func(m *Memo) {
		if l != nil {
			m.log = l
		}
	}
}

// NewMemo wraps next with a Redis-backed memo.
func NewMemo(next Searcher, rdb redis.UniversalClient, opts ...MemoOption) *Memo {
	m := &Memo{
		next:   next,
		rdb:    rdb,
		ttl:    defaultMemoTTL,
		radius: DefaultRadius,
		kind:   DefaultType,
		log:    logger.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Key returns the memo key for a position.
func (m *Memo) Key(at model.Coordinates) string {
	cell := s2.CellIDFromLatLng(s2.LatLngFromDegrees(at.Lat, at.Lon))
	return memoKeyPrefix + cell.ToToken() + ":" + strconv.Itoa(m.radius) + ":" + m.kind
}

// NearbyParks answers from the memo when possible and otherwise forwards
// to the wrapped searcher, storing its answer.
func (m *Memo) NearbyParks(ctx context.Context, at model.Coordinates) ([]normalize.RawPark, error) {
	key := m.Key(at)

	raw, err := m.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var parks []normalize.RawPark
		if err := json.Unmarshal(raw, &parks); err == nil {
			metrics.RecordMemoHit()
			return parks, nil
		}
		metrics.RecordMemoError()
		m.log.Warn(ctx, "discarding unreadable memo entry", logger.String("key", key))
	case errors.Is(err, redis.Nil):
	default:
		metrics.RecordMemoError()
		m.log.Warn(ctx, "memo read failed", logger.String("key", key), logger.Error(err))
	}

	metrics.RecordMemoMiss()
	parks, err := m.next.NearbyParks(ctx, at)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(parks)
	if err == nil {
		err = m.rdb.Set(ctx, key, data, m.ttl).Err()
	}
	if err != nil {
		metrics.RecordMemoError()
		m.log.Warn(ctx, "memo write failed", logger.String("key", key), logger.Error(err))
	}
	return parks, nil
}
