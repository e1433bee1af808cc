package ingest

import (
	"context"
	"fmt"
	"io"

	"github.com/okian/campusbites/internal/adapters/provider/places"
	"github.com/okian/campusbites/internal/adapters/provider/yelp"
	"github.com/okian/campusbites/internal/adapters/repository"
	"github.com/okian/campusbites/internal/config"
	"github.com/okian/campusbites/pkg/logger"
)

// ShowHelp prints usage information for the ingestion tool.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `campusbites ingest
==================

Fetches restaurant listings for every university and cuisine, looks up the
parks around each restaurant and writes the cache document served by the
campusbites server. The run stops at the first provider failure and leaves
an existing cache file untouched.

Usage:
  go run ./cmd/ingest [options]

Options:
  -out string
        Cache file to write (default: cache_path from configuration)
  -university string
        Restrict the run to one university
  -cuisine string
        Restrict the run to one cuisine
  -help
        Show this help message

Configuration (environment, or YAML via CAMPUSBITES_CONFIG):
  CAMPUSBITES_YELP_API_KEY     listing provider key (required)
  CAMPUSBITES_PLACES_API_KEY   places provider key (required)
  CAMPUSBITES_REDIS_ADDR       enables the proximity search memo
  CAMPUSBITES_DOTENV           dotenv file with the keys (default .env)

Examples:
  # Full run with keys from .env
  go run ./cmd/ingest

  # One pair, written elsewhere
  go run ./cmd/ingest -university "University of Michigan" -cuisine Thai -out /tmp/um-thai.json
`)
}

// FromConfig wires the provider clients described by cfg into an Ingester.
// The returned closer releases the memo connection, if any.
func FromConfig(ctx context.Context, cfg *config.Config, log logger.Logger, opts ...Option) (*Ingester, func() error, error) {
	listings := yelp.New(cfg.YelpAPIKey,
		yelp.WithBaseURL(cfg.YelpBaseURL),
		yelp.WithLimit(cfg.SearchLimit),
		yelp.WithTimeout(cfg.RequestTimeout()),
		yelp.WithLogger(log.Named("yelp")),
	)
	client := places.New(cfg.PlacesAPIKey,
		places.WithBaseURL(cfg.PlacesBaseURL),
		places.WithRadius(cfg.ParkRadiusM),
		places.WithType(cfg.ParkType),
		places.WithTimeout(cfg.RequestTimeout()),
		places.WithLogger(log.Named("places")),
	)

	var (
		searcher places.Searcher = client
		closer                   = func() error { return nil }
	)
	if cfg.MemoEnabled() {
		rdb, err := places.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		searcher = places.NewMemo(client, rdb,
			places.WithTTL(cfg.RedisTTL()),
			places.WithScope(client.Radius(), client.Type()),
			places.WithMemoLogger(log.Named("memo")),
		)
		closer = rdb.Close
		log.Info(ctx, "proximity search memo enabled", logger.String("addr", cfg.RedisAddr))
	}

	base := []Option{WithLogger(log), WithParksPerVenue(cfg.ParksPerVenue)}
	return New(listings, searcher, append(base, opts...)...), closer, nil
}

// Execute runs in and saves the document. Nothing is written when the run
// fails.
func Execute(ctx context.Context, in *Ingester, saver repository.Saver) (*Stats, error) {
	doc, stats, err := in.Run(ctx)
	if err != nil {
		return stats, err
	}
	if err := saver.Save(ctx, doc); err != nil {
		return stats, fmt.Errorf("save cache document: %w", err)
	}
	return stats, nil
}
