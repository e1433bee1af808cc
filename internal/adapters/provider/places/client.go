// Package places queries the Google Places nearby search for parks.
package places

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/okian/campusbites/internal/adapters/provider"
	"github.com/okian/campusbites/internal/domain/model"
	"github.com/okian/campusbites/internal/domain/normalize"
	"github.com/okian/campusbites/pkg/logger"
)

// Default search parameters.
const (
	DefaultBaseURL = "https://maps.googleapis.com"
	DefaultRadius  = 1500
	DefaultType    = "park"
	searchPath     = "/maps/api/place/nearbysearch/json"
	providerName   = "places"
)

// Searcher finds places near a position.
type Searcher interface {
	NearbyParks(ctx context.Context, at model.Coordinates) ([]normalize.RawPark, error)
}

type result struct {
	Name             *string  `json:"name"`
	Rating           *float64 `json:"rating"`
	Types            []string `json:"types"`
	UserRatingsTotal *int     `json:"user_ratings_total"`
	Vicinity         *string  `json:"vicinity"`
	Geometry         *struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
}

type nearbyResponse struct {
	Results      *[]result `json:"results"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error_message"`
}

// Client performs proximity searches.
type Client struct {
	baseURL string
	apiKey  string
	radius  int
	kind    string
	http    *http.Client
	log     logger.Logger
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL overrides the API host.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithRadius sets the search radius in meters.
func WithRadius(m int) Option {
	return func(c *Client) {
		if m > 0 {
			c.radius = m
		}
	}
}

// WithType sets the place type searched for.
func WithType(t string) Option {
	return func(c *Client) {
		if t != "" {
			c.kind = t
		}
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = provider.NewHTTPClient(d)
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New returns a client authenticating with apiKey.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		radius:  DefaultRadius,
		kind:    DefaultType,
		http:    provider.NewHTTPClient(30 * time.Second),
		log:     logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Radius returns the search radius in meters.
func (c *Client) Radius() int { return c.radius }

// Type returns the place type searched for.
func (c *Client) Type() string { return c.kind }

// NearbyParks returns the places around at, in provider relevance order.
func (c *Client) NearbyParks(ctx context.Context, at model.Coordinates) ([]normalize.RawPark, error) {
	q := url.Values{}
	q.Set("location", strconv.FormatFloat(at.Lat, 'f', -1, 64)+","+strconv.FormatFloat(at.Lon, 'f', -1, 64))
	q.Set("radius", strconv.Itoa(c.radius))
	q.Set("types", c.kind)
	q.Set("key", c.apiKey)

	req, err := http.NewRequest(http.MethodGet, c.baseURL+searchPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build places request: %w", err)
	}

	var resp nearbyResponse
	if err := provider.GetJSON(ctx, c.http, providerName, req, &resp); err != nil {
		return nil, err
	}
	switch resp.Status {
	case "", "OK", "ZERO_RESULTS":
	default:
		return nil, fmt.Errorf("%w: places %s: %s", provider.ErrRejected, resp.Status, resp.ErrorMessage)
	}
	if resp.Results == nil {
		return nil, fmt.Errorf("%w: places response has no results", provider.ErrMalformed)
	}

	out := make([]normalize.RawPark, 0, len(*resp.Results))
	for i, r := range *resp.Results {
		// Only the leading results become parks; name and vicinity are
		// required there.
		if i < model.MaxNearbyParks && (r.Name == nil || r.Vicinity == nil) {
			return nil, fmt.Errorf("%w: places result %d has no name or vicinity", provider.ErrMalformed, i)
		}
		p := normalize.RawPark{
			Name:             deref(r.Name),
			Rating:           r.Rating,
			Types:            r.Types,
			UserRatingsTotal: r.UserRatingsTotal,
			Vicinity:         deref(r.Vicinity),
		}
		if r.Geometry != nil {
			p.Location = &model.Coordinates{Lat: r.Geometry.Location.Lat, Lon: r.Geometry.Location.Lng}
		}
		out = append(out, p)
	}
	c.log.Debug(ctx, "places search",
		logger.Float64("lat", at.Lat),
		logger.Float64("lon", at.Lon),
		logger.Int("results", len(out)))
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
