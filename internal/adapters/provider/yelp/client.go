// Package yelp queries the Yelp Fusion business search.
package yelp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/okian/campusbites/internal/adapters/provider"
	"github.com/okian/campusbites/pkg/logger"
)

// Default search parameters.
const (
	DefaultBaseURL = "https://api.yelp.com"
	DefaultLimit   = 30
	searchPath     = "/v3/businesses/search"
	providerName   = "yelp"
)

// Business is one search result. Attributes are pointers where absence
// must survive decoding; Search guarantees Rating is set.
type Business struct {
	Name         string   `json:"name"`
	Rating       *float64 `json:"rating"`
	Price        *string  `json:"price"`
	Distance     *float64 `json:"distance"`
	DisplayPhone string   `json:"display_phone"`
	Location     struct {
		DisplayAddress []string `json:"display_address"`
	} `json:"location"`
	Coordinates struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	} `json:"coordinates"`
}

// Address joins the display address lines.
func (b Business) Address() string {
	return strings.Join(b.Location.DisplayAddress, ", ")
}

type searchResponse struct {
	Businesses *[]Business `json:"businesses"`
	Error      *struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// Client searches businesses by location and term.
type Client struct {
	baseURL string
	apiKey  string
	limit   int
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

// WithLimit sets the number of results per search.
func WithLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.limit = n
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
		limit:   DefaultLimit,
		http:    provider.NewHTTPClient(30 * time.Second),
		log:     logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search returns up to limit restaurants matching term near location, in
// provider best-match order.
func (c *Client) Search(ctx context.Context, location, term string) ([]Business, error) {
	q := url.Values{}
	q.Set("location", location)
	q.Set("term", term)
	q.Set("categories", "restaurants")
	q.Set("sort_by", "best_match")
	q.Set("limit", strconv.Itoa(c.limit))

	req, err := http.NewRequest(http.MethodGet, c.baseURL+searchPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build yelp request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	var resp searchResponse
	if err := provider.GetJSON(ctx, c.http, providerName, req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("%w: yelp %s: %s", provider.ErrRejected, resp.Error.Code, resp.Error.Description)
	}
	if resp.Businesses == nil {
		return nil, fmt.Errorf("%w: yelp response has no businesses", provider.ErrMalformed)
	}
	for i, b := range *resp.Businesses {
		if b.Rating == nil {
			return nil, fmt.Errorf("%w: yelp business %d (%q) has no rating", provider.ErrMalformed, i, b.Name)
		}
	}

	c.log.Debug(ctx, "yelp search",
		logger.String("location", location),
		logger.String("term", term),
		logger.Int("results", len(*resp.Businesses)))
	return *resp.Businesses, nil
}
