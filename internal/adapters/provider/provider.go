// Package provider holds the HTTP plumbing shared by the listing and places
// clients.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/campusbites/pkg/metrics"
)

// maxBodyBytes bounds how much of a provider response is read.
const maxBodyBytes = 8 << 20

// snippetBytes bounds how much of an error body is kept.
const snippetBytes = 256

// Sentinel kinds for provider failures.
var (
	ErrStatus    = errors.New("unexpected provider status")
	ErrMalformed = errors.New("malformed provider payload")
	ErrRejected  = errors.New("provider rejected the request")
	ErrTransport = errors.New("provider transport failure")
)

// StatusError reports a non-2xx response.
type StatusError struct {
	Provider string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s responded %d: %s", e.Provider, e.Code, e.Body)
}

// Is makes errors.Is(err, ErrStatus) succeed.
func (e *StatusError) Is(target error) bool { return target == ErrStatus }

// NewHTTPClient returns a client whose requests are bounded by timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// GetJSON sends req and decodes a 2xx JSON body into out. Every call is
// recorded under name in the provider metrics.
func GetJSON(ctx context.Context, client *http.Client, name string, req *http.Request, out any) error {
	start := time.Now()
	outcome := "ok"
	defer func() {
		metrics.RecordProviderRequest(name, outcome, float64(time.Since(start).Milliseconds()))
	}()

	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req.WithContext(ctx))
	if err != nil {
		outcome = "transport"
		return fmt.Errorf("%w: %s: %w", ErrTransport, name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		outcome = "transport"
		return fmt.Errorf("%w: %s: read body: %w", ErrTransport, name, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		outcome = "status"
		if len(body) > snippetBytes {
			body = body[:snippetBytes]
		}
		return &StatusError{Provider: name, Code: resp.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		outcome = "malformed"
		return fmt.Errorf("%w: %s: %w", ErrMalformed, name, err)
	}
	return nil
}
