// Package marketplace is the remote collaborator: login, keyword search and
// product detail fetches against the marketplace HTTP API.
package marketplace

import (
	"context"
	"errors"
	"fmt"

	"sneaker-feed/internal/domain"
)

var (
	// ErrUnauthorized is returned when the marketplace rejects the session.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNoToken is returned when a login succeeds without handing back a token.
	ErrNoToken = errors.New("login returned no token")

	// ErrMissingMarket is returned for a variant that carries no market block.
	ErrMissingMarket = errors.New("variant has no market data")

	// ErrEmptyResponse is returned when a product response has no product.
	ErrEmptyResponse = errors.New("empty product response")
)

// Searcher runs keyword searches. Used by the catalog builder.
type Searcher interface {
	Search(ctx context.Context, keyword string, limit int) ([]*domain.Item, error)
}

// DetailsFetcher fetches product details with per-size market data. Used by the update scheduler.
type DetailsFetcher interface {
	FetchDetails(ctx context.Context, urlKey string) (*ProductResponse, error)
}

// FetchError is a failed detail fetch for one catalog item.
type FetchError struct {
	StyleID string
	URLKey  string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s (%s): %v", e.StyleID, e.URLKey, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// StatusError is a non-2xx response from the marketplace.
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.Status, e.Body)
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 and 403 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthorized && (e.Status == 401 || e.Status == 403)
}
