// Package stub provides a scripted in-memory marketplace for tests and offline runs.
package stub

import (
	"context"
	"errors"
	"sync"

	"sneaker-feed/internal/domain"
	"sneaker-feed/internal/marketplace"
)

// ErrNotFound is returned for a url key with no scripted product.
var ErrNotFound = errors.New("not found")

// Client implements marketplace.Searcher and marketplace.DetailsFetcher.
type Client struct {
	mu         sync.Mutex
	Results    map[string][]*domain.Item
	SearchErrs map[string]error
	Products   map[string]*marketplace.ProductResponse
	FetchErrs  map[string]error

	searched []string
	fetched  []string
}

// NewClient creates an empty stub client.
func NewClient() *Client {
	return &Client{
		Results:    make(map[string][]*domain.Item),
		SearchErrs: make(map[string]error),
		Products:   make(map[string]*marketplace.ProductResponse),
		FetchErrs:  make(map[string]error),
	}
}

// Search returns the scripted results for keyword, truncated to limit.
func (c *Client) Search(_ context.Context, keyword string, limit int) ([]*domain.Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.searched = append(c.searched, keyword)
	if err, ok := c.SearchErrs[keyword]; ok {
		return nil, err
	}

	items := c.Results[keyword]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	out := make([]*domain.Item, len(items))
	copy(out, items)
	return out, nil
}

// FetchDetails returns the scripted product for urlKey.
func (c *Client) FetchDetails(_ context.Context, urlKey string) (*marketplace.ProductResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.fetched = append(c.fetched, urlKey)
	if err, ok := c.FetchErrs[urlKey]; ok {
		return nil, err
	}

	p, ok := c.Products[urlKey]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

// AddResults scripts the results of a keyword search.
func (c *Client) AddResults(keyword string, items ...*domain.Item) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Results[keyword] = append(c.Results[keyword], items...)
}

// AddProduct scripts a product detail response with one variant per size.
func (c *Client) AddProduct(urlKey string, styleID string, sizes map[string]marketplace.Market) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := &marketplace.Product{StyleID: styleID, URLKey: urlKey}
	for size, m := range sizes {
		p.Variants = append(p.Variants, marketplace.Variant{Size: size, Market: &m})
	}
	c.Products[urlKey] = &marketplace.ProductResponse{Product: p}
}

// Searched returns the keywords searched so far, in order.
func (c *Client) Searched() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]string(nil), c.searched...)
}

// Fetched returns the url keys fetched so far, in order.
func (c *Client) Fetched() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]string(nil), c.fetched...)
}

var (
	_ marketplace.Searcher       = (*Client)(nil)
	_ marketplace.DetailsFetcher = (*Client)(nil)
)
