package domain

import (
	"errors"
	"fmt"
)

// ErrDuplicateItem is returned when a catalog already holds an item with the same style id.
var ErrDuplicateItem = errors.New("duplicate item")

// Catalog is an ordered set of items keyed by style id.
// Iteration order is insertion order; the update scheduler hands out its quota in this order.
type Catalog struct {
	items []*Item
	index map[string]int
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{index: make(map[string]int)}
}

// Add appends an item. Returns ErrDuplicateItem if the style id is already present.
func (c *Catalog) Add(item *Item) error {
	if item == nil || item.StyleID == "" {
		return fmt.Errorf("add catalog item: empty style id")
	}
	if _, exists := c.index[item.StyleID]; exists {
		return fmt.Errorf("add catalog item %s: %w", item.StyleID, ErrDuplicateItem)
	}
	c.index[item.StyleID] = len(c.items)
	c.items = append(c.items, item)
	return nil
}

// Get returns the item for a style id.
func (c *Catalog) Get(styleID string) (*Item, bool) {
	i, ok := c.index[styleID]
	if !ok {
		return nil, false
	}
	return c.items[i], true
}

// Items returns the items in insertion order.
func (c *Catalog) Items() []*Item {
	out := make([]*Item, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	return len(c.items)
}
