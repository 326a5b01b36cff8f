package gate

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache hands out shared catalogs keyed by their ordered vocabulary. Catalogs
// are immutable, so one instance can serve every concurrent caller using the
// same configuration.
type Cache struct {
	catalogs *lru.Cache[string, *Catalog]
}

// NewCache creates a cache holding at most size vocabularies.
func NewCache(size int) (*Cache, error) {
	catalogs, err := lru.New[string, *Catalog](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog cache: %w", err)
	}
	return &Cache{catalogs: catalogs}, nil
}

// Get returns the catalog for allowed, building it on first use.
func (c *Cache) Get(allowed []Kind) (*Catalog, error) {
	key := vocabularyKey(allowed)
	if cat, ok := c.catalogs.Get(key); ok {
		return cat, nil
	}
	cat, err := NewCatalog(allowed)
	if err != nil {
		return nil, err
	}
	// A concurrent caller may have stored an equal catalog first; either is fine.
	c.catalogs.Add(key, cat)
	return cat, nil
}

// Len reports how many vocabularies are cached.
func (c *Cache) Len() int {
	return c.catalogs.Len()
}
