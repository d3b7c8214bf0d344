package sig

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheSize is the number of parsed signatures NewCache(0) keeps.
const DefaultCacheSize = 1024

// Cache memoizes parsed signatures by wire string. Parsed trees are
// immutable, so every caller of the same string shares one tree.
// A Cache is safe for concurrent use.
type Cache struct {
	opts  ParseOptions
	lru   *lru.Cache[string, Signature]
	group singleflight.Group
}

// NewCache creates a cache holding up to size entries, parsing with the
// default options.
func NewCache(size int) (*Cache, error) {
	return NewCacheWithOptions(size, ParseOptions{})
}

// NewCacheWithOptions creates a cache that parses with opts.
func NewCacheWithOptions(size int, opts ParseOptions) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	l, err := lru.New[string, Signature](size)
	if err != nil {
		return nil, err
	}
	return &Cache{opts: opts, lru: l}, nil
}

// Parse returns the cached tree for input, parsing it on a miss.
// Concurrent misses for the same input parse once. Failures are not cached.
func (c *Cache) Parse(input string) (Signature, error) {
	if s, ok := c.lru.Get(input); ok {
		return s, nil
	}

	v, err, _ := c.group.Do(input, func() (any, error) {
		s, err := ParseWithOptions(input, c.opts)
		if err != nil {
			return nil, err
		}
		c.lru.Add(input, s)
		return s, nil
	})
	if err != nil {
		return Signature{}, err
	}
	return v.(Signature), nil
}

// Contains reports whether input is cached, without touching recency.
func (c *Cache) Contains(input string) bool {
	return c.lru.Contains(input)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	return c.lru.Len()
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.lru.Purge()
}
