package rules

import "github.com/bluele/gcache"

// DefaultTextCacheSize is the capacity spec §3 prescribes for the
// process-wide Filter.fromText memo.
const DefaultTextCacheSize = 10_000

// TextCache memoizes FromText by its input text, bounding memory the way
// spec §3 requires ("memoized by an LRU of ~10 000 entries") while staying
// injectable (§9: "tests must be able to construct an isolated matcher")
// rather than a package-level singleton.
type TextCache struct {
	cache gcache.Cache
}

// NewTextCache returns a TextCache with the given capacity.  A size of zero
// or less uses DefaultTextCacheSize.
func NewTextCache(size int) (c *TextCache) {
	if size <= 0 {
		size = DefaultTextCacheSize
	}

	return &TextCache{cache: gcache.New(size).LRU().Build()}
}

// Get returns the memoized Filter for text, parsing and caching it on a
// miss.
func (c *TextCache) Get(text string) (f *Filter) {
	if v, err := c.cache.Get(text); err == nil {
		return v.(*Filter)
	}

	f = FromText(text)

	// Set never fails here: TextCache uses gcache's default (non-serializing)
	// build, so the only error Set can return is from a serialization
	// function we never configured.
	_ = c.cache.Set(text, f)

	return f
}
