// Package combinedmatcher implements CombinedMatcher, spec §4.6: the
// blocking/whitelist pair of Matchers plus the capacity-bounded result
// cache that sits in front of them.
package combinedmatcher

import (
	"github.com/go-adblock/urlfilter-engine/matcher"
	"github.com/go-adblock/urlfilter-engine/rules"
)

// DefaultCacheSize is the result LRU's capacity, per spec §4.6.
const DefaultCacheSize = 10_000

// FilterType selects which of the two matchers Search walks.
type FilterType string

// FilterType values.
const (
	FilterTypeAll       FilterType = "all"
	FilterTypeBlocking  FilterType = "blocking"
	FilterTypeWhitelist FilterType = "whitelist"
)

// SearchResult is the accumulator pair Search returns.
type SearchResult struct {
	Blocking  []*rules.Filter
	Whitelist []*rules.Filter
}

// CacheObserver receives the outcome of every result-cache lookup, letting a
// caller wire in whatever observability backend it uses without this
// package depending on it directly.
type CacheObserver interface {
	ObserveCacheLookup(hit bool)
}

// CombinedMatcher holds the blocking and whitelist Matchers plus the result
// cache, per spec §4.6. Like Matcher, it is not safe for concurrent use.
type CombinedMatcher struct {
	blocking  *matcher.Matcher
	whitelist *matcher.Matcher
	cache     *resultCache
	cacheObs  CacheObserver
}

// SetCacheObserver installs obs to be notified of every result-cache lookup
// made through Match or Search. A nil obs (the default) disables reporting.
func (cm *CombinedMatcher) SetCacheObserver(obs CacheObserver) {
	cm.cacheObs = obs
}

func (cm *CombinedMatcher) observeCacheLookup(hit bool) {
	if cm.cacheObs != nil {
		cm.cacheObs.ObserveCacheLookup(hit)
	}
}

// KeywordBucketSizes returns the number of filters indexed under each
// keyword bucket, across both the blocking and whitelist matchers, for
// reporting via engineobs.Metrics.ObserveKeywordBucketSize.
func (cm *CombinedMatcher) KeywordBucketSizes() (sizes []int) {
	sizes = append(sizes, cm.blocking.KeywordBucketSizes()...)
	sizes = append(sizes, cm.whitelist.KeywordBucketSizes()...)

	return sizes
}

// New returns an empty CombinedMatcher with the default cache size.
func New() (cm *CombinedMatcher) {
	return NewWithCacheSize(DefaultCacheSize)
}

// NewWithCacheSize returns an empty CombinedMatcher whose result cache holds
// at most size entries. A size of zero or less falls back to
// DefaultCacheSize.
func NewWithCacheSize(size int) (cm *CombinedMatcher) {
	if size <= 0 {
		size = DefaultCacheSize
	}

	return &CombinedMatcher{
		blocking:  matcher.New(),
		whitelist: matcher.New(),
		cache:     newResultCache(size),
	}
}

// Add routes f by f.Kind (whitelist → the whitelist matcher, otherwise →
// the blocking matcher) and clears the result cache.
func (cm *CombinedMatcher) Add(f *rules.Filter) {
	if f.Kind == rules.KindWhitelist {
		cm.whitelist.Add(f)
	} else {
		cm.blocking.Add(f)
	}

	cm.cache.clear()
}

// Remove is Add's inverse.
func (cm *CombinedMatcher) Remove(f *rules.Filter) {
	if f.Kind == rules.KindWhitelist {
		cm.whitelist.Remove(f)
	} else {
		cm.blocking.Remove(f)
	}

	cm.cache.clear()
}

// Has reports whether f is indexed, routing the lookup by f.Kind.
func (cm *CombinedMatcher) Has(f *rules.Filter) (ok bool) {
	if f.Kind == rules.KindWhitelist {
		return cm.whitelist.Has(f)
	}

	return cm.blocking.Has(f)
}

// Clear empties both matchers and the result cache.
func (cm *CombinedMatcher) Clear() {
	cm.blocking = matcher.New()
	cm.whitelist = matcher.New()
	cm.cache.clear()
}

// Match is CombinedMatcher's cached match(url, typeMask, docDomain, sitekey,
// specificOnly), per spec §4.6.
func (cm *CombinedMatcher) Match(
	req rules.RequestView,
	typeMask rules.ContentType,
	sitekey string,
	specificOnly bool,
) (hit *rules.Filter) {
	key := matchKey(req.Href(), typeMask, req.DocumentHostname(), sitekey, specificOnly)

	if v, ok := cm.cache.get(key); ok {
		cm.observeCacheLookup(true)
		f, _ := v.(*rules.Filter)

		return f
	}

	cm.observeCacheLookup(false)

	hit = cm.match(req, typeMask, sitekey, specificOnly)
	cm.cache.set(key, hit)

	return hit
}

// match is Match without the cache lookup, per spec §4.6's three-step
// algorithm and its precedence note: a whitelist hit suppresses a blocking
// hit, but whitelist scanning only runs when there's something for it to
// suppress, or the caller explicitly asked about a whitelisting type.
func (cm *CombinedMatcher) match(
	req rules.RequestView,
	typeMask rules.ContentType,
	sitekey string,
	specificOnly bool,
) (hit *rules.Filter) {
	var blockingHit *rules.Filter
	if typeMask&^rules.WHITELISTING_TYPES != 0 {
		blockingHit = cm.blocking.Match(req, typeMask, sitekey, specificOnly)
	}

	var whitelistHit *rules.Filter
	if blockingHit != nil || typeMask&rules.WHITELISTING_TYPES != 0 {
		whitelistHit = cm.whitelist.Match(req, typeMask, sitekey, false)
	}

	if whitelistHit != nil {
		return whitelistHit
	}

	return blockingHit
}

// IsWhitelisted is CombinedMatcher's
// isWhitelisted(url, typeMask, docDomain, sitekey), per spec §4.6.
func (cm *CombinedMatcher) IsWhitelisted(
	req rules.RequestView,
	typeMask rules.ContentType,
	sitekey string,
) (ok bool) {
	return cm.whitelist.Match(req, typeMask, sitekey, false) != nil
}

// Search is CombinedMatcher's cached
// search(url, typeMask, docDomain, sitekey, specificOnly, filterType), per
// spec §4.6: it walks all candidates through both matchers, honoring the
// requested subset, with exclusions in the domain walk still respected
// within each matcher individually.
func (cm *CombinedMatcher) Search(
	req rules.RequestView,
	typeMask rules.ContentType,
	sitekey string,
	specificOnly bool,
	filterType FilterType,
) (result SearchResult) {
	key := searchKey(req.Href(), typeMask, req.DocumentHostname(), sitekey, specificOnly, string(filterType))

	if v, ok := cm.cache.get(key); ok {
		if r, isResult := v.(SearchResult); isResult {
			cm.observeCacheLookup(true)

			return r
		}
	}

	cm.observeCacheLookup(false)

	result = cm.search(req, typeMask, sitekey, specificOnly, filterType)
	cm.cache.set(key, result)

	return result
}

func (cm *CombinedMatcher) search(
	req rules.RequestView,
	typeMask rules.ContentType,
	sitekey string,
	specificOnly bool,
	filterType FilterType,
) (result SearchResult) {
	if filterType == FilterTypeAll || filterType == FilterTypeBlocking {
		cm.blocking.Search(req, typeMask, sitekey, specificOnly, &result.Blocking)
	}

	if filterType == FilterTypeAll || filterType == FilterTypeWhitelist {
		cm.whitelist.Search(req, typeMask, sitekey, specificOnly, &result.Whitelist)
	}

	return result
}
