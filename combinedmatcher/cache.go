package combinedmatcher

import (
	"encoding/binary"
	"fmt"
	"hash/maphash"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/bluele/gcache"

	"github.com/go-adblock/urlfilter-engine/rules"
)

// resultKey is the LRU cache's key type, produced by matchKey/searchKey: a
// single hash over a structured tuple rather than a concatenated string, as
// spec §9's design notes ask for ("key it on a structured tuple... to avoid
// accidental collisions").
type resultKey uint64

// resultCache is a thin wrapper around gcache.Cache, grounded on the
// teacher's internal/filter/internal/resultcache.Cache: panic on an
// unexpected Get/Set error, since no serialization function is configured
// and a real error there can't happen.
type resultCache struct {
	cache gcache.Cache
}

func newResultCache(size int) (c *resultCache) {
	return &resultCache{cache: gcache.New(size).LRU().Build()}
}

func (c *resultCache) get(k resultKey) (v any, ok bool) {
	v, err := c.cache.Get(k)
	if err != nil {
		if !errors.Is(err, gcache.KeyNotFoundError) {
			panic(fmt.Errorf("combinedmatcher: getting cache item: %w", err))
		}

		return nil, false
	}

	return v, true
}

func (c *resultCache) set(k resultKey, v any) {
	err := c.cache.Set(k, v)
	if err != nil {
		panic(fmt.Errorf("combinedmatcher: setting cache item: %w", err))
	}
}

func (c *resultCache) clear() {
	c.cache.Purge()
}

func (c *resultCache) len() (n int) {
	const checkExpired = false

	return c.cache.Len(checkExpired)
}

// hashSeed is the seed used by every hash below, to produce stable-within-
// process, collision-resistant keys, as resultcache.DefaultKey does.
var hashSeed = maphash.MakeSeed()

// matchKey computes the cache key for
// match(url, typeMask, docDomain, sitekey, specificOnly), spec §4.6.
func matchKey(href string, typeMask rules.ContentType, docDomain, sitekey string, specificOnly bool) (k resultKey) {
	h := &maphash.Hash{}
	h.SetSeed(hashSeed)

	writeKeyParts(h, href, typeMask, docDomain, sitekey, specificOnly)

	return resultKey(h.Sum64())
}

// searchKeySentinel is written before every search() cache key, so that a
// match() and a search() call with otherwise identical arguments never
// collide, per spec §4.6 ("for search a leading sentinel plus filterType").
const searchKeySentinel = "\x00search\x00"

// searchKey computes the cache key for
// search(url, typeMask, docDomain, sitekey, specificOnly, filterType).
func searchKey(
	href string,
	typeMask rules.ContentType,
	docDomain, sitekey string,
	specificOnly bool,
	filterType string,
) (k resultKey) {
	h := &maphash.Hash{}
	h.SetSeed(hashSeed)

	_, _ = h.WriteString(searchKeySentinel)
	_, _ = h.WriteString(filterType)

	writeKeyParts(h, href, typeMask, docDomain, sitekey, specificOnly)

	return resultKey(h.Sum64())
}

func writeKeyParts(
	h *maphash.Hash,
	href string,
	typeMask rules.ContentType,
	docDomain, sitekey string,
	specificOnly bool,
) {
	writeLenPrefixed(h, href)
	writeLenPrefixed(h, docDomain)
	writeLenPrefixed(h, sitekey)

	var buf [5]byte
	binary.LittleEndian.PutUint32(buf[:4], uint32(typeMask))
	if specificOnly {
		buf[4] = 1
	}

	_, _ = h.Write(buf[:])
}

// writeLenPrefixed writes s's length, then s itself, so that the boundary
// between s and whatever is written next is never ambiguous — two fields
// hashed back-to-back without a length prefix would let (href="ab",
// docDomain="c") and (href="a", docDomain="bc") collide, exactly what spec
// §9 warns a structured-tuple key must avoid.
func writeLenPrefixed(h *maphash.Hash, s string) {
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(s)))

	_, _ = h.Write(lenBuf[:])
	_, _ = h.WriteString(s)
}
