// Package matcher implements Matcher, the per-filter-class index of spec
// §4.3–§4.5: keyword selection, the simple/complex filter split gated by a
// compiled-patterns fast reject, and the domain-partitioned walk over each
// keyword bucket's complex filters.
package matcher

import (
	"strings"

	"github.com/go-adblock/urlfilter-engine/compiledset"
	"github.com/go-adblock/urlfilter-engine/domainindex"
	"github.com/go-adblock/urlfilter-engine/domainsuffix"
	"github.com/go-adblock/urlfilter-engine/rules"
)

// bucket is everything indexed under one keyword. built, fbd, and compiled
// are derived state, invalidated (built = false) on every Add/Remove and
// rebuilt lazily by ensureBuilt on the next query.
type bucket struct {
	simple  []*rules.Filter
	complex []*rules.Filter

	built    bool
	fbd      *domainindex.FiltersByDomain
	compiled *compiledset.CompiledPatterns
}

func (b *bucket) ensureBuilt() {
	if b.built {
		return
	}

	fbd := domainindex.New()
	for _, f := range b.complex {
		fbd.Add(f.Text, f.Domains.ToMap())
	}

	b.fbd = fbd
	b.compiled = compiledset.Build(b.simple)
	b.built = true
}

func (b *bucket) empty() (ok bool) {
	return len(b.simple) == 0 && len(b.complex) == 0
}

// Matcher indexes one class of filters (blocking or whitelist) by keyword,
// per spec §4.5. It is not safe for concurrent use — see spec §5: callers
// needing concurrency must own their own lock.
type Matcher struct {
	byText          map[string]*rules.Filter
	keywordByFilter map[string]string
	keywordCount    map[string]int
	buckets         map[string]*bucket
}

// New returns an empty Matcher.
func New() (m *Matcher) {
	return &Matcher{
		byText:          map[string]*rules.Filter{},
		keywordByFilter: map[string]string{},
		keywordCount:    map[string]int{},
		buckets:         map[string]*bucket{},
	}
}

// Has reports whether a filter with f.Text is already indexed.
func (m *Matcher) Has(f *rules.Filter) (ok bool) {
	_, ok = m.byText[f.Text]

	return ok
}

// FindKeyword picks the keyword Add would index f under, per spec §4.3:
// among f's candidate keywords, the one currently indexing the fewest
// filters in m, ties broken by the longer keyword. It returns "" for a pure
// regex filter or one with no acceptable candidate. Exposed for testability,
// as spec §4.5 requires.
func (m *Matcher) FindKeyword(f *rules.Filter) (keyword string) {
	if f.IsRegex {
		return ""
	}

	candidates := rules.KeywordCandidates(strings.ToLower(f.Pattern))
	if len(candidates) == 0 {
		return ""
	}

	best := candidates[0]
	bestCount := m.keywordCount[best]

	for _, c := range candidates[1:] {
		count := m.keywordCount[c]
		switch {
		case count < bestCount:
			best, bestCount = c, count
		case count == bestCount && len(c) > len(best):
			best = c
		}
	}

	return best
}

// Add records f, idempotently on f.Text, per spec §4.5.
func (m *Matcher) Add(f *rules.Filter) {
	if m.Has(f) {
		return
	}

	keyword := m.FindKeyword(f)

	m.byText[f.Text] = f
	m.keywordByFilter[f.Text] = keyword
	m.keywordCount[keyword]++

	b, ok := m.buckets[keyword]
	if !ok {
		b = &bucket{}
		m.buckets[keyword] = b
	}

	if f.IsSimple() {
		b.simple = append(b.simple, f)
	} else {
		b.complex = append(b.complex, f)
	}

	b.built = false
}

// Remove undoes Add(f); a no-op if f isn't present.
func (m *Matcher) Remove(f *rules.Filter) {
	keyword, ok := m.keywordByFilter[f.Text]
	if !ok {
		return
	}

	delete(m.byText, f.Text)
	delete(m.keywordByFilter, f.Text)

	m.keywordCount[keyword]--
	if m.keywordCount[keyword] <= 0 {
		delete(m.keywordCount, keyword)
	}

	b, ok := m.buckets[keyword]
	if !ok {
		return
	}

	b.simple = removeByText(b.simple, f.Text)
	b.complex = removeByText(b.complex, f.Text)
	b.built = false

	if b.empty() {
		delete(m.buckets, keyword)
	}
}

// KeywordBucketSizes returns the number of filters indexed under each
// keyword bucket, in no particular order, for the keyword-rarity
// heuristic's effectiveness to be observed from outside the package (spec
// §4.3).
func (m *Matcher) KeywordBucketSizes() (sizes []int) {
	sizes = make([]int, 0, len(m.buckets))
	for _, b := range m.buckets {
		sizes = append(sizes, len(b.simple)+len(b.complex))
	}

	return sizes
}

func removeByText(filters []*rules.Filter, text string) []*rules.Filter {
	for i, f := range filters {
		if f.Text == text {
			return append(filters[:i], filters[i+1:]...)
		}
	}

	return filters
}

// Match returns the first filter matching req, or nil. It is the Matcher
// half of spec §4.5's match(url, typeMask, docDomain, sitekey, specificOnly)
// — docDomain is req.DocumentHostname(), carried on req rather than passed
// separately, since every RequestView already exposes it.
func (m *Matcher) Match(
	req rules.RequestView,
	typeMask rules.ContentType,
	sitekey string,
	specificOnly bool,
) (hit *rules.Filter) {
	return m.walk(req, typeMask, sitekey, specificOnly, nil)
}

// Search appends every matching filter to collection, in keyword-bucket
// visitation order, and returns nothing — the spec's checkEntryMatch
// contract "otherwise appends all matches and returns null", lifted to the
// whole candidate walk.
func (m *Matcher) Search(
	req rules.RequestView,
	typeMask rules.ContentType,
	sitekey string,
	specificOnly bool,
	collection *[]*rules.Filter,
) {
	m.walk(req, typeMask, sitekey, specificOnly, collection)
}

// walk drives the candidate-keyword iteration common to Match and Search.
func (m *Matcher) walk(
	req rules.RequestView,
	typeMask rules.ContentType,
	sitekey string,
	specificOnly bool,
	collection *[]*rules.Filter,
) (hit *rules.Filter) {
	candidates := rules.URLKeywordCandidates(req.LowerHref())
	candidates = append(candidates, "")

	for _, keyword := range candidates {
		if hit = m.CheckEntryMatch(keyword, req, typeMask, sitekey, specificOnly, collection); hit != nil {
			if collection == nil {
				return hit
			}
		}
	}

	return nil
}

// CheckEntryMatch is the per-keyword matcher of spec §4.5: when collection
// is nil it returns the first match in this bucket; otherwise it appends
// every match to *collection and returns nil.
func (m *Matcher) CheckEntryMatch(
	keyword string,
	req rules.RequestView,
	typeMask rules.ContentType,
	sitekey string,
	specificOnly bool,
	collection *[]*rules.Filter,
) (hit *rules.Filter) {
	b, ok := m.buckets[keyword]
	if !ok {
		return nil
	}

	b.ensureBuilt()

	if typeMask&rules.RESOURCE_TYPES != 0 && !specificOnly {
		if b.compiled.Test(req.Href(), req.LowerHref()) {
			for _, f := range b.simple {
				if f.Matches(req, typeMask, sitekey) {
					if collection == nil {
						return f
					}

					*collection = append(*collection, f)
				}
			}
		}
	}

	if hit = m.matchComplex(b, req, typeMask, sitekey, specificOnly, collection); hit != nil {
		return hit
	}

	return nil
}

// matchComplex is spec §4.5's "Domain-partitioned match (complex path)":
// walk domainSuffixes(documentHostname, includeBlank=!specificOnly) from
// most to least specific, tracking exclusions seen along the way.
func (m *Matcher) matchComplex(
	b *bucket,
	req rules.RequestView,
	typeMask rules.ContentType,
	sitekey string,
	specificOnly bool,
	collection *[]*rules.Filter,
) (hit *rules.Filter) {
	if len(b.complex) == 0 {
		return nil
	}

	excluded := map[string]bool{}

	domainsuffix.Walk(req.DocumentHostname(), !specificOnly, func(suffix string) (cont bool) {
		fm, ok := b.fbd.Get(suffix)
		if !ok {
			return true
		}

		cont = true
		fm.Range(func(text string, include bool) (rangeCont bool) {
			if !include {
				excluded[text] = true

				return true
			}

			if excluded[text] {
				return true
			}

			f := m.byText[text]
			if f == nil || !f.Matches(req, typeMask, sitekey) {
				return true
			}

			if collection == nil {
				hit = f
				cont = false

				return false
			}

			*collection = append(*collection, f)

			return true
		})

		return cont
	})

	return hit
}
