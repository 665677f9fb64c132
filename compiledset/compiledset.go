// Package compiledset implements CompiledPatterns, the fused-regex fast
// reject of spec §4.4: given a small keyword bucket of filters, fuse their
// pattern sources into two alternation regexes — one per MatchCase value —
// so that a single regex search can rule out the whole bucket before any
// per-filter check runs.
package compiledset

import (
	"regexp"
	"strings"

	"github.com/go-adblock/urlfilter-engine/rules"
)

// MaxFilters is the default K of spec §4.4: above this many filters in a
// bucket, fusing the alternation stops being worth its own compile cost and
// Build returns nil instead.
const MaxFilters = 100

// CompiledPatterns is a fused-regex fast reject over a bounded set of
// filters. A nil *CompiledPatterns is a valid value — Test always reports
// true for it, so the caller's fast-reject step degenerates into "don't
// reject anything", never "reject everything" (see Build).
type CompiledPatterns struct {
	// caseSensitive, if non-nil, is the alternation of every fused filter
	// with MatchCase == true. Matched against the request's original-case
	// href.
	caseSensitive *regexp.Regexp

	// caseInsensitive, if non-nil, is the alternation of every fused filter
	// with MatchCase == false. Matched against the request's lowercased
	// href.
	caseInsensitive *regexp.Regexp
}

// Build fuses filters into a CompiledPatterns, per spec §4.4. It returns nil
// — meaning "skip the fast reject" — when filters is empty, exceeds
// MaxFilters, or either alternation fails to compile (which should not
// happen for sources produced by rules.Filter.RegexSource, but a filter's
// regex literal is user-supplied text and RE2 rejects a few constructs,
// e.g. backreferences, that other regex engines accept).
func Build(filters []*rules.Filter) (cp *CompiledPatterns) {
	if len(filters) == 0 || len(filters) > MaxFilters {
		return nil
	}

	var sensitive, insensitive []string
	for _, f := range filters {
		src := f.RegexSource()
		if f.MatchCase {
			sensitive = append(sensitive, src)
		} else {
			insensitive = append(insensitive, src)
		}
	}

	cp = &CompiledPatterns{}

	var err error
	if cp.caseSensitive, err = fuse(sensitive); err != nil {
		return nil
	}

	if cp.caseInsensitive, err = fuse(insensitive); err != nil {
		return nil
	}

	return cp
}

// fuse compiles the "|"-joined alternation of sources, returning a nil
// regexp (not an error) for an empty source list.
func fuse(sources []string) (re *regexp.Regexp, err error) {
	if len(sources) == 0 {
		return nil, nil
	}

	return regexp.Compile(strings.Join(sources, "|"))
}

// Test reports whether href or lowerHref might be matched by some filter
// fused into cp: true means "consult the filters individually", false means
// "none of them can possibly match, skip the bucket". A nil cp always
// returns true, since it means fusion was skipped, not that nothing can
// match.
func (cp *CompiledPatterns) Test(href, lowerHref string) (maybeMatch bool) {
	if cp == nil {
		return true
	}

	if cp.caseSensitive != nil && cp.caseSensitive.MatchString(href) {
		return true
	}

	if cp.caseInsensitive != nil && cp.caseInsensitive.MatchString(lowerHref) {
		return true
	}

	return false
}
