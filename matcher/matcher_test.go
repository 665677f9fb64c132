package matcher_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/go-adblock/urlfilter-engine/matcher"
	"github.com/go-adblock/urlfilter-engine/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeReq is a minimal rules.RequestView for exercising Matcher without
// depending on package urlreq.
type fakeReq struct {
	href       string
	docHost    string
	thirdParty bool
}

func (r fakeReq) Href() string             { return r.href }
func (r fakeReq) LowerHref() string        { return strings.ToLower(r.href) }
func (r fakeReq) DocumentHostname() string { return r.docHost }
func (r fakeReq) IsThirdParty() bool       { return r.thirdParty }

// TestMatcher_scenario1_singlePattern follows spec §8 scenario 1.
func TestMatcher_scenario1_singlePattern(t *testing.T) {
	t.Parallel()

	m := matcher.New()
	f := rules.FromText("^foo^")
	require.Equal(t, rules.KindBlocking, f.Kind)
	m.Add(f)

	hit := m.Match(fakeReq{href: "https://a.com/foo/bar.js", docHost: "page.com"}, rules.TypeScript, "", false)
	assert.Same(t, f, hit)

	hit = m.Match(fakeReq{href: "https://a.com/bar.js", docHost: "page.com"}, rules.TypeScript, "", false)
	assert.Nil(t, hit)
}

// TestMatcher_scenario2_domainRestriction follows spec §8 scenario 2.
func TestMatcher_scenario2_domainRestriction(t *testing.T) {
	t.Parallel()

	m := matcher.New()
	f := rules.FromText("^foo^$domain=example.com|~www.example.com")
	m.Add(f)

	assert.NotNil(t, m.Match(fakeReq{href: "http://x/foo", docHost: "example.com"}, rules.TypeScript, "", false))
	assert.Nil(t, m.Match(fakeReq{href: "http://x/foo", docHost: "www.example.com"}, rules.TypeScript, "", false))
	assert.NotNil(t, m.Match(fakeReq{href: "http://x/foo", docHost: "sub.example.com"}, rules.TypeScript, "", false))
}

// TestMatcher_scenario5_keywordRarity follows spec §8 scenario 5. Patterns
// are wrapped in "^...^" so KeywordCandidates has a delimiter on both sides
// of the token to extract.
func TestMatcher_scenario5_keywordRarity(t *testing.T) {
	t.Parallel()

	m := matcher.New()
	for i := 0; i < 10_000; i++ {
		m.Add(rules.FromText(fmt.Sprintf("^tracker^$domain=site%d.com", i)))
	}
	m.Add(rules.FromText("^zebra^"))

	candidate := rules.FromText("^tracker/zebra^")
	assert.Equal(t, "zebra", m.FindKeyword(candidate))
}

// TestMatcher_scenario6_compiledPatternsOverflow follows spec §8 scenario 6:
// CompiledPatterns is null above the fuse limit, but matching must still
// yield identical results as with <= 100 filters. All 150 filters carry the
// identical pattern "^widget^" (so they all land in the same keyword's
// simple bucket, overflowing K) but a distinct, match-irrelevant $csp value
// to keep their Text unique.
func TestMatcher_scenario6_compiledPatternsOverflow(t *testing.T) {
	t.Parallel()

	m := matcher.New()
	for i := 0; i < 150; i++ {
		f := rules.FromText(fmt.Sprintf("^widget^$csp=policy%d", i))
		require.True(t, f.IsSimple())
		m.Add(f)
	}

	href := "https://a.com/widget/thing.js"
	hit := m.Match(fakeReq{href: href, docHost: "page.com"}, rules.TypeScript, "", false)
	require.NotNil(t, hit)
	assert.Equal(t, "^widget^", hit.Pattern)
}

func TestMatcher_addIdempotent_removeInverse(t *testing.T) {
	t.Parallel()

	m := matcher.New()
	f := rules.FromText("^foo^")

	m.Add(f)
	m.Add(f)
	assert.True(t, m.Has(f))

	req := fakeReq{href: "https://a.com/foo/bar.js", docHost: "page.com"}
	assert.NotNil(t, m.Match(req, rules.TypeScript, "", false))

	m.Remove(f)
	assert.False(t, m.Has(f))
	assert.Nil(t, m.Match(req, rules.TypeScript, "", false))
}

func TestMatcher_specificOnlySkipsGeneric(t *testing.T) {
	t.Parallel()

	m := matcher.New()
	generic := rules.FromText("^foo^")
	restricted := rules.FromText("^foo^$domain=page.com")
	m.Add(generic)
	m.Add(restricted)

	req := fakeReq{href: "https://a.com/foo/bar.js", docHost: "page.com"}

	hit := m.Match(req, rules.TypeScript, "", true)
	require.NotNil(t, hit)
	assert.Equal(t, restricted.Text, hit.Text)
}

func TestMatcher_keywordBucketSizes(t *testing.T) {
	t.Parallel()

	m := matcher.New()
	m.Add(rules.FromText("^foo^"))
	m.Add(rules.FromText("^foo^$domain=example.com"))
	m.Add(rules.FromText("^zebra^"))

	sizes := m.KeywordBucketSizes()
	require.Len(t, sizes, 2)

	total := 0
	for _, n := range sizes {
		total += n
	}
	assert.Equal(t, 3, total)
}

func TestMatcher_search_collectsAll(t *testing.T) {
	t.Parallel()

	m := matcher.New()
	f1 := rules.FromText("^foo^")
	f2 := rules.FromText("^foo^$domain=page.com")
	m.Add(f1)
	m.Add(f2)

	req := fakeReq{href: "https://a.com/foo/bar.js", docHost: "page.com"}

	var hits []*rules.Filter
	m.Search(req, rules.TypeScript, "", false, &hits)

	assert.Len(t, hits, 2)
}
