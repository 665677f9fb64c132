package combinedmatcher_test

import (
	"strings"
	"testing"

	"github.com/go-adblock/urlfilter-engine/combinedmatcher"
	"github.com/go-adblock/urlfilter-engine/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReq struct {
	href       string
	docHost    string
	thirdParty bool
}

func (r fakeReq) Href() string             { return r.href }
func (r fakeReq) LowerHref() string        { return strings.ToLower(r.href) }
func (r fakeReq) DocumentHostname() string { return r.docHost }
func (r fakeReq) IsThirdParty() bool       { return r.thirdParty }

// TestCombinedMatcher_scenario4_whitelistPrecedence follows spec §8
// scenario 4.
func TestCombinedMatcher_scenario4_whitelistPrecedence(t *testing.T) {
	t.Parallel()

	cm := combinedmatcher.New()

	blocking := rules.FromText("ads")
	require.Equal(t, rules.KindBlocking, blocking.Kind)
	cm.Add(blocking)

	whitelist := rules.FromText("@@||example.com^$document")
	require.Equal(t, rules.KindWhitelist, whitelist.Kind)
	cm.Add(whitelist)

	req := fakeReq{href: "http://example.com/ads", docHost: "example.com"}
	hit := cm.Match(req, rules.TypeDocument, "", false)
	require.NotNil(t, hit)
	assert.Equal(t, whitelist.Text, hit.Text)
}

func TestCombinedMatcher_blockingOnlyWhenNoWhitelist(t *testing.T) {
	t.Parallel()

	cm := combinedmatcher.New()
	blocking := rules.FromText("ads")
	cm.Add(blocking)

	req := fakeReq{href: "http://example.com/ads", docHost: "example.com"}
	hit := cm.Match(req, rules.TypeScript, "", false)
	require.NotNil(t, hit)
	assert.Equal(t, blocking.Text, hit.Text)
}

func TestCombinedMatcher_cacheTransparency(t *testing.T) {
	t.Parallel()

	cm := combinedmatcher.New()
	f := rules.FromText("ads")
	cm.Add(f)

	req := fakeReq{href: "http://example.com/ads", docHost: "example.com"}

	hit1 := cm.Match(req, rules.TypeScript, "", false)
	hit2 := cm.Match(req, rules.TypeScript, "", false)
	require.NotNil(t, hit1)
	assert.Same(t, hit1, hit2)

	cm.Remove(f)
	assert.Nil(t, cm.Match(req, rules.TypeScript, "", false))
}

func TestCombinedMatcher_isWhitelisted(t *testing.T) {
	t.Parallel()

	cm := combinedmatcher.New()
	whitelist := rules.FromText("@@||example.com^$document")
	cm.Add(whitelist)

	req := fakeReq{href: "http://example.com/", docHost: "example.com"}
	assert.True(t, cm.IsWhitelisted(req, rules.TypeDocument, ""))

	other := fakeReq{href: "http://other.com/", docHost: "other.com"}
	assert.False(t, cm.IsWhitelisted(other, rules.TypeDocument, ""))
}

type recordingCacheObserver struct {
	hits   int
	misses int
}

func (o *recordingCacheObserver) ObserveCacheLookup(hit bool) {
	if hit {
		o.hits++
	} else {
		o.misses++
	}
}

func TestCombinedMatcher_cacheObserver(t *testing.T) {
	t.Parallel()

	cm := combinedmatcher.New()
	obs := &recordingCacheObserver{}
	cm.SetCacheObserver(obs)

	f := rules.FromText("ads")
	cm.Add(f)

	req := fakeReq{href: "http://example.com/ads", docHost: "example.com"}

	cm.Match(req, rules.TypeScript, "", false)
	cm.Match(req, rules.TypeScript, "", false)

	assert.Equal(t, 1, obs.misses)
	assert.Equal(t, 1, obs.hits)
}

func TestCombinedMatcher_keywordBucketSizes(t *testing.T) {
	t.Parallel()

	cm := combinedmatcher.New()
	cm.Add(rules.FromText("ads"))
	cm.Add(rules.FromText("ads2"))
	cm.Add(rules.FromText("@@tracker"))

	sizes := cm.KeywordBucketSizes()
	require.Len(t, sizes, 2)

	total := 0
	for _, n := range sizes {
		total += n
	}
	assert.Equal(t, 3, total)
}

func TestCombinedMatcher_search_honorsFilterType(t *testing.T) {
	t.Parallel()

	cm := combinedmatcher.New()
	blocking := rules.FromText("ads")
	whitelist := rules.FromText("@@ads")
	cm.Add(blocking)
	cm.Add(whitelist)

	req := fakeReq{href: "http://example.com/ads", docHost: "example.com"}

	all := cm.Search(req, rules.RESOURCE_TYPES, "", false, combinedmatcher.FilterTypeAll)
	assert.Len(t, all.Blocking, 1)
	assert.Len(t, all.Whitelist, 1)

	onlyBlocking := cm.Search(req, rules.RESOURCE_TYPES, "", false, combinedmatcher.FilterTypeBlocking)
	assert.Len(t, onlyBlocking.Blocking, 1)
	assert.Empty(t, onlyBlocking.Whitelist)
}
