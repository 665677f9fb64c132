package compiledset_test

import (
	"testing"

	"github.com/go-adblock/urlfilter-engine/compiledset"
	"github.com/go-adblock/urlfilter-engine/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_nilOnEmpty(t *testing.T) {
	t.Parallel()

	assert.Nil(t, compiledset.Build(nil))
}

func TestBuild_nilOverMaxFilters(t *testing.T) {
	t.Parallel()

	filters := make([]*rules.Filter, compiledset.MaxFilters+1)
	for i := range filters {
		filters[i] = rules.FromText("ads")
	}

	assert.Nil(t, compiledset.Build(filters))
}

func TestCompiledPatterns_test(t *testing.T) {
	t.Parallel()

	lower := rules.FromText("ads")
	require.Equal(t, rules.KindBlocking, lower.Kind)

	exact := rules.FromText("Tracker$match-case")
	require.Equal(t, rules.KindBlocking, exact.Kind)

	cp := compiledset.Build([]*rules.Filter{lower, exact})
	require.NotNil(t, cp)

	tests := []struct {
		name      string
		href      string
		lowerHref string
		want      bool
	}{{
		name:      "matches_lowercase_bucket",
		href:      "https://example.com/ads/banner.js",
		lowerHref: "https://example.com/ads/banner.js",
		want:      true,
	}, {
		name:      "matches_case_sensitive_bucket",
		href:      "https://example.com/Tracker.js",
		lowerHref: "https://example.com/tracker.js",
		want:      true,
	}, {
		name:      "case_sensitive_bucket_rejects_wrong_case",
		href:      "https://example.com/tracker.js",
		lowerHref: "https://example.com/tracker.js",
		want:      false,
	}, {
		name:      "no_match",
		href:      "https://example.com/home.html",
		lowerHref: "https://example.com/home.html",
		want:      false,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, cp.Test(tt.href, tt.lowerHref))
		})
	}
}

func TestCompiledPatterns_nilAlwaysMaybeMatch(t *testing.T) {
	t.Parallel()

	var cp *compiledset.CompiledPatterns
	assert.True(t, cp.Test("anything", "anything"))
}
