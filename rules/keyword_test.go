package rules_test

import (
	"testing"

	"github.com/go-adblock/urlfilter-engine/rules"
	"github.com/stretchr/testify/assert"
)

func TestKeywordCandidates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
		want    []string
	}{{
		name:    "simple",
		pattern: "||example.com/ads/banner.js",
		want:    []string{"example", "ads", "banner"},
	}, {
		name:    "rejects_bad_keywords",
		pattern: "/http/com/banner.js",
		want:    []string{"banner"},
	}, {
		name:    "no_candidates",
		pattern: "*",
		want:    nil,
	}, {
		name:    "short_token_rejected",
		pattern: "/a/bb/ccc/",
		want:    []string{"bb", "ccc"},
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, rules.KeywordCandidates(tt.pattern))
		})
	}
}
