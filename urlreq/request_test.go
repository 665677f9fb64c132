package urlreq_test

import (
	"testing"

	"github.com/go-adblock/urlfilter-engine/urlreq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrom(t *testing.T) {
	t.Parallel()

	r, err := urlreq.From("https://Ads.Example.COM/banner.js", "Example.com.")
	require.NoError(t, err)

	assert.Equal(t, "https://Ads.Example.COM/banner.js", r.Href())
	assert.Equal(t, "https://ads.example.com/banner.js", r.LowerHref())
	assert.Equal(t, "example.com", r.DocumentHostname())
}

func TestFrom_noHost(t *testing.T) {
	t.Parallel()

	_, err := urlreq.From("not-a-url", "example.com")
	require.Error(t, err)
}

func TestThirdParty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		requestHost string
		docHost     string
		want        bool
	}{{
		name:        "same_host",
		requestHost: "example.com",
		docHost:     "example.com",
		want:        false,
	}, {
		name:        "same_registrable_domain",
		requestHost: "cdn.example.com",
		docHost:     "www.example.com",
		want:        false,
	}, {
		name:        "different_registrable_domain",
		requestHost: "ads.tracker.net",
		docHost:     "example.com",
		want:        true,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, urlreq.ThirdParty(tt.requestHost, tt.docHost))
		})
	}
}
