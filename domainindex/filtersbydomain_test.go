package domainindex_test

import (
	"testing"

	"github.com/go-adblock/urlfilter-engine/domainindex"
	"github.com/go-adblock/urlfilter-engine/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// asMap converts a *rules.DomainMap into the plain map[string]bool shape
// FiltersByDomain's Add/Remove take.
func asMap(m *rules.DomainMap) (out map[string]bool) {
	if m == nil {
		return nil
	}

	out = map[string]bool{}
	m.Range(func(domain string, include bool) (cont bool) {
		out[domain] = include

		return true
	})

	return out
}

// TestFiltersByDomain_scenario3 follows spec §8 scenario 3 literally.
func TestFiltersByDomain_scenario3(t *testing.T) {
	t.Parallel()

	fbd := domainindex.New()

	f1 := rules.FromText("^foo^$domain=example.com|~www.example.com")
	fbd.Add(f1.Text, asMap(f1.Domains))

	assert.Equal(t, 2, fbd.Size())

	m, ok := fbd.Get("example.com")
	require.True(t, ok)
	inc, ok := m.Get(f1.Text)
	assert.True(t, ok)
	assert.True(t, inc)

	m, ok = fbd.Get("www.example.com")
	require.True(t, ok)
	inc, ok = m.Get(f1.Text)
	assert.True(t, ok)
	assert.False(t, inc)

	f2 := rules.FromText("^bar^$domain=example.com")
	fbd.Add(f2.Text, asMap(f2.Domains))

	m, ok = fbd.Get("example.com")
	require.True(t, ok)
	assert.Equal(t, 2, m.Len())

	f3 := rules.FromText("^lambda^$domain=~images.example.com")
	fbd.Add(f3.Text, asMap(f3.Domains))

	assert.Equal(t, 4, fbd.Size())

	m, ok = fbd.Get("")
	require.True(t, ok)
	inc, ok = m.Get(f3.Text)
	assert.True(t, ok)
	assert.True(t, inc)

	m, ok = fbd.Get("images.example.com")
	require.True(t, ok)
	inc, ok = m.Get(f3.Text)
	assert.True(t, ok)
	assert.False(t, inc)

	fbd.Remove(f1.Text, asMap(f1.Domains))

	assert.False(t, fbd.Has("www.example.com"))

	m, ok = fbd.Get("example.com")
	require.True(t, ok)
	assert.Equal(t, 1, m.Len())
	inc, ok = m.Get(f2.Text)
	assert.True(t, ok)
	assert.True(t, inc)
}

func TestFiltersByDomain_addIsIdempotent(t *testing.T) {
	t.Parallel()

	fbd := domainindex.New()
	domains := map[string]bool{"example.com": true}

	fbd.Add("text", domains)
	fbd.Add("text", domains)

	m, ok := fbd.Get("example.com")
	require.True(t, ok)
	assert.Equal(t, 1, m.Len())
}

func TestFiltersByDomain_roundTrip(t *testing.T) {
	t.Parallel()

	fbd := domainindex.New()

	filters := []struct {
		text    string
		domains map[string]bool
	}{
		{text: "a", domains: map[string]bool{"x.com": true}},
		{text: "b", domains: map[string]bool{"x.com": true, "y.com": false}},
		{text: "c", domains: nil},
	}

	for _, f := range filters {
		fbd.Add(f.text, f.domains)
	}

	for i := len(filters) - 1; i >= 0; i-- {
		fbd.Remove(filters[i].text, filters[i].domains)
	}

	assert.Equal(t, 0, fbd.Size())
}
