package domainsuffix_test

import (
	"testing"

	"github.com/go-adblock/urlfilter-engine/domainsuffix"
	"github.com/stretchr/testify/assert"
)

func TestSuffixes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		host         string
		want         []string
		includeBlank bool
	}{{
		name:         "simple_no_blank",
		host:         "www.a.b",
		includeBlank: false,
		want:         []string{"www.a.b", "a.b", "b"},
	}, {
		name:         "simple_with_blank",
		host:         "www.a.b",
		includeBlank: true,
		want:         []string{"www.a.b", "a.b", "b", ""},
	}, {
		name:         "single_label",
		host:         "localhost",
		includeBlank: false,
		want:         []string{"localhost"},
	}, {
		name:         "empty_includes_blank_only",
		host:         "",
		includeBlank: true,
		want:         []string{""},
	}, {
		name:         "empty_no_blank",
		host:         "",
		includeBlank: false,
		want:         nil,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, domainsuffix.Suffixes(tt.host, tt.includeBlank))
		})
	}
}

func TestWalk_stopsEarly(t *testing.T) {
	t.Parallel()

	var got []string
	domainsuffix.Walk("a.b.c", true, func(suffix string) (cont bool) {
		got = append(got, suffix)

		return suffix != "b.c"
	})

	assert.Equal(t, []string{"a.b.c", "b.c"}, got)
}
