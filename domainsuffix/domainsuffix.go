// Package domainsuffix implements the domain-suffix iterator of spec §4.1: it
// yields a host, then each progressively shorter suffix obtained by dropping
// one leading label, and finally the empty suffix.  It has no dependencies so
// that rules, urlreq, and domainindex can all share it without import
// cycles.
package domainsuffix

import "strings"

// Walk calls f with host, then each of its parent suffixes from most to
// least specific ("www.a.b" → "a.b" → "b"), and finally "" if includeBlank
// is true.  It stops early if f returns false.  An empty host with
// includeBlank set yields only "".
func Walk(host string, includeBlank bool, f func(suffix string) (cont bool)) {
	for h := host; h != ""; {
		if !f(h) {
			return
		}

		i := strings.IndexByte(h, '.')
		if i < 0 {
			break
		}

		h = h[i+1:]
	}

	if includeBlank {
		f("")
	}
}

// Suffixes collects the same sequence Walk produces into a slice.  Prefer
// Walk on hot paths; Suffixes exists for tests and for callers that want to
// range over the result more than once.
func Suffixes(host string, includeBlank bool) (suffixes []string) {
	Walk(host, includeBlank, func(suffix string) (cont bool) {
		suffixes = append(suffixes, suffix)

		return true
	})

	return suffixes
}
