package rules

import (
	"strings"

	"github.com/go-adblock/urlfilter-engine/domainsuffix"
)

// RequestView is the minimal view of a URL request that Filter.Matches
// needs.  It is satisfied by *urlreq.URLRequest; Filter is defined without
// importing package urlreq to keep the dependency graph a DAG (urlreq is a
// leaf alongside rules, not a parent of it).
type RequestView interface {
	// Href returns the request URL in its original case.
	Href() string

	// LowerHref returns the request URL lowercased.
	LowerHref() string

	// DocumentHostname returns the lowercased, trailing-dot-trimmed hostname
	// of the document that triggered the request.
	DocumentHostname() string

	// IsThirdParty reports whether the request is third-party relative to
	// the document that triggered it.
	IsThirdParty() bool
}

// Matches reports whether f applies to req, per spec §4.5: the filter's
// content type must intersect typeMask, its third-party restriction must be
// compatible with req, its pattern (or regex) must match the request's URL,
// and it must be active on req's document hostname given sitekey.
func (f *Filter) Matches(
	req RequestView,
	typeMask ContentType,
	sitekey string,
) (ok bool) {
	if f.EffectiveContentType()&typeMask == 0 {
		return false
	}

	if !f.ThirdPartyRestriction.Matches(req.IsThirdParty()) {
		return false
	}

	if f.re == nil {
		return false
	}

	href := req.Href()
	if !f.MatchCase {
		href = req.LowerHref()
	}

	if !f.re.MatchString(href) {
		return false
	}

	return f.IsActiveOnDomain(req.DocumentHostname(), sitekey)
}

// IsActiveOnDomain reports whether f is active given the document domain and
// an optional sitekey, per spec §6's `isActiveOnDomain(domain, sitekey?)`.
// A missing sitekey is treated as "no key supplied", not as an error (§9).
//
// This performs the same domain-suffix walk that the indexed matcher
// performs across a whole keyword bucket via domainindex.FiltersByDomain,
// but scoped to this filter's own Domains map; the two are guaranteed to
// agree because FiltersByDomain.Add mirrors Domains entry for entry.
func (f *Filter) IsActiveOnDomain(domain string, sitekey string) (ok bool) {
	if len(f.Sitekeys) > 0 {
		if sitekey == "" {
			return false
		}

		upper := strings.ToUpper(sitekey)

		found := false
		for _, k := range f.Sitekeys {
			if k == upper {
				found = true

				break
			}
		}

		if !found {
			return false
		}
	}

	if f.Domains == nil {
		return true
	}

	active := true
	domainsuffix.Walk(domain, true, func(suffix string) (cont bool) {
		if include, present := f.Domains.Get(suffix); present {
			active = include

			return false
		}

		return true
	})

	return active
}
