// Package urlreq implements the URLRequest view of spec §3/§6: a derived,
// cache-friendly view of a URL request that lives for the duration of one
// match call.
package urlreq

import (
	"net/url"
	"strings"

	"github.com/AdguardTeam/golibs/errors"
)

// ErrNoHost is returned by From when the given URL has no host component.
const ErrNoHost errors.Error = "url has no host"

// URLRequest is a derived view of a URL request.  It is cheap to construct
// and meant to be built once per match/search call and shared across both
// the blocking and whitelist matchers.
type URLRequest struct {
	href             string
	lowerCaseHref    string
	documentHostname string
	requestHostname  string
	thirdParty       bool
}

// From parses rawURL and computes a URLRequest relative to docDomain, per
// spec §6.  docDomain is lowercased and has any trailing dot trimmed, as
// spec §3 requires for documentHostname.
func From(rawURL, docDomain string) (r *URLRequest, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Annotate(err, "parsing url: %w")
	}

	host := u.Hostname()
	if host == "" {
		return nil, ErrNoHost
	}

	docDomain = normalizeHost(docDomain)

	r = &URLRequest{
		href:             rawURL,
		lowerCaseHref:    strings.ToLower(rawURL),
		documentHostname: docDomain,
		requestHostname:  strings.ToLower(host),
	}
	r.thirdParty = ThirdParty(r.requestHostname, docDomain)

	return r, nil
}

// normalizeHost lowercases host and trims a single trailing dot, as spec §6
// requires for documentHostname.
func normalizeHost(host string) (normalized string) {
	host = strings.ToLower(host)

	return strings.TrimSuffix(host, ".")
}

// Href returns the request URL in its original case.
func (r *URLRequest) Href() (href string) { return r.href }

// LowerHref returns the request URL lowercased.
func (r *URLRequest) LowerHref() (href string) { return r.lowerCaseHref }

// DocumentHostname returns the lowercased, trailing-dot-trimmed hostname of
// the document that triggered the request.
func (r *URLRequest) DocumentHostname() (hostname string) { return r.documentHostname }

// RequestHostname returns the lowercased hostname the request is made to.
func (r *URLRequest) RequestHostname() (hostname string) { return r.requestHostname }

// IsThirdParty reports whether the request is third-party relative to the
// document that triggered it.
func (r *URLRequest) IsThirdParty() (ok bool) { return r.thirdParty }
