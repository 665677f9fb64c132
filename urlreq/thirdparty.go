package urlreq

import (
	"net"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// ThirdParty reports whether requestHost is third-party relative to
// docHost, using the registrable-domain relation from the Public Suffix
// List — the external collaborator spec §6 calls for ("typically backed by
// a Public Suffix List"), here golang.org/x/net/publicsuffix, the same
// family of dependency the teacher wires in via cookiejar.PublicSuffixList.
func ThirdParty(requestHost, docHost string) (thirdParty bool) {
	if requestHost == "" || docHost == "" {
		return false
	}

	if requestHost == docHost {
		return false
	}

	reqReg := registrableDomain(requestHost)
	docReg := registrableDomain(docHost)

	return reqReg != docReg
}

// registrableDomain returns the eTLD+1 of host, falling back to host itself
// when the Public Suffix List can't derive one (e.g. host is already a bare
// public suffix, or an IP literal).
func registrableDomain(host string) (domain string) {
	if net.ParseIP(host) != nil {
		return host
	}

	domain, err := publicsuffix.EffectiveTLDPlusOne(strings.TrimSuffix(host, "."))
	if err != nil {
		return host
	}

	return domain
}
