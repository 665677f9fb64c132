package rules

import (
	"regexp"

	"github.com/AdguardTeam/golibs/errors"
)

// Kind is the syntactic class of a parsed filter line.  Only Blocking and
// Whitelist ever reach the URL matcher; the rest are recognized so that a
// mixed subscription list can be loaded without the caller having to
// pre-filter lines meant for other collaborators (element hiding, snippets).
type Kind uint8

// Kind values.
const (
	KindInvalid Kind = iota
	KindBlocking
	KindWhitelist
	KindElemHide
	KindElemHideException
	KindElemHideEmulation
	KindSnippet
	KindComment
)

// String returns a human-readable name for k.
func (k Kind) String() string {
	switch k {
	case KindBlocking:
		return "blocking"
	case KindWhitelist:
		return "whitelist"
	case KindElemHide:
		return "elemhide"
	case KindElemHideException:
		return "elemhide-exception"
	case KindElemHideEmulation:
		return "elemhide-emulation"
	case KindSnippet:
		return "snippet"
	case KindComment:
		return "comment"
	default:
		return "invalid"
	}
}

// ThirdParty is the tri-state restriction a filter may place on the
// relationship between the request's origin and the document's origin.
type ThirdParty uint8

// ThirdParty values.
const (
	ThirdPartyAny ThirdParty = iota
	ThirdPartyOnly
	ThirdPartyOnlyFirst
)

// Matches reports whether isThirdParty (the request's own computed
// third-party flag) is compatible with the filter's restriction t.
func (t ThirdParty) Matches(isThirdParty bool) (ok bool) {
	switch t {
	case ThirdPartyOnly:
		return isThirdParty
	case ThirdPartyOnlyFirst:
		return !isThirdParty
	default:
		return true
	}
}

// ErrEmptyText is the InvalidReason FromText records for an empty line.
const ErrEmptyText errors.Error = "empty filter text"

// Filter is an immutable filter descriptor.  Two Filter values with equal
// Text are interchangeable everywhere in this module; Text is the only
// identity the matcher cares about.
//
// A Filter is only ever produced by FromText or by a test helper that builds
// one directly; once constructed, none of its fields are mutated.
type Filter struct {
	// re is the filter's pattern, fully translated to a regular expression,
	// or the user-provided regex for a "/.../ " literal.  Compiled once by
	// FromText at parse time and cached on the value, since Filter is meant to be shared
	// (via the fromText memo) across every Matcher that indexes it.
	re *regexp.Regexp

	// Text is the canonical filter-list line this value was parsed from.  It
	// is the equality key used by Matcher.Has and FiltersByDomain.
	Text string

	// Pattern is the literal/wildcard pattern source, or, when IsRegex is
	// true, the body of a "/.../ " regex literal without its slashes.
	Pattern string

	// Domains is the optional domain restriction map.  A nil Domains means
	// "applies everywhere".
	Domains *DomainMap

	// Sitekeys is the optional list of uppercase public-key identifiers this
	// filter is restricted to.
	Sitekeys []string

	// Rewrite is the $rewrite=abp-resource:<name> payload, blocking-only,
	// carried through but never consulted during match selection.
	Rewrite string

	// CSP is the $csp=<policy> payload, blocking-only, carried through but
	// never consulted during match selection.
	CSP string

	// InvalidReason holds a machine-readable explanation when Kind is
	// KindInvalid.
	InvalidReason string

	// Kind is the filter's syntactic class.
	Kind Kind

	// ContentType is the bitmask of resource/special types this filter is
	// restricted to.  Zero means "use the default" (RESOURCE_TYPES for a URL
	// filter).
	ContentType ContentType

	// ThirdPartyRestriction is the tri-state third-party restriction.
	ThirdPartyRestriction ThirdParty

	// MatchCase, when false (the default), means matching is done against
	// the lowercased URL.
	MatchCase bool

	// IsRegex is true when Pattern holds a regex literal's source rather
	// than a wildcard pattern.
	IsRegex bool
}

// IsGeneric reports whether the filter applies on any domain and requires no
// sitekey — the spec's definition of a "generic" filter, consulted by
// specificOnly queries.
func (f *Filter) IsGeneric() (ok bool) {
	if len(f.Sitekeys) > 0 {
		return false
	}

	if f.Domains == nil {
		return true
	}

	return !f.Domains.HasRestrictions()
}

// EffectiveContentType returns f.ContentType, defaulting to RESOURCE_TYPES
// when the filter didn't specify one, as real URL filters do.
func (f *Filter) EffectiveContentType() (ct ContentType) {
	if f.ContentType == 0 {
		return RESOURCE_TYPES
	}

	return f.ContentType
}

// IsSimple reports whether f is eligible for the matcher's "simple" fast
// path (spec §4.5, policy 2): it must cover exactly RESOURCE_TYPES, be
// generic, and carry no sitekey restriction.
func (f *Filter) IsSimple() (ok bool) {
	return f.EffectiveContentType() == RESOURCE_TYPES && f.IsGeneric()
}
