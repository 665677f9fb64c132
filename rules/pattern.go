package rules

import (
	"regexp"
	"strings"

	"github.com/AdguardTeam/golibs/errors"
)

// separatorClass is the RE2 character class for the filter-grammar separator
// character: "any byte in the set 0x00–0x24, 0x26–0x2C, 0x2F, 0x3A–0x40,
// 0x5B–0x5E, 0x60, 0x7B–0x7F" (spec §6).
const separatorClass = `[\x00-\x24\x26-\x2C\x2F\x3A-\x40\x5B-\x5E\x60\x7B-\x7F]`

// translatePattern turns a wildcard pattern into the source of an RE2
// regular expression, per spec §6: "*" is a wildcard, "^" matches a
// separator, "|" at the start/end is a boundary anchor, and "||" at the
// start anchors at a domain boundary.
func translatePattern(pattern string) (src string) {
	var b strings.Builder

	s := pattern
	switch {
	case strings.HasPrefix(s, "||"):
		// Anchor after a scheme and an optional chain of
		// subdomain labels, i.e. at a domain boundary.
		b.WriteString(`^[a-zA-Z-]+:\/+(?:[^\/]+\.)?`)
		s = s[2:]
	case strings.HasPrefix(s, "|"):
		b.WriteString(`^`)
		s = s[1:]
	}

	endAnchor := false
	if strings.HasSuffix(s, "|") {
		endAnchor = true
		s = s[:len(s)-1]
	}

	for _, r := range s {
		switch r {
		case '*':
			b.WriteString(`.*`)
		case '^':
			// Per spec §6, "^" matches a separator character OR the end of
			// the address — a pattern like "^foo^" must still hit a URL
			// that ends right after "foo".
			b.WriteString(`(?:` + separatorClass + `|$)`)
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}

	if endAnchor {
		b.WriteString(`$`)
	}

	return b.String()
}

// ErrBadRegexp is returned (wrapped) when a filter's pattern or regex literal
// fails to compile.
const ErrBadRegexp errors.Error = "pattern does not compile to a valid regular expression"

// compilePattern compiles f's pattern or regex literal into a regular
// expression, honoring MatchCase the way spec §4.5 requires: when MatchCase
// is false, the translation is built from the lowercased source and is meant
// to be matched against the request's lowercased href.
func compilePattern(pattern string, isRegex, matchCase bool) (re *regexp.Regexp, err error) {
	src := patternSource(pattern, isRegex, matchCase)

	re, err = regexp.Compile(src)
	if err != nil {
		return nil, errors.Annotate(err, "%w: %w", ErrBadRegexp)
	}

	return re, nil
}

// patternSource computes the regular-expression source compilePattern
// compiles: a wildcard pattern is lowercased (when matchCase is false) and
// translated; a regex literal is used as-is, gaining an "(?i)" prefix when
// matchCase is false.
func patternSource(pattern string, isRegex, matchCase bool) (src string) {
	src = pattern
	if !isRegex {
		if !matchCase {
			src = strings.ToLower(pattern)
		}

		src = translatePattern(src)
	} else if !matchCase {
		src = "(?i)" + src
	}

	return src
}

// RegexSource returns the same regular-expression source compilePattern
// would compile for f, without compiling it — the form compiledset.Build
// fuses into its per-case-sensitivity alternation regexes (spec §4.4). The
// result is meant to be matched against req.Href() when f.MatchCase is
// true, or req.LowerHref() when it is false, exactly as Filter.Matches
// does.
func (f *Filter) RegexSource() (src string) {
	return patternSource(f.Pattern, f.IsRegex, f.MatchCase)
}
