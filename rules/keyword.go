package rules

// badKeywords are candidates rejected even though they'd otherwise be
// syntactically valid — spec §4.3 calls these out by name because they are
// far too common in URLs to discriminate anything.
var badKeywords = map[string]bool{
	"http":  true,
	"https": true,
	"com":   true,
	"js":    true,
}

// isTokenByte reports whether b may appear inside a keyword candidate.
func isTokenByte(b byte) (ok bool) {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9') || b == '%'
}

// isDelimByte reports whether b is a valid keyword-candidate delimiter: any
// byte that isn't a token byte and isn't "*".
func isDelimByte(b byte) (ok bool) {
	return !isTokenByte(b) && b != '*'
}

// KeywordCandidates scans the lowercased pattern for tokens matching
// spec §4.3's `[^a-z0-9%*][a-z0-9%]{2,}(?=[^a-z0-9%*])`: each candidate must
// be flanked by a delimiter on both sides (RE2 has no lookahead, so this is
// implemented as an explicit scan rather than as a single regexp), and its
// leading delimiter is stripped.  Bad keywords are excluded.  The pattern
// must already be lowercased by the caller.
func KeywordCandidates(patternLower string) (candidates []string) {
	n := len(patternLower)

	for i := 0; i < n; {
		if !isDelimByte(patternLower[i]) {
			i++

			continue
		}

		j := i + 1
		for j < n && isTokenByte(patternLower[j]) {
			j++
		}

		tokLen := j - (i + 1)
		if tokLen >= 2 && j < n && isDelimByte(patternLower[j]) {
			tok := patternLower[i+1 : j]
			if !badKeywords[tok] {
				candidates = append(candidates, tok)
			}
		}

		i = j
	}

	return candidates
}

// URLKeywordCandidates scans lowerHref for every maximal run matching
// `[a-z0-9%]{2,}` (spec §4.5's "candidate extraction from a URL"), in
// extraction order, skipping bad keywords. Unlike KeywordCandidates, a run
// needs no flanking delimiter — it is bounded only by token-byte runs.
func URLKeywordCandidates(lowerHref string) (candidates []string) {
	n := len(lowerHref)

	for i := 0; i < n; {
		if !isTokenByte(lowerHref[i]) {
			i++

			continue
		}

		j := i
		for j < n && isTokenByte(lowerHref[j]) {
			j++
		}

		if j-i >= 2 {
			tok := lowerHref[i:j]
			if !badKeywords[tok] {
				candidates = append(candidates, tok)
			}
		}

		i = j
	}

	return candidates
}
