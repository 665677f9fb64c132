package rules

import (
	"fmt"
	"strings"
)

// FromText parses a single filter-list line into a Filter, per the grammar
// in spec §6: "[@@]<pattern>[$<options>]" for URL filters, plus comment and
// element-hiding/snippet line shapes recognized well enough that a mixed
// subscription list can be loaded without external pre-filtering (spec §12).
//
// FromText never returns nil.  A line that can't be parsed as any recognized
// shape comes back as a Filter with Kind == KindInvalid and a populated
// InvalidReason; invalid filters must never be given to a Matcher.
//
// FromText is referentially transparent: calling it twice with equal text
// produces Filter values that compare equal on every field a Matcher reads.
// It does not memoize on its own — wrap it in a TextCache (see cache.go) to
// get the process-wide memo spec §3 describes.
func FromText(text string) (f *Filter) {
	line := strings.TrimSpace(text)
	if line == "" {
		return &Filter{Text: text, Kind: KindInvalid, InvalidReason: string(ErrEmptyText)}
	}

	if isComment(line) {
		return &Filter{Text: text, Kind: KindComment}
	}

	if kind, ok := elemHideKind(line); ok {
		return &Filter{Text: text, Kind: kind}
	}

	if strings.Contains(line, "#%#") || strings.Contains(line, "#$#") {
		return &Filter{Text: text, Kind: KindSnippet}
	}

	return parseURLFilter(text, line)
}

// isComment reports whether line is a comment or a list-header line.
func isComment(line string) (ok bool) {
	return strings.HasPrefix(line, "!") || strings.HasPrefix(line, "[")
}

// elemHideKind recognizes the "##"/"#@#"/"#?#" element-hiding line shapes.
// It does not parse the selector — that's a collaborator's job (spec §1) —
// it only needs to recognize the kind so a mixed list can skip these lines
// when loading URL filters.
func elemHideKind(line string) (kind Kind, ok bool) {
	switch {
	case strings.Contains(line, "#@#"):
		return KindElemHideException, true
	case strings.Contains(line, "#?#"):
		return KindElemHideEmulation, true
	case strings.Contains(line, "##"):
		return KindElemHide, true
	default:
		return KindInvalid, false
	}
}

// parseURLFilter parses the `[@@]<pattern>[$<options>]` shape.
func parseURLFilter(text, line string) (f *Filter) {
	kind := KindBlocking
	body := line
	if strings.HasPrefix(body, "@@") {
		kind = KindWhitelist
		body = body[2:]
	}

	pattern, optionsStr := splitOptions(body)

	f = &Filter{Text: text, Kind: kind}

	if strings.HasPrefix(pattern, "/") && strings.HasSuffix(pattern, "/") && len(pattern) >= 2 {
		f.IsRegex = true
		f.Pattern = pattern[1 : len(pattern)-1]
	} else {
		f.Pattern = pattern
	}

	if optionsStr != "" {
		if err := applyOptions(f, optionsStr); err != nil {
			f.Kind = KindInvalid
			f.InvalidReason = err.Error()

			return f
		}
	}

	re, err := compilePattern(f.Pattern, f.IsRegex, f.MatchCase)
	if err != nil {
		f.Kind = KindInvalid
		f.InvalidReason = err.Error()

		return f
	}

	f.re = re

	return f
}

// splitOptions splits body into its pattern and its raw (unparsed) option
// list, at the last "$" (escapes are not recognized).  A "$" inside a "/.../ " regex literal is
// not a split point.
func splitOptions(body string) (pattern, options string) {
	if strings.HasPrefix(body, "/") {
		if end := strings.LastIndexByte(body, '/'); end > 0 {
			if dollar := strings.IndexByte(body[end:], '$'); dollar >= 0 {
				return body[:end+dollar], body[end+dollar+1:]
			}

			return body, ""
		}
	}

	i := strings.LastIndexByte(body, '$')
	if i < 0 {
		return body, ""
	}

	return body[:i], body[i+1:]
}

// applyOptions parses the comma-separated option list and mutates f
// accordingly.  It returns an error, and the caller marks f invalid, on any
// unrecognized or malformed option, per spec §7: "Invalid combinations yield
// an invalid filter".
func applyOptions(f *Filter, optionsStr string) (err error) {
	var includedTypes, excludedTypes ContentType
	var sawInclusion, sawExclusion bool

	for _, opt := range strings.Split(optionsStr, ",") {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			continue
		}

		neg := false
		name := opt
		if strings.HasPrefix(name, "~") {
			neg = true
			name = name[1:]
		}

		name, value, hasValue := strings.Cut(name, "=")

		if ct, isType := contentTypeNames[name]; isType && !hasValue {
			if neg {
				excludedTypes |= ct
				sawExclusion = true
			} else {
				includedTypes |= ct
				sawInclusion = true
			}

			continue
		}

		switch name {
		case "match-case":
			f.MatchCase = true
		case "third-party":
			if neg {
				f.ThirdPartyRestriction = ThirdPartyOnlyFirst
			} else {
				f.ThirdPartyRestriction = ThirdPartyOnly
			}
		case "domain":
			if !hasValue {
				return fmt.Errorf("domain option requires a value")
			}

			f.Domains = ParseDomains(value, '|')
		case "sitekey":
			if !hasValue {
				return fmt.Errorf("sitekey option requires a value")
			}

			for _, k := range strings.Split(value, "|") {
				if k != "" {
					f.Sitekeys = append(f.Sitekeys, strings.ToUpper(k))
				}
			}
		case "rewrite":
			f.Rewrite = value
		case "csp":
			f.CSP = value
		default:
			return fmt.Errorf("unknown option %q", opt)
		}
	}

	switch {
	case sawInclusion:
		f.ContentType = includedTypes
	case sawExclusion:
		f.ContentType = RESOURCE_TYPES &^ excludedTypes
	}

	return nil
}
