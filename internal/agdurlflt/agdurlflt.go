// Package agdurlflt contains utilities for serializing filter rule lines
// into a single newline-joined byte buffer, the shape package engine's
// LoadRules reads.
package agdurlflt

import "bytes"

// RulesLen returns the length of the byte buffer necessary to write ruleStrs,
// separated by a newline, to it.
func RulesLen[S ~string](ruleStrs []S) (l int) {
	if len(ruleStrs) == 0 {
		return 0
	}

	for _, s := range ruleStrs {
		l += len(s) + len("\n")
	}

	return l
}

// RulesToBytes writes ruleStrs to a byte slice and returns it.
//
// TODO(a.garipov):  Consider moving to golibs or urlfilter.
func RulesToBytes[S ~string](ruleStrs []S) (b []byte) {
	l := RulesLen(ruleStrs)
	if l == 0 {
		return nil
	}

	buf := bytes.NewBuffer(make([]byte, 0, l))
	for _, s := range ruleStrs {
		_, _ = buf.WriteString(string(s))
		_ = buf.WriteByte('\n')
	}

	return buf.Bytes()
}
