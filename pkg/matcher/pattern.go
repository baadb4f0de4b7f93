// Package matcher compares JSON documents and classifies the differences.
package matcher

import "strings"

// segment is one element of a compiled ignore pattern: either a literal
// field name or the single-segment wildcard "*".
type segment struct {
	literal  string
	wildcard bool
}

// Pattern is the compiled form of a dotted ignore pattern such as
// "choices.*.message.content". A wildcard matches exactly one path segment,
// object key or decimal array index alike. Matching is anchored: the whole
// path must be consumed. Multi-segment wildcards ("**") are deliberately
// not supported.
type Pattern struct {
	raw      string
	segments []segment
}

func CompilePattern(pattern string) Pattern {
	parts := strings.Split(pattern, ".")
	segs := make([]segment, 0, len(parts))
	for _, p := range parts {
		segs = append(segs, segment{literal: p, wildcard: p == "*"})
	}
	return Pattern{raw: pattern, segments: segs}
}

func (p Pattern) String() string {
	return p.raw
}

// Matches reports whether path, a fully resolved literal diff path, is
// covered by the pattern.
func (p Pattern) Matches(path string) bool {
	parts := strings.Split(path, ".")
	if len(parts) != len(p.segments) {
		return false
	}
	for i, seg := range p.segments {
		if seg.wildcard {
			continue
		}
		if parts[i] != seg.literal {
			return false
		}
	}
	return true
}

// Matches is the single-shot convenience over CompilePattern.
func Matches(path, pattern string) bool {
	return CompilePattern(pattern).Matches(path)
}

// ShouldIgnore reports whether any of the patterns covers the path.
func ShouldIgnore(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if Matches(path, pattern) {
			return true
		}
	}
	return false
}

func shouldIgnoreCompiled(path string, patterns []Pattern) bool {
	for _, p := range patterns {
		if p.Matches(path) {
			return true
		}
	}
	return false
}
