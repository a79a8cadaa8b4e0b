package usecase

import "strings"

// wildcardSegment is the single path segment that matches exactly one
// non-empty path segment.
const wildcardSegment = "*"

// MatchPath reports whether pattern matches path under the rules of
// SPEC_FULL.md §4.5: both are split on "/", a single trailing "/" is
// normalised away first, the pattern matches iff it has the same number of
// segments as the path and, for every position, the pattern segment is
// either "*" or byte-equal to the path segment. "*" never crosses "/". An
// empty or absent pattern or path never matches.
func MatchPath(pattern, path string) bool {
	if pattern == "" || path == "" {
		return false
	}

	patternSegments := splitPath(pattern)
	pathSegments := splitPath(path)

	if len(patternSegments) != len(pathSegments) {
		return false
	}

	for i, ps := range patternSegments {
		if ps == wildcardSegment {
			if pathSegments[i] == "" {
				return false
			}
			continue
		}
		if ps != pathSegments[i] {
			return false
		}
	}
	return true
}

// splitPath normalises a single trailing "/" away and splits on "/".
func splitPath(s string) []string {
	if len(s) > 1 && strings.HasSuffix(s, "/") {
		s = s[:len(s)-1]
	}
	return strings.Split(s, "/")
}
