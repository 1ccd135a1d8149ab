package docstore

import "strings"

// Split breaks path into its non-empty segments. The root path ("" or "/")
// has no segments.
func Split(path string) []string {
	raw := strings.Split(path, "/")
	segs := raw[:0]
	for _, s := range raw {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

// Join builds a clean path from parts; each part may itself contain slashes.
func Join(parts ...string) string {
	var segs []string
	for _, p := range parts {
		segs = append(segs, Split(p)...)
	}
	return strings.Join(segs, "/")
}

// hasPrefix reports whether prefix is a leading run of segments of segs.
func hasPrefix(segs, prefix []string) bool {
	if len(prefix) > len(segs) {
		return false
	}
	for i := range prefix {
		if segs[i] != prefix[i] {
			return false
		}
	}
	return true
}

// related reports whether a change at one path is visible from the other.
func related(a, b []string) bool {
	return hasPrefix(a, b) || hasPrefix(b, a)
}
