package dirstat

import (
	"strings"
)

// Separator separates path segments in trace paths.
const Separator = "/"

// Path is an absolute path in the reconstructed tree, an ordered sequence of
// segment names. The root is the empty sequence.
//
// Segments are encoded into a single string ("/a/b", "" for the root) so that
// Path is comparable and can be used directly as a map key.
// The zero value is the root.
type Path struct {
	key string
}

// Root returns the root path.
func Root() Path {
	return Path{}
}

// ParsePath splits s on the separator. Empty segments are dropped, so
// "a//b/", "/a/b" and "a/b" all yield the same path.
func ParsePath(s string) Path {
	var b strings.Builder

	for _, segment := range strings.Split(s, Separator) {
		if segment == "" {
			continue
		}

		b.WriteString(Separator)
		b.WriteString(segment)
	}

	return Path{key: b.String()}
}

// NewPath builds a path from segments.
func NewPath(segments ...string) Path {
	return ParsePath(strings.Join(segments, Separator))
}

// IsRoot reports whether p is the root.
func (p Path) IsRoot() bool {
	return p.key == ""
}

// Segments returns a copy of the segment names.
func (p Path) Segments() []string {
	if p.IsRoot() {
		return []string{}
	}

	return strings.Split(p.key[1:], Separator)
}

// Depth is the number of segments.
func (p Path) Depth() int {
	if p.IsRoot() {
		return 0
	}

	return strings.Count(p.key, Separator)
}

// Base returns the last segment, or "" for the root.
func (p Path) Base() string {
	return p.key[strings.LastIndex(p.key, Separator)+1:]
}

// Parent drops the last segment. The parent of the root is the root.
func (p Path) Parent() Path {
	if p.IsRoot() {
		return p
	}

	return Path{key: p.key[:strings.LastIndex(p.key, Separator)]}
}

// Join appends the segments of rel to p.
func (p Path) Join(rel Path) Path {
	return Path{key: p.key + rel.key}
}

// IsAncestorOf reports whether p is a proper ancestor of other.
func (p Path) IsAncestorOf(other Path) bool {
	if p == other {
		return false
	}

	return p.IsRoot() || strings.HasPrefix(other.key, p.key+Separator)
}

// String renders the path in slash form, "/" for the root.
func (p Path) String() string {
	if p.IsRoot() {
		return Separator
	}

	return p.key
}

// MarshalText implements encoding.TextMarshaler, so paths work as JSON keys.
func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Path) UnmarshalText(text []byte) error {
	*p = ParsePath(string(text))

	return nil
}
