// Package namespace maps user-visible names into the two disjoint namespaces of the
// rotz graph: tags and symbols.
//
// Every name stored in the graph carries a three-byte namespace prefix followed by a
// colon. Tags live under "tag", symbols under the marker ":::". Because a symbol is
// always glued, a symbol name looks like "::::NAME" on disk and can never collide
// with a tag, even a pre-namespaced one.
//
// Example:
//
//	namespace.Tag("music")          // "tag:music"
//	namespace.Tag("genre:jazz")     // "genre:jazz" (already namespaced)
//	namespace.Sym("/tmp/a.mp3")     // "::::/tmp/a.mp3"
//	namespace.Massage("tag:music")  // "music"
package namespace

import (
	"errors"
	"strings"
)

// Namespace prefixes. Both are exactly three bytes long.
const (
	TagSpace = "tag"
	SymSpace = ":::"
)

// prefixLen is the length of a glued prefix including the separating colon.
const prefixLen = 4

// ErrEmptyName is returned when gluing a zero-length name.
var ErrEmptyName = errors.New("empty name")

// Glue returns pre + ":" + name.
//
// pre is expected to be three bytes long; only the first three bytes are used.
// Glue does not inspect name for colons, see MaybeGlue for that.
func Glue(pre, name string) (string, error) {
	if name == "" {
		return "", ErrEmptyName
	}
	if len(pre) > 3 {
		pre = pre[:3]
	}
	var sb strings.Builder
	sb.Grow(prefixLen + len(name))
	sb.WriteString(pre)
	sb.WriteByte(':')
	sb.WriteString(name)
	return sb.String(), nil
}

// MaybeGlue glues pre to name unless name already contains a colon, in which case
// name is assumed to be namespaced by the caller and is returned as is.
func MaybeGlue(pre, name string) (string, error) {
	if strings.IndexByte(name, ':') >= 0 {
		return name, nil
	}
	return Glue(pre, name)
}

// Tag returns the stored form of a tag name.
func Tag(name string) (string, error) {
	return MaybeGlue(TagSpace, name)
}

// Sym returns the stored form of a symbol name. Symbols are always glued.
func Sym(name string) (string, error) {
	return Glue(SymSpace, name)
}

// Massage strips a recognised namespace prefix for display. Names in any other
// namespace are returned unchanged.
func Massage(stored string) string {
	switch {
	case strings.HasPrefix(stored, SymSpace+":"):
		return stored[prefixLen:]
	case strings.HasPrefix(stored, TagSpace+":"):
		return stored[prefixLen:]
	}
	return stored
}

// IsSym reports whether stored lives in the symbol namespace.
func IsSym(stored string) bool {
	return strings.HasPrefix(stored, SymSpace)
}
