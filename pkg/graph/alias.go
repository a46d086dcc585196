package graph

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/rotzdb/rotz/pkg/storage"
)

// AliasList is the stored alias list of a vertex: names, each terminated by a NUL,
// canonical name first.
type AliasList []byte

// Names splits the list into its entries.
func (al AliasList) Names() []string {
	var names []string
	for rest := []byte(al); len(rest) > 0; {
		i := bytes.IndexByte(rest, 0)
		if i < 0 {
			// unterminated tail
			names = append(names, string(rest))
			break
		}
		names = append(names, string(rest[:i]))
		rest = rest[i+1:]
	}
	return names
}

// Canonical returns the first entry.
func (al AliasList) Canonical() string {
	if i := bytes.IndexByte(al, 0); i >= 0 {
		return string(al[:i])
	}
	return string(al)
}

// Contains reports whether name is a whole entry of the list.
func (al AliasList) Contains(name string) bool {
	return findEntry(al, name) >= 0
}

// appendEntry appends name and its terminating NUL to buf.
func appendEntry(buf []byte, name string) []byte {
	buf = append(buf, name...)
	return append(buf, 0)
}

// findEntry returns the offset of name as a whole entry of list, or -1. A match must
// start the buffer or follow a NUL, and must be followed by a NUL, so "foo" is never
// found inside "barfoo\x00".
func findEntry(list []byte, name string) int {
	needle := appendEntry(make([]byte, 0, len(name)+1), name)
	for off := 0; off < len(list); {
		i := bytes.Index(list[off:], needle)
		if i < 0 {
			return -1
		}
		at := off + i
		if at == 0 || list[at-1] == 0 {
			return at
		}
		off = at + 1
	}
	return -1
}

// removeEntry returns a fresh copy of list with the n bytes at off cut out. The order
// of the remaining entries is preserved.
func removeEntry(list []byte, off, n int) []byte {
	out := make([]byte, 0, len(list)-n)
	out = append(out, list[:off]...)
	return append(out, list[off+n:]...)
}

// AliasResult is the outcome of AddAlias.
type AliasResult int

const (
	// AliasAdded means the alias was appended to the vertex's list.
	AliasAdded AliasResult = iota
	// AliasPresent means the alias already was in the list; nothing changed.
	AliasPresent
	// AliasConflict means the alias names a different vertex; nothing changed.
	AliasConflict
)

func (r AliasResult) String() string {
	switch r {
	case AliasAdded:
		return "added"
	case AliasPresent:
		return "present"
	case AliasConflict:
		return "conflict"
	default:
		return fmt.Sprintf("AliasResult(%d)", int(r))
	}
}

// AddAlias makes alias another name of id.
//
// If alias already resolves to a different vertex, AddAlias returns AliasConflict
// together with an error wrapping ErrAliasConflict and changes nothing. Callers that
// meant to merge the two vertices react to that (rotz combine does).
func (g *Graph) AddAlias(id VertexID, alias string) (AliasResult, error) {
	if id == NoVertex {
		return AliasConflict, ErrNoVertex
	}
	if err := validName(alias); err != nil {
		return AliasConflict, err
	}

	res := AliasAdded
	var owner VertexID
	err := g.store.Update(func(txn storage.Txn) error {
		val, err := txn.Get([]byte(alias))
		switch {
		case errors.Is(err, storage.ErrNotFound):
			if err := txn.Put([]byte(alias), encodeID(id)); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if owner = decodeID(val); owner != id {
				res = AliasConflict
				return nil
			}
		}

		key := vertexKey(id)
		al, err := txn.Get(key)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		if findEntry(al, alias) >= 0 {
			res = AliasPresent
			return nil
		}
		return storage.Append(txn, key, appendEntry(nil, alias))
	})
	if err != nil {
		return res, fmt.Errorf("failed to add alias %q: %w", alias, err)
	}
	if res == AliasConflict {
		return res, fmt.Errorf("%w: %q is vertex %d", ErrAliasConflict, alias, owner)
	}
	return res, nil
}

// RemoveAlias drops alias from its vertex's alias list and from the name index.
//
// The name index entry is deleted even if the alias is missing from the list. When the
// list becomes empty its entry is deleted too, leaving a vertex with no names. It
// returns the vertex alias belonged to, or NoVertex if alias was unknown.
func (g *Graph) RemoveAlias(alias string) (VertexID, error) {
	id, err := g.GetVertex(alias)
	if err != nil || id == NoVertex {
		return NoVertex, err
	}

	err = g.store.Update(func(txn storage.Txn) error {
		key := vertexKey(id)
		al, err := txn.Get(key)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		if off := findEntry(al, alias); off >= 0 {
			spliced := removeEntry(al, off, len(alias)+1)
			if len(spliced) == 0 {
				err = txn.Delete(key)
			} else {
				err = txn.Put(key, spliced)
			}
			if err != nil {
				return err
			}
		}
		return txn.Delete([]byte(alias))
	})
	if err != nil {
		return NoVertex, fmt.Errorf("failed to remove alias %q: %w", alias, err)
	}
	return id, nil
}

// GetAliases returns a copy of id's alias list, or nil if id has none.
func (g *Graph) GetAliases(id VertexID) (AliasList, error) {
	val, ok, err := g.get(vertexKey(id))
	if err != nil || !ok {
		return nil, err
	}
	return AliasList(val), nil
}
