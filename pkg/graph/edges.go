package graph

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/rotzdb/rotz/pkg/storage"
)

// VertexList is a list of vertex ids, typically one adjacency list.
type VertexList []VertexID

// Contains reports whether id is in the list (linear scan).
func (l VertexList) Contains(id VertexID) bool {
	return l.index(id) >= 0
}

func (l VertexList) index(id VertexID) int {
	for i, v := range l {
		if v == id {
			return i
		}
	}
	return -1
}

// encode packs the list as 4-byte little-endian ids.
func (l VertexList) encode() []byte {
	b := make([]byte, len(l)*idSize)
	for i, v := range l {
		binary.LittleEndian.PutUint32(b[i*idSize:], uint32(v))
	}
	return b
}

// decodeList unpacks a stored adjacency list. A trailing partial id is ignored.
func decodeList(b []byte) VertexList {
	n := len(b) / idSize
	if n == 0 {
		return nil
	}
	l := make(VertexList, n)
	for i := range l {
		l[i] = VertexID(binary.LittleEndian.Uint32(b[i*idSize:]))
	}
	return l
}

// packedIndex finds id in a packed list without decoding it.
func packedIndex(b []byte, id VertexID) int {
	for i := 0; i+idSize <= len(b); i += idSize {
		if VertexID(binary.LittleEndian.Uint32(b[i:])) == id {
			return i / idSize
		}
	}
	return -1
}

// GetEdges returns a copy of from's adjacency list. A vertex without edges yields nil.
func (g *Graph) GetEdges(from VertexID) (VertexList, error) {
	val, ok, err := g.get(edgeKey(from))
	if err != nil || !ok {
		return nil, err
	}
	return decodeList(val), nil
}

// EdgeExists reports whether to is in from's adjacency list.
func (g *Graph) EdgeExists(from, to VertexID) (bool, error) {
	var found bool
	err := g.store.View(func(txn storage.Txn) error {
		val, err := txn.Get(edgeKey(from))
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = packedIndex(val, to) >= 0
		return nil
	})
	return found, err
}

// AddEdge appends to to from's adjacency list unless it is already there. It reports
// whether the list changed. Only the from→to direction is written.
func (g *Graph) AddEdge(from, to VertexID) (bool, error) {
	if from == NoVertex || to == NoVertex {
		return false, ErrNoVertex
	}
	inserted := false
	err := g.store.Update(func(txn storage.Txn) error {
		key := edgeKey(from)
		val, err := txn.Get(key)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		if packedIndex(val, to) >= 0 {
			return nil
		}
		inserted = true
		return storage.Append(txn, key, encodeID(to))
	})
	if err != nil {
		return false, fmt.Errorf("failed to add edge %d->%d: %w", from, to, err)
	}
	return inserted, nil
}

// RemoveEdge cuts to out of from's adjacency list, keeping the order of the rest. It
// reports whether the list changed. A list that becomes empty is deleted.
func (g *Graph) RemoveEdge(from, to VertexID) (bool, error) {
	removed := false
	err := g.store.Update(func(txn storage.Txn) error {
		key := edgeKey(from)
		val, err := txn.Get(key)
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		idx := packedIndex(val, to)
		if idx < 0 {
			return nil
		}
		removed = true
		off := idx * idSize
		if len(val) == idSize {
			return txn.Delete(key)
		}
		spliced := make([]byte, 0, len(val)-idSize)
		spliced = append(spliced, val[:off]...)
		spliced = append(spliced, val[off+idSize:]...)
		return txn.Put(key, spliced)
	})
	if err != nil {
		return false, fmt.Errorf("failed to remove edge %d->%d: %w", from, to, err)
	}
	return removed, nil
}

// RemoveAllEdges deletes from's adjacency list outright. Reverse entries held by the
// neighbours are not touched.
func (g *Graph) RemoveAllEdges(from VertexID) error {
	if err := g.del(edgeKey(from)); err != nil {
		return fmt.Errorf("failed to remove edges of %d: %w", from, err)
	}
	return nil
}

// CountEdges returns the length of from's adjacency list without decoding it.
func (g *Graph) CountEdges(from VertexID) (int, error) {
	var n int
	err := g.store.View(func(txn storage.Txn) error {
		val, err := txn.Get(edgeKey(from))
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		n = len(val) / idSize
		return nil
	})
	return n, err
}

// Adjacency calls fn for every stored adjacency list in ascending key order. The
// lists are copied out before fn runs.
func (g *Graph) Adjacency(fn func(from VertexID, edges VertexList) error) error {
	type entry struct {
		from  VertexID
		edges VertexList
	}
	var entries []entry
	err := g.store.View(func(txn storage.Txn) error {
		return txn.Iterate(edgePrefix, func(k, v []byte) error {
			if from := idFromEdgeKey(k); from != NoVertex {
				entries = append(entries, entry{from: from, edges: decodeList(v)})
			}
			return nil
		})
	})
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := fn(e.from, e.edges); err != nil {
			return err
		}
	}
	return nil
}
