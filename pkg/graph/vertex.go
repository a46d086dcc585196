package graph

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/rotzdb/rotz/pkg/storage"
)

// Vertex errors
var (
	ErrNoVertex    = errors.New("no such vertex")
	ErrInvalidName = errors.New("invalid vertex name")
)

func validName(name string) error {
	if name == "" || strings.IndexByte(name, 0) >= 0 {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// GetVertex looks name up in the name index. It returns NoVertex if the name is
// unknown or its index entry is malformed.
func (g *Graph) GetVertex(name string) (VertexID, error) {
	if err := validName(name); err != nil {
		return NoVertex, err
	}
	val, ok, err := g.get([]byte(name))
	if err != nil || !ok {
		return NoVertex, err
	}
	return decodeID(val), nil
}

// AddVertex returns the id of name, allocating a new vertex if name is unknown.
//
// Allocation takes three transactions: bump the counter, write name→id, write the
// alias list. If the alias list cannot be written, the name index entry is removed
// again on a best-effort basis. A failure of that cleanup leaves a name that resolves
// to a vertex without alias list; Check reports it.
func (g *Graph) AddVertex(name string) (VertexID, error) {
	id, err := g.GetVertex(name)
	if err != nil || id != NoVertex {
		return id, err
	}

	if id, err = g.nextID(); err != nil {
		return NoVertex, err
	}
	if err := g.put([]byte(name), encodeID(id)); err != nil {
		return NoVertex, fmt.Errorf("failed to index %q: %w", name, err)
	}
	if err := g.put(vertexKey(id), appendEntry(nil, name)); err != nil {
		if derr := g.del([]byte(name)); derr != nil {
			g.log.WithError(derr).WithField("name", name).Warn("could not undo name index entry")
		}
		return NoVertex, fmt.Errorf("failed to store alias list of %q: %w", name, err)
	}
	return id, nil
}

// RemoveVertex deletes name's vertex: every name-index entry of its aliases and the
// alias list itself. Adjacency lists are left alone; callers clear edges first.
// It returns the removed id, or NoVertex if name was unknown.
func (g *Graph) RemoveVertex(name string) (VertexID, error) {
	id, err := g.GetVertex(name)
	if err != nil || id == NoVertex {
		return NoVertex, err
	}

	err = g.store.Update(func(txn storage.Txn) error {
		al, err := txn.Get(vertexKey(id))
		switch {
		case errors.Is(err, storage.ErrNotFound):
			// No alias list, the name we were given is all we know of.
			if err := txn.Delete([]byte(name)); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			for _, n := range AliasList(al).Names() {
				if err := txn.Delete([]byte(n)); err != nil {
					return err
				}
			}
		}
		return txn.Delete(vertexKey(id))
	})
	if err != nil {
		return NoVertex, fmt.Errorf("failed to remove vertex %q: %w", name, err)
	}
	return id, nil
}

// GetName returns the canonical name of id.
func (g *Graph) GetName(id VertexID) (string, bool, error) {
	al, err := g.GetAliases(id)
	if err != nil || al == nil {
		return "", false, err
	}
	return al.Canonical(), true, nil
}

// Vertices calls fn for every vertex with an alias list, in ascending key order.
// The lists are copied out before fn runs, so fn may modify the graph.
func (g *Graph) Vertices(fn func(id VertexID, aliases AliasList) error) error {
	type entry struct {
		id VertexID
		al AliasList
	}
	var entries []entry
	err := g.store.View(func(txn storage.Txn) error {
		return txn.Iterate(vertexPrefix, func(k, v []byte) error {
			id := idFromVertexKey(k)
			if id == NoVertex {
				return nil
			}
			entries = append(entries, entry{id: id, al: AliasList(bytes.Clone(v))})
			return nil
		})
	})
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := fn(e.id, e.al); err != nil {
			return err
		}
	}
	return nil
}

// Names calls fn for every name-index entry starting with prefix, in ascending byte
// order. The counter and the vtx/edg families are skipped.
func (g *Graph) Names(prefix string, fn func(name string, id VertexID) error) error {
	type entry struct {
		name string
		id   VertexID
	}
	var entries []entry
	err := g.store.View(func(txn storage.Txn) error {
		return txn.Iterate([]byte(prefix), func(k, v []byte) error {
			if bytes.IndexByte(k, 0) >= 0 {
				// counter, vtx and edg keys all contain a NUL, names never do
				return nil
			}
			entries = append(entries, entry{name: string(k), id: decodeID(v)})
			return nil
		})
	})
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := fn(e.name, e.id); err != nil {
			return err
		}
	}
	return nil
}

// Counter returns the last allocated vertex id.
func (g *Graph) Counter() (VertexID, error) {
	val, ok, err := g.get(counterKey)
	if err != nil || !ok {
		return NoVertex, err
	}
	if len(val) != idSize {
		return NoVertex, ErrCounterCorrupt
	}
	return decodeID(val), nil
}

// nextID bumps the counter in its own transaction and returns the new value.
func (g *Graph) nextID() (VertexID, error) {
	var id VertexID
	err := g.store.Update(func(txn storage.Txn) error {
		var cur uint32
		val, err := txn.Get(counterKey)
		switch {
		case errors.Is(err, storage.ErrNotFound):
		case err != nil:
			return err
		case len(val) != idSize:
			return ErrCounterCorrupt
		default:
			cur = binary.LittleEndian.Uint32(val)
		}
		if cur == math.MaxUint32 {
			return fmt.Errorf("%w: id space exhausted", ErrCounterCorrupt)
		}
		id = VertexID(cur + 1)
		return txn.Put(counterKey, encodeID(id))
	})
	if err != nil {
		return NoVertex, fmt.Errorf("failed to allocate vertex id: %w", err)
	}
	return id, nil
}
