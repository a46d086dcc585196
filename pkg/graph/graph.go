// Package graph implements the rotz graph engine on top of a storage.Store.
//
// The engine knows three things about every vertex:
//
//   - its names, in the direct name→id index (one key per name)
//   - its alias list, a NUL-terminated name list whose first entry is the canonical name
//   - its adjacency list, a packed array of neighbour ids
//
// Edges are logically undirected but stored as two directed entries. The engine never
// enforces symmetry on its own; use UndirectedEdge when both directions must change.
//
// Every primitive runs in its own backend transaction. There is no atomicity across
// primitives: a crash between AddVertex and AddEdge, or between the two directions of
// an UndirectedEdge, leaves a half-built association behind. Graph.Check reports such
// damage without repairing it.
//
// Example:
//
//	store, _ := storage.Open(storage.Options{Path: "rotz.badger", Create: true})
//	g := graph.New(store, logrus.New())
//
//	fruit, _ := g.AddVertex("tag:fruit")
//	apple, _ := g.AddVertex("::::apple")
//	_, _ = graph.UndirectedEdge{A: fruit, B: apple}.Add(g)
//
//	syms, _ := g.GetEdges(fruit) // [apple]
package graph

import (
	"errors"

	"github.com/rotzdb/rotz/pkg/storage"
	"github.com/sirupsen/logrus"
)

// Graph errors
var (
	ErrAliasConflict  = errors.New("alias belongs to another vertex")
	ErrCounterCorrupt = errors.New("vertex id counter is corrupt")
)

// Graph is the rotz graph engine. It holds no state of its own besides the store and
// is safe for concurrent use to the extent the store is.
type Graph struct {
	store storage.Store
	log   logrus.FieldLogger
}

// New creates a Graph over store. A nil logger discards diagnostics.
func New(store storage.Store, log logrus.FieldLogger) *Graph {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return &Graph{store: store, log: log}
}

// Store returns the underlying store.
func (g *Graph) Store() storage.Store { return g.store }

// get copies the value under key out of a read transaction. A missing key is reported
// as ok=false with a nil error.
func (g *Graph) get(key []byte) (val []byte, ok bool, err error) {
	val, err = storage.Get(g.store, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (g *Graph) put(key, val []byte) error {
	return g.store.Update(func(txn storage.Txn) error {
		return txn.Put(key, val)
	})
}

func (g *Graph) del(key []byte) error {
	return g.store.Update(func(txn storage.Txn) error {
		return txn.Delete(key)
	})
}
