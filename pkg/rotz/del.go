package rotz

import (
	"fmt"
	"io"

	"github.com/rotzdb/rotz/pkg/graph"
)

// Untag removes the association between tag and every symbol in syms. Vertices stay
// in place even when they end up without edges. In verbose mode every removed pair is
// written to w as "-TAG\tSYM".
func (db *DB) Untag(w io.Writer, tag string, syms []string) error {
	release, err := db.acquire()
	if err != nil {
		return err
	}
	defer release()

	tid, _, err := db.tagVertex(tag)
	if err != nil {
		return err
	}
	if tid == graph.NoVertex {
		db.log.WithField("tag", tag).Debug("cannot find tag in database, no deletions")
		return nil
	}
	for _, sym := range syms {
		sid, _, err := db.symVertex(sym)
		if err != nil {
			return err
		}
		if sid == graph.NoVertex {
			db.miss("sym", sym)
			continue
		}
		if err := db.reportRemoval(w, tid, sid); err != nil {
			return err
		}
		if _, err := (graph.UndirectedEdge{A: tid, B: sid}).Remove(db.graph); err != nil {
			return err
		}
	}
	return nil
}

// DeleteTags removes every tag in tags together with all of its associations.
func (db *DB) DeleteTags(w io.Writer, tags []string) error {
	return db.deleteVertices(w, tags, db.tagVertex, "tag")
}

// DeleteSyms removes every symbol in syms together with all of its associations.
func (db *DB) DeleteSyms(w io.Writer, syms []string) error {
	return db.deleteVertices(w, syms, db.symVertex, "sym")
}

func (db *DB) deleteVertices(w io.Writer, inputs []string, resolve func(string) (graph.VertexID, string, error), kind string) error {
	release, err := db.acquire()
	if err != nil {
		return err
	}
	defer release()

	for _, input := range inputs {
		id, stored, err := resolve(input)
		if err != nil {
			return err
		}
		if id == graph.NoVertex {
			db.miss(kind, input)
			continue
		}
		if err := db.deleteVertex(w, id, stored); err != nil {
			return err
		}
	}
	return nil
}

// deleteVertex drops the edges of id in both directions, then the vertex.
func (db *DB) deleteVertex(w io.Writer, id graph.VertexID, stored string) error {
	g := db.graph

	edges, err := g.GetEdges(id)
	if err != nil {
		return err
	}
	if err := g.RemoveAllEdges(id); err != nil {
		return err
	}
	for _, other := range edges {
		if err := db.reportRemoval(w, id, other); err != nil {
			return err
		}
		if _, err := g.RemoveEdge(other, id); err != nil {
			return err
		}
	}
	_, err = g.RemoveVertex(stored)
	return err
}

func (db *DB) reportRemoval(w io.Writer, a, b graph.VertexID) error {
	if !db.verbose() {
		return nil
	}
	an, err := db.displayName(a)
	if err != nil {
		return err
	}
	bn, err := db.displayName(b)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "-%s\t%s\n", an, bn)
	return nil
}
