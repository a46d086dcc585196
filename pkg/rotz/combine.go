package rotz

import (
	"github.com/rotzdb/rotz/pkg/graph"
)

// Combine merges every tag in tags into the first one that exists.
//
// For each merged tag its symbols are re-pointed at the surviving tag, its vertex is
// removed and all of its names become aliases of the survivor. Unknown tags are
// skipped. It returns the number of tags merged.
func (db *DB) Combine(tags []string) (int, error) {
	release, err := db.acquire()
	if err != nil {
		return 0, err
	}
	defer release()

	master := graph.NoVertex
	merged := 0
	for _, tag := range tags {
		tid, stored, err := db.tagVertex(tag)
		if err != nil {
			return merged, err
		}
		switch {
		case tid == graph.NoVertex:
			db.miss("tag", tag)
			continue
		case master == graph.NoVertex:
			master = tid
			continue
		case tid == master:
			continue
		}
		if err := db.mergeInto(master, tid, stored); err != nil {
			return merged, err
		}
		merged++
	}
	return merged, nil
}

func (db *DB) mergeInto(master, tid graph.VertexID, stored string) error {
	g := db.graph

	edges, err := g.GetEdges(tid)
	if err != nil {
		return err
	}
	for _, p := range edges {
		if _, err := g.AddEdge(master, p); err != nil {
			return err
		}
		if _, err := g.RemoveEdge(p, tid); err != nil {
			return err
		}
		if _, err := g.AddEdge(p, master); err != nil {
			return err
		}
	}
	if err := g.RemoveAllEdges(tid); err != nil {
		return err
	}

	al, err := g.GetAliases(tid)
	if err != nil {
		return err
	}
	names := al.Names()
	if len(names) == 0 {
		names = []string{stored}
	}
	if _, err := g.RemoveVertex(stored); err != nil {
		return err
	}
	for _, n := range names {
		if _, err := g.AddAlias(master, n); err != nil {
			return err
		}
	}
	db.log.WithField("tag", stored).WithField("into", master).Debug("combined tag")
	return nil
}
