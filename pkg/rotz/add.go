package rotz

import (
	"fmt"

	"github.com/rotzdb/rotz/pkg/graph"
	"github.com/rotzdb/rotz/pkg/namespace"
)

// Add associates tag with every symbol in syms, creating vertices as needed.
// It returns the number of associations that did not exist before.
func (db *DB) Add(tag string, syms []string) (int, error) {
	release, err := db.acquire()
	if err != nil {
		return 0, err
	}
	defer release()

	stored, err := namespace.Tag(tag)
	if err != nil {
		return 0, fmt.Errorf("no TAG given: %w", err)
	}
	tid, err := db.graph.AddVertex(stored)
	if err != nil {
		return 0, err
	}

	added := 0
	for _, sym := range syms {
		symName, err := namespace.Sym(sym)
		if err != nil {
			db.miss("sym", sym)
			continue
		}
		sid, err := db.graph.AddVertex(symName)
		if err != nil {
			return added, err
		}
		changed, err := graph.UndirectedEdge{A: tid, B: sid}.Add(db.graph)
		if err != nil {
			return added, err
		}
		if changed {
			added++
		}
	}
	db.log.WithField("tag", tag).Debugf("added %d associations", added)
	return added, nil
}
