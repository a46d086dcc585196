package rotz

import (
	"fmt"
	"io"

	"github.com/rotzdb/rotz/pkg/graph"
	"github.com/rotzdb/rotz/pkg/namespace"
)

// ShowMode selects how Show combines its inputs.
type ShowMode int

const (
	// ShowEach lists the neighbours of every input in turn.
	ShowEach ShowMode = iota
	// ShowUnion lists every neighbour of any input once, in first-seen order.
	ShowUnion
	// ShowIntersection lists the neighbours shared by all inputs.
	ShowIntersection
	// ShowMultiUnion lists every neighbour with the number of inputs it is attached
	// to, most shared first.
	ShowMultiUnion
)

func (m ShowMode) String() string {
	switch m {
	case ShowEach:
		return "each"
	case ShowUnion:
		return "union"
	case ShowIntersection:
		return "intersection"
	case ShowMultiUnion:
		return "munion"
	default:
		return fmt.Sprintf("ShowMode(%d)", int(m))
	}
}

// Show writes the symbols of the given tags, or the tags of the given symbols. Every
// input is resolved as a tag first and as a symbol second; inputs that resolve to
// neither are skipped.
//
// In ShowMultiUnion mode lines read "NAME\tCOUNT".
func (db *DB) Show(w io.Writer, mode ShowMode, inputs []string) error {
	release, err := db.acquire()
	if err != nil {
		return err
	}
	defer release()

	var (
		acc      graph.VertexList
		wacc     graph.WeightedList
		seeded   bool
		resolved int
	)
	for _, input := range inputs {
		id, err := db.lookup(input)
		if err != nil {
			return err
		}
		if id == graph.NoVertex {
			db.miss("tagsym", input)
			continue
		}
		resolved++

		switch mode {
		case ShowUnion:
			acc, err = db.graph.Union(acc, id)
		case ShowMultiUnion:
			wacc, err = db.graph.WeightedUnion(wacc, id)
		case ShowIntersection:
			if seeded {
				acc, err = db.graph.Intersection(acc, id)
			} else {
				acc, err = db.graph.GetEdges(id)
				seeded = true
			}
		default:
			var edges graph.VertexList
			if edges, err = db.graph.GetEdges(id); err == nil {
				err = db.printNames(w, edges)
			}
		}
		if err != nil {
			return err
		}
	}

	switch mode {
	case ShowUnion, ShowIntersection:
		return db.printNames(w, acc)
	case ShowMultiUnion:
		graph.ShellSort(wacc)
		return db.printWeighted(w, wacc, 1)
	}
	db.log.WithField("mode", mode).Debugf("showed %d of %d inputs", resolved, len(inputs))
	return nil
}

// Tags writes the display name of every tag, in vertex order.
func (db *DB) Tags(w io.Writer) error {
	release, err := db.acquire()
	if err != nil {
		return err
	}
	defer release()

	return db.graph.Vertices(func(_ graph.VertexID, al graph.AliasList) error {
		name := al.Canonical()
		if namespace.IsSym(name) {
			return nil
		}
		fmt.Fprintln(w, namespace.Massage(name))
		return nil
	})
}
