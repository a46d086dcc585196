package rotz

import (
	"fmt"
	"io"
	"strings"

	"github.com/rotzdb/rotz/pkg/graph"
	"github.com/rotzdb/rotz/pkg/namespace"
)

// CloudOptions configures Cloud.
type CloudOptions struct {
	// Prefix restricts the cloud to tags whose display name starts with it.
	Prefix string
	// Top keeps only the Top tags with the most symbols. Zero lists every tag.
	Top int
}

// Cloud writes "TAG\tCOUNT" for every tag, COUNT being the number of symbols the tag
// is attached to. With opts.Top set only the heaviest tags are written, heaviest first;
// otherwise tags come in vertex order.
func (db *DB) Cloud(w io.Writer, opts CloudOptions) error {
	release, err := db.acquire()
	if err != nil {
		return err
	}
	defer release()

	var top *graph.TopK
	if opts.Top > 0 {
		top = graph.NewTopK(opts.Top)
	}
	err = db.graph.Vertices(func(id graph.VertexID, al graph.AliasList) error {
		name := al.Canonical()
		if namespace.IsSym(name) {
			return nil
		}
		name = namespace.Massage(name)
		if !strings.HasPrefix(name, opts.Prefix) {
			return nil
		}
		n, err := db.graph.CountEdges(id)
		if err != nil {
			return err
		}
		if top != nil {
			top.Offer(id, uint32(n))
			return nil
		}
		fmt.Fprintf(w, "%s\t%d\n", name, n)
		return nil
	})
	if err != nil || top == nil {
		return err
	}
	return db.printWeighted(w, top.Descending(), 0)
}

// PivotCloud ranks the tags that share symbols with the pivot tags. A tag's weight is
// the number of symbols it shares with the pivots; the pivots themselves are left
// out. Lines read "TAG\tWEIGHT", heaviest first, at most top of them if top > 0.
func (db *DB) PivotCloud(w io.Writer, pivots []string, top int) error {
	release, err := db.acquire()
	if err != nil {
		return err
	}
	defer release()

	var syms graph.VertexList
	var pivotIDs graph.VertexList
	for _, p := range pivots {
		tid, _, err := db.tagVertex(p)
		if err != nil {
			return err
		}
		if tid == graph.NoVertex {
			db.miss("tag", p)
			continue
		}
		pivotIDs = append(pivotIDs, tid)
		if syms, err = db.graph.Union(syms, tid); err != nil {
			return err
		}
	}

	var acc graph.WeightedList
	for _, sid := range syms {
		if acc, err = db.graph.WeightedUnion(acc, sid); err != nil {
			return err
		}
	}

	var ranked graph.WeightedList
	for i, id := range acc.IDs {
		if pivotIDs.Contains(id) {
			continue
		}
		ranked.IDs = append(ranked.IDs, id)
		ranked.Weights = append(ranked.Weights, acc.Weights[i])
	}
	graph.ShellSort(ranked)
	if top > 0 && ranked.Len() > top {
		ranked.IDs, ranked.Weights = ranked.IDs[:top], ranked.Weights[:top]
	}
	// WeightedUnion counts repeats, so a tag seen once has weight 0.
	return db.printWeighted(w, ranked, 1)
}

// printWeighted writes "NAME\tWEIGHT" lines, adding bias to every weight.
func (db *DB) printWeighted(w io.Writer, wl graph.WeightedList, bias uint32) error {
	for i, id := range wl.IDs {
		name, err := db.displayName(id)
		if err != nil {
			return err
		}
		if name == "" {
			continue
		}
		fmt.Fprintf(w, "%s\t%d\n", name, wl.Weights[i]+bias)
	}
	return nil
}
