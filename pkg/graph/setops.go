package graph

// Set algebra over adjacency lists.
//
// All operations fold one right-hand list into a caller-owned accumulator so that
// results can be built across several vertices:
//
//	var acc graph.VertexList
//	for _, v := range tags {
//		acc, err = g.Union(acc, v)
//	}
//
// Membership tests are linear scans, so a fold costs O(len(acc)·len(list)). Adjacency
// lists in a tag catalogue hold tens to a few hundred entries; beyond a few thousand
// per vertex this becomes the bottleneck.

// growBlock is the smallest capacity an accumulator grows to.
const growBlock = 64

// growCap returns the capacity for an accumulator that must hold need elements:
// doubling, never below growBlock.
func growCap(have, need int) int {
	c := have * 2
	if c < growBlock {
		c = growBlock
	}
	for c < need {
		c *= 2
	}
	return c
}

func appendVertex(l VertexList, v VertexID) VertexList {
	if len(l) == cap(l) {
		nl := make(VertexList, len(l), growCap(cap(l), len(l)+1))
		copy(nl, l)
		l = nl
	}
	return append(l, v)
}

// WeightedList pairs vertex ids with co-occurrence weights. IDs and Weights always
// have the same length.
type WeightedList struct {
	IDs     []VertexID
	Weights []uint32
}

// Len returns the number of entries.
func (wl WeightedList) Len() int { return len(wl.IDs) }

func (wl WeightedList) add(v VertexID) WeightedList {
	if len(wl.IDs) == cap(wl.IDs) {
		c := growCap(cap(wl.IDs), len(wl.IDs)+1)
		ids := make([]VertexID, len(wl.IDs), c)
		ws := make([]uint32, len(wl.Weights), c)
		copy(ids, wl.IDs)
		copy(ws, wl.Weights)
		wl.IDs, wl.Weights = ids, ws
	}
	wl.IDs = append(wl.IDs, v)
	wl.Weights = append(wl.Weights, 0)
	return wl
}

// Union appends every element of list that acc does not hold yet. Membership is
// tested against acc as it was before the call.
func Union(acc, list VertexList) VertexList {
	prior := acc[:len(acc):len(acc)]
	for _, v := range list {
		if prior.Contains(v) {
			continue
		}
		acc = appendVertex(acc, v)
	}
	return acc
}

// WeightedUnion is Union with counting: an element already in acc has its weight
// bumped by one, a new element is appended with weight 0. Folding the lists of N
// vertices gives every element the number of those lists containing it, minus one.
func WeightedUnion(acc WeightedList, list VertexList) WeightedList {
	prior := VertexList(acc.IDs[:len(acc.IDs):len(acc.IDs)])
	for _, v := range list {
		if i := prior.index(v); i >= 0 {
			acc.Weights[i]++
			continue
		}
		acc = acc.add(v)
	}
	return acc
}

// Intersection keeps the elements of acc that are also in list. acc is compacted in
// place and the relative order of the survivors is preserved.
func Intersection(acc, list VertexList) VertexList {
	kept := acc[:0]
	for _, v := range acc {
		if list.Contains(v) {
			kept = append(kept, v)
		}
	}
	return kept
}

// Union folds v's adjacency list into acc. A vertex without edges leaves acc as is.
func (g *Graph) Union(acc VertexList, v VertexID) (VertexList, error) {
	el, err := g.GetEdges(v)
	if err != nil {
		return acc, err
	}
	return Union(acc, el), nil
}

// Intersection intersects acc with v's adjacency list. A vertex without edges has an
// empty list, so the result is empty. This is intentional: acc is not passed through
// unchanged when v has no list.
func (g *Graph) Intersection(acc VertexList, v VertexID) (VertexList, error) {
	el, err := g.GetEdges(v)
	if err != nil {
		return acc, err
	}
	return Intersection(acc, el), nil
}

// WeightedUnion folds v's adjacency list into acc with counting.
func (g *Graph) WeightedUnion(acc WeightedList, v VertexID) (WeightedList, error) {
	el, err := g.GetEdges(v)
	if err != nil {
		return acc, err
	}
	return WeightedUnion(acc, el), nil
}
