package graph

// UndirectedEdge is an association between two vertices, stored as the two directed
// entries A→B and B→A. Commands go through it so both directions change together.
//
// The two writes are separate transactions. If the second one fails the first is not
// undone; the error is returned and Check will report the asymmetric pair.
type UndirectedEdge struct {
	A, B VertexID
}

// Add writes both directions. It reports whether either list changed.
func (e UndirectedEdge) Add(g *Graph) (bool, error) {
	ab, err := g.AddEdge(e.A, e.B)
	if err != nil {
		return ab, err
	}
	ba, err := g.AddEdge(e.B, e.A)
	return ab || ba, err
}

// Remove deletes both directions. It reports whether either list changed.
func (e UndirectedEdge) Remove(g *Graph) (bool, error) {
	ab, err := g.RemoveEdge(e.A, e.B)
	if err != nil {
		return ab, err
	}
	ba, err := g.RemoveEdge(e.B, e.A)
	return ab || ba, err
}
