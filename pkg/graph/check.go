package graph

import (
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// IssueKind classifies an inconsistency found by Check.
type IssueKind int

const (
	// IssueNameMismatch: a name in an alias list does not resolve to that vertex.
	IssueNameMismatch IssueKind = iota
	// IssueDanglingName: a name resolves to a vertex without alias list.
	IssueDanglingName
	// IssueOrphanEdges: an adjacency list belongs to a vertex without alias list.
	IssueOrphanEdges
	// IssueDanglingEdge: an adjacency list points at a vertex without alias list.
	IssueDanglingEdge
	// IssueAsymmetricEdge: A→B is stored but B→A is not.
	IssueAsymmetricEdge
	// IssueCounterBehind: a vertex id is larger than the allocation counter.
	IssueCounterBehind
)

var issueKindNames = map[IssueKind]string{
	IssueNameMismatch:   "name-mismatch",
	IssueDanglingName:   "dangling-name",
	IssueOrphanEdges:    "orphan-edges",
	IssueDanglingEdge:   "dangling-edge",
	IssueAsymmetricEdge: "asymmetric-edge",
	IssueCounterBehind:  "counter-behind",
}

func (k IssueKind) String() string {
	if s, ok := issueKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("IssueKind(%d)", int(k))
}

// Issue is one inconsistency. Which fields are set depends on Kind.
type Issue struct {
	Kind  IssueKind
	Name  string
	ID    VertexID
	Other VertexID
}

func (i Issue) String() string {
	switch i.Kind {
	case IssueNameMismatch:
		return fmt.Sprintf("%s\t%s\tlisted under %d, indexed as %d", i.Kind, i.Name, i.ID, i.Other)
	case IssueDanglingName:
		return fmt.Sprintf("%s\t%s\t%d", i.Kind, i.Name, i.ID)
	case IssueOrphanEdges:
		return fmt.Sprintf("%s\t%d", i.Kind, i.ID)
	case IssueDanglingEdge, IssueAsymmetricEdge, IssueCounterBehind:
		return fmt.Sprintf("%s\t%d\t%d", i.Kind, i.ID, i.Other)
	}
	return i.Kind.String()
}

// CheckReport summarises a Check run.
type CheckReport struct {
	Vertices int
	Names    int
	Edges    int
	Issues   []Issue
}

// OK reports whether no issue was found.
func (r *CheckReport) OK() bool { return len(r.Issues) == 0 }

// Check walks the whole graph and reports the damage partial writes can leave behind.
// It never repairs anything.
func (g *Graph) Check() (*CheckReport, error) {
	report := &CheckReport{}
	live := roaring.New()
	var maxID VertexID

	err := g.Vertices(func(id VertexID, al AliasList) error {
		live.Add(uint32(id))
		report.Vertices++
		if id > maxID {
			maxID = id
		}
		for _, name := range al.Names() {
			got, err := g.GetVertex(name)
			if err != nil && !errors.Is(err, ErrInvalidName) {
				return err
			}
			if got != id {
				report.Issues = append(report.Issues, Issue{Kind: IssueNameMismatch, Name: name, ID: id, Other: got})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = g.Names("", func(name string, id VertexID) error {
		report.Names++
		if !live.Contains(uint32(id)) {
			report.Issues = append(report.Issues, Issue{Kind: IssueDanglingName, Name: name, ID: id})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	type list struct {
		from  VertexID
		edges VertexList
	}
	var lists []list
	adj := make(map[VertexID]*roaring.Bitmap)
	err = g.Adjacency(func(from VertexID, edges VertexList) error {
		bm := roaring.New()
		for _, to := range edges {
			bm.Add(uint32(to))
		}
		adj[from] = bm
		lists = append(lists, list{from: from, edges: edges})
		report.Edges += len(edges)
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, l := range lists {
		if !live.Contains(uint32(l.from)) {
			report.Issues = append(report.Issues, Issue{Kind: IssueOrphanEdges, ID: l.from})
		}
		for _, to := range l.edges {
			if !live.Contains(uint32(to)) {
				report.Issues = append(report.Issues, Issue{Kind: IssueDanglingEdge, ID: l.from, Other: to})
				continue
			}
			if back, ok := adj[to]; !ok || !back.Contains(uint32(l.from)) {
				report.Issues = append(report.Issues, Issue{Kind: IssueAsymmetricEdge, ID: l.from, Other: to})
			}
		}
	}

	counter, err := g.Counter()
	if err != nil {
		return nil, err
	}
	if maxID > counter {
		report.Issues = append(report.Issues, Issue{Kind: IssueCounterBehind, ID: maxID, Other: counter})
	}
	return report, nil
}
