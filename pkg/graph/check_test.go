package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_Check(t *testing.T) {
	forEachBackend(t, func(t *testing.T, g *Graph) {
		tag := mustAdd(t, g, "tag:t")
		sym := mustAdd(t, g, "::::s")
		_, err := UndirectedEdge{A: tag, B: sym}.Add(g)
		require.NoError(t, err)

		t.Run("clean graph", func(t *testing.T) {
			report, err := g.Check()
			require.NoError(t, err)
			assert.True(t, report.OK(), "%v", report.Issues)
			assert.Equal(t, 2, report.Vertices)
			assert.Equal(t, 2, report.Names)
			assert.Equal(t, 2, report.Edges)
		})

		t.Run("damage is reported", func(t *testing.T) {
			// one direction only
			lone := mustAdd(t, g, "::::lone")
			_, err := g.AddEdge(tag, lone)
			require.NoError(t, err)
			// edge into nowhere
			_, err = g.AddEdge(sym, 77)
			require.NoError(t, err)
			// name without alias list
			require.NoError(t, g.put([]byte("tag:ghost"), encodeID(55)))
			// alias list entry whose index points elsewhere
			require.NoError(t, g.put(vertexKey(tag), []byte("tag:t\x00::::s\x00")))

			report, err := g.Check()
			require.NoError(t, err)
			assert.False(t, report.OK())

			kinds := make(map[IssueKind][]Issue)
			for _, is := range report.Issues {
				kinds[is.Kind] = append(kinds[is.Kind], is)
			}
			require.Len(t, kinds[IssueAsymmetricEdge], 1)
			assert.Equal(t, Issue{Kind: IssueAsymmetricEdge, ID: tag, Other: lone}, kinds[IssueAsymmetricEdge][0])
			require.Len(t, kinds[IssueDanglingEdge], 1)
			assert.Equal(t, VertexID(77), kinds[IssueDanglingEdge][0].Other)
			require.Len(t, kinds[IssueDanglingName], 1)
			assert.Equal(t, "tag:ghost", kinds[IssueDanglingName][0].Name)
			require.Len(t, kinds[IssueNameMismatch], 1)
			assert.Equal(t, "::::s", kinds[IssueNameMismatch][0].Name)
			assert.Equal(t, sym, kinds[IssueNameMismatch][0].Other)

			assert.Contains(t, kinds[IssueAsymmetricEdge][0].String(), "asymmetric-edge")
		})

		t.Run("orphan edges and counter", func(t *testing.T) {
			_, err := g.AddEdge(500, tag)
			require.NoError(t, err)
			require.NoError(t, g.put(vertexKey(600), []byte("tag:future\x00")))
			require.NoError(t, g.put([]byte("tag:future"), encodeID(600)))

			report, err := g.Check()
			require.NoError(t, err)

			var orphan, counter bool
			for _, is := range report.Issues {
				switch is.Kind {
				case IssueOrphanEdges:
					orphan = orphan || is.ID == 500
				case IssueCounterBehind:
					counter = is.ID == 600
				}
			}
			assert.True(t, orphan)
			assert.True(t, counter)
		})
	})
}
