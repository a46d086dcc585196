package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnion(t *testing.T) {
	t.Run("appends new members in order", func(t *testing.T) {
		got := Union(VertexList{1, 2}, VertexList{2, 3, 4})
		assert.Equal(t, VertexList{1, 2, 3, 4}, got)
	})

	t.Run("nil accumulator", func(t *testing.T) {
		got := Union(nil, VertexList{5, 6})
		assert.Equal(t, VertexList{5, 6}, got)
	})

	t.Run("fold is idempotent", func(t *testing.T) {
		l := VertexList{1, 2, 3}
		acc := Union(nil, l)
		acc = Union(acc, l)
		assert.Equal(t, l, acc)
	})

	t.Run("grows past one block", func(t *testing.T) {
		var big VertexList
		for i := VertexID(1); i <= 200; i++ {
			big = append(big, i)
		}
		got := Union(VertexList{1}, big)
		assert.Len(t, got, 200)
		assert.GreaterOrEqual(t, cap(got), 200)
	})
}

func TestIntersection(t *testing.T) {
	t.Run("keeps order", func(t *testing.T) {
		got := Intersection(VertexList{5, 1, 4, 2, 3}, VertexList{2, 4, 5})
		assert.Equal(t, VertexList{5, 4, 2}, got)
	})

	t.Run("self intersection is identity", func(t *testing.T) {
		l := VertexList{3, 1, 2}
		acc := append(VertexList(nil), l...)
		assert.Equal(t, l, Intersection(acc, l))
	})

	t.Run("empty right side", func(t *testing.T) {
		assert.Empty(t, Intersection(VertexList{1, 2}, nil))
	})

	t.Run("in place", func(t *testing.T) {
		acc := VertexList{1, 2, 3, 4}
		got := Intersection(acc, VertexList{2, 4})
		assert.Equal(t, VertexList{2, 4}, got)
		assert.Equal(t, &acc[0], &got[0])
	})
}

func TestWeightedUnion(t *testing.T) {
	t.Run("n identical lists", func(t *testing.T) {
		l := VertexList{7, 8, 9}
		var acc WeightedList
		const n = 4
		for i := 0; i < n; i++ {
			acc = WeightedUnion(acc, l)
		}
		assert.Equal(t, []VertexID{7, 8, 9}, acc.IDs)
		assert.Equal(t, []uint32{n - 1, n - 1, n - 1}, acc.Weights)
	})

	t.Run("mixed lists", func(t *testing.T) {
		var acc WeightedList
		acc = WeightedUnion(acc, VertexList{1, 2})
		acc = WeightedUnion(acc, VertexList{2, 3})
		acc = WeightedUnion(acc, VertexList{2, 1})
		assert.Equal(t, []VertexID{1, 2, 3}, acc.IDs)
		assert.Equal(t, []uint32{1, 2, 0}, acc.Weights)
		assert.Equal(t, 3, acc.Len())
	})
}

func TestGraph_SetOps(t *testing.T) {
	forEachBackend(t, func(t *testing.T, g *Graph) {
		rock := mustAdd(t, g, "tag:rock")
		live := mustAdd(t, g, "tag:live")
		empty := mustAdd(t, g, "tag:empty")
		s1 := mustAdd(t, g, "::::1.mp3")
		s2 := mustAdd(t, g, "::::2.mp3")
		s3 := mustAdd(t, g, "::::3.mp3")

		for _, e := range []UndirectedEdge{{rock, s1}, {rock, s2}, {live, s2}, {live, s3}} {
			_, err := e.Add(g)
			require.NoError(t, err)
		}

		t.Run("union", func(t *testing.T) {
			acc, err := g.Union(nil, rock)
			require.NoError(t, err)
			acc, err = g.Union(acc, live)
			require.NoError(t, err)
			assert.Equal(t, VertexList{s1, s2, s3}, acc)

			acc, err = g.Union(acc, empty)
			require.NoError(t, err)
			assert.Len(t, acc, 3)
		})

		t.Run("intersection", func(t *testing.T) {
			acc, err := g.GetEdges(rock)
			require.NoError(t, err)
			acc, err = g.Intersection(acc, live)
			require.NoError(t, err)
			assert.Equal(t, VertexList{s2}, acc)
		})

		t.Run("intersection with vertex without edges", func(t *testing.T) {
			acc, err := g.GetEdges(rock)
			require.NoError(t, err)
			acc, err = g.Intersection(acc, empty)
			require.NoError(t, err)
			assert.Empty(t, acc)
		})

		t.Run("weighted union", func(t *testing.T) {
			var acc WeightedList
			var err error
			for _, v := range []VertexID{rock, live} {
				acc, err = g.WeightedUnion(acc, v)
				require.NoError(t, err)
			}
			assert.Equal(t, []VertexID{s1, s2, s3}, acc.IDs)
			assert.Equal(t, []uint32{0, 1, 0}, acc.Weights)
		})
	})
}
