package vf2

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func denseFrom(rows [][]int) *Dense {
	G := NewDense(len(rows))
	for i, row := range rows {
		for j, n := range row {
			G.AddEdges(i, j, n)
		}
	}
	return G
}

func checkMapping(t *testing.T, G1, G2 *Dense, mapping []int) {
	t.Helper()
	require.Len(t, mapping, G1.N)
	for i := 0; i < G1.N; i++ {
		for j := 0; j < G1.N; j++ {
			require.Equal(t, G1.NumEdges(i, j), G2.NumEdges(mapping[i], mapping[j]), "edge %d->%d", i, j)
		}
	}
}

func TestRelabeledCycle(t *testing.T) {
	G1 := denseFrom([][]int{
		{0, 1, 0},
		{0, 0, 1},
		{1, 0, 0},
	})
	G2 := denseFrom([][]int{
		{0, 0, 1},
		{1, 0, 0},
		{0, 1, 0},
	})
	mapping, ok := IsIsomorphic(G1, G2, Opts{})
	require.True(t, ok)
	checkMapping(t, G1, G2, mapping)
}

func TestMultiplicityMatters(t *testing.T) {
	G1 := denseFrom([][]int{
		{0, 2, 0},
		{0, 0, 1},
		{1, 0, 0},
	})
	G2 := denseFrom([][]int{
		{0, 1, 0},
		{0, 0, 2},
		{1, 0, 0},
	})
	_, ok := IsIsomorphic(G1, G2, Opts{})
	require.False(t, ok, "in/out degree sequences differ")

	G3 := denseFrom([][]int{
		{0, 0, 1},
		{2, 0, 0},
		{0, 1, 0},
	})
	mapping, ok := IsIsomorphic(G1, G3, Opts{})
	require.True(t, ok)
	checkMapping(t, G1, G3, mapping)
}

func TestSameDegreesNotIsomorphic(t *testing.T) {
	// Two disjoint 2-cycles versus a 4-cycle: every vertex has in = out = 1 in both.
	G1 := denseFrom([][]int{
		{0, 1, 0, 0},
		{1, 0, 0, 0},
		{0, 0, 0, 1},
		{0, 0, 1, 0},
	})
	G2 := denseFrom([][]int{
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
		{1, 0, 0, 0},
	})
	_, ok := IsIsomorphic(G1, G2, Opts{})
	require.False(t, ok)
}

func TestVertexMatchPinsVertex(t *testing.T) {
	// Vertex 0 is the source of a 2-line bundle in G1 but not in G2's vertex 0.
	G1 := denseFrom([][]int{
		{0, 2, 0},
		{0, 0, 2},
		{0, 0, 0},
	})
	G2 := denseFrom([][]int{
		{0, 0, 0},
		{2, 0, 0},
		{0, 2, 0},
	})
	mapping, ok := IsIsomorphic(G1, G2, Opts{})
	require.True(t, ok)
	require.Equal(t, []int{2, 1, 0}, mapping)

	pinned := func(v1, v2 int) bool { return (v1 == 0) == (v2 == 0) }
	_, ok = IsIsomorphic(G1, G2, Opts{VertexMatch: pinned})
	require.False(t, ok)
}

func TestEdgeMatch(t *testing.T) {
	G1 := denseFrom([][]int{
		{0, 1},
		{1, 0},
	})
	G2 := denseFrom([][]int{
		{0, 1},
		{1, 0},
	})
	// Mark edge 0->1 in G1 and edge 1->0 in G2: only the swap mapping respects the marks.
	marked1 := func(from, to int) bool { return from == 0 && to == 1 }
	marked2 := func(from, to int) bool { return from == 1 && to == 0 }
	mapping, ok := IsIsomorphic(G1, G2, Opts{
		EdgeMatch: func(f1, t1, f2, t2 int) bool { return marked1(f1, t1) == marked2(f2, t2) },
	})
	require.True(t, ok)
	require.Equal(t, []int{1, 0}, mapping)
	require.False(t, IsIdentity(mapping))
}

func TestIdentity(t *testing.T) {
	G := denseFrom([][]int{
		{0, 4},
		{0, 0},
	})
	mapping, ok := IsIsomorphic(G, G, Opts{})
	require.True(t, ok)
	require.True(t, IsIdentity(mapping))

	_, ok = IsIsomorphic(G, NewDense(3), Opts{})
	require.False(t, ok)
}
