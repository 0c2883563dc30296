package libadg

import (
	"testing"

	"github.com/manybody/adg/adg"
	"github.com/stretchr/testify/require"
)

func TestNewDiagram(t *testing.T) {
	cfg := mustConfig(t, adg.ConfigOpts{Order: 3, Theory: adg.Theory_PBMBPT, TrackPermutations: true})
	C := Candidate{
		Tag:  7,
		Adj:  mustRows(t, []int{0, 0, 0}, []int{2, 0, 2}, []int{2, 0, 0}),
		Anom: mustRows(t, []int{0, 0, 0}, []int{1, 0, 0}, []int{0, 0, 0}),
	}
	D := NewDiagram(cfg, &C)

	require.Equal(t, 3, D.Nv)
	require.Equal(t, []int{7}, D.Tags)
	require.Equal(t, 7, D.Tag())
	require.Equal(t, map[int][]int{7: {0, 1, 2}}, D.Perms)
	require.Equal(t, []bool{true, false, false}, D.Operator)
	require.Equal(t, map[VtxPair]Lines{
		{1, 0}: {Count: 2, Anomalous: 1},
		{1, 2}: {Count: 2},
		{2, 0}: {Count: 2},
	}, D.Lines)

	require.Equal(t, 6, D.NumLines())
	require.Equal(t, []int{4, 4, 4}, D.Degrees())
	require.Equal(t, 4, D.MaxDegree())
	require.Equal(t, IODegree{In: 2, Out: 2}, D.IODegree(2))
	require.Equal(t, []IODegree{{0, 4}, {2, 2}, {4, 0}}, D.IODegrees())
	require.Equal(t, []VtxPair{{1, 0}, {1, 2}, {2, 0}}, D.SortedPairs())

	adj, anom := D.Matrix(), D.AnomalousMatrix()
	require.True(t, adj.Equal(&C.Adj))
	require.True(t, anom.Equal(&C.Anom))

	// Each anomalous line also appears reversed in the matching graph.
	mg := D.matchGraph(cfg.Variant())
	require.Equal(t, 1, mg.G.NumEdges(0, 1))
	require.Equal(t, 1, mg.Anomalous.NumEdges(0, 1))
	require.Equal(t, 1, mg.Anomalous.NumEdges(1, 0))
	require.Equal(t, []IODegree{{1, 4}, {2, 2}, {4, 1}}, mg.Signature)
}

func TestConnectivity(t *testing.T) {
	cfg := mustConfig(t, adg.ConfigOpts{Order: 4, Theory: adg.Theory_MBPT})
	tests := []struct {
		name string
		M    Matrix
		want bool
	}{
		{"two-pairs", mustRows(t,
			[]int{0, 2, 0, 0},
			[]int{2, 0, 0, 0},
			[]int{0, 0, 0, 2},
			[]int{0, 0, 2, 0}), false},
		{"ring", mustRows(t,
			[]int{0, 2, 0, 0},
			[]int{0, 0, 2, 0},
			[]int{0, 0, 0, 2},
			[]int{2, 0, 0, 0}), true},
		{"against-the-arrows", mustRows(t,
			[]int{0, 0, 0, 0},
			[]int{1, 0, 0, 0},
			[]int{1, 0, 0, 0},
			[]int{1, 0, 0, 0}), true},
		{"isolated-vertex", mustRows(t,
			[]int{0, 0, 0, 0},
			[]int{2, 0, 0, 0},
			[]int{2, 0, 0, 0},
			[]int{0, 0, 0, 0}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			D := NewDiagram(cfg, &Candidate{Adj: tt.M, Anom: NewMatrix(4)})
			require.Equal(t, tt.want, D.IsWeaklyConnected())
		})
	}

	lone := mustConfig(t, adg.ConfigOpts{Order: 1, Theory: adg.Theory_BMBPT})
	D := NewDiagram(lone, &Candidate{Adj: NewMatrix(1), Anom: NewMatrix(1)})
	require.True(t, D.IsWeaklyConnected())
}
