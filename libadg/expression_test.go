package libadg

import (
	"testing"

	"github.com/manybody/adg/adg"
	"github.com/stretchr/testify/require"
)

func TestExpressionSecondOrder(t *testing.T) {
	cfg := mustConfig(t, adg.ConfigOpts{Order: 2, Theory: adg.Theory_MBPT})
	D := NewDiagram(cfg, &Candidate{Adj: mustRows(t, []int{0, 2}, []int{2, 0}), Anom: NewMatrix(2)})

	E := ExtractExpression(D)
	require.Equal(t, []Line{
		{From: 0, To: 1, Kind: Hole, Label: "a"},
		{From: 0, To: 1, Kind: Hole, Label: "b"},
		{From: 1, To: 0, Kind: Particle, Label: "p"},
		{From: 1, To: 0, Kind: Particle, Label: "q"},
	}, E.Lines)
	require.Equal(t, 2, E.NumHoles)
	require.Equal(t, 4, E.SymmetryFactor)
	require.Equal(t, []string{`\braket{ab|H|pq}`, `\braket{pq|H|ab}`}, E.MatrixElements)
	require.Equal(t, []string{"E_a+E_b-E_p-E_q"}, E.Denominators)
	require.Equal(t, `(-1)^{2+l}`, E.Phase())
	require.Equal(t,
		`\dfrac{1}{4}(-1)^{2+l}\sum{\dfrac{\braket{ab|H|pq}\braket{pq|H|ab}}{(E_a+E_b-E_p-E_q)}}`,
		E.Latex())
}

func TestExpressionThirdOrder(t *testing.T) {
	cfg := mustConfig(t, adg.ConfigOpts{Order: 3, Theory: adg.Theory_MBPT})

	ladder := NewDiagram(cfg, &Candidate{Adj: mustRows(t, []int{0, 2, 0}, []int{0, 0, 2}, []int{2, 0, 0}), Anom: NewMatrix(3)})
	E := ExtractExpression(ladder)
	require.Equal(t, 4, E.NumHoles)
	require.Equal(t, 8, E.SymmetryFactor)
	require.Equal(t, []string{`\braket{ab|H|pq}`, `\braket{cd|H|ab}`, `\braket{pq|H|cd}`}, E.MatrixElements)
	require.Equal(t, []string{"E_a+E_b-E_p-E_q", "E_c+E_d-E_p-E_q"}, E.Denominators)

	ring := NewDiagram(cfg, &Candidate{Adj: mustRows(t, []int{0, 1, 1}, []int{1, 0, 1}, []int{1, 1, 0}), Anom: NewMatrix(3)})
	E = ExtractExpression(ring)
	require.Equal(t, 3, E.NumHoles)
	require.Equal(t, 1, E.SymmetryFactor)
	// Lines in order: 0->1 a, 0->2 b, 1->0 p, 1->2 c, 2->0 q, 2->1 r
	require.Equal(t, []string{`\braket{ab|H|pq}`, `\braket{pc|H|ar}`, `\braket{qr|H|bc}`}, E.MatrixElements)
	require.Equal(t, []string{"E_a+E_b-E_p-E_q", "E_b+E_c-E_q-E_r"}, E.Denominators)
}

func TestLineLabels(t *testing.T) {
	require.Equal(t, "a", lineLabel(Hole, 0))
	require.Equal(t, "o", lineLabel(Hole, 14))
	require.Equal(t, "a_{15}", lineLabel(Hole, 15))
	require.Equal(t, "z", lineLabel(Particle, 10))
	require.Equal(t, "p_{11}", lineLabel(Particle, 11))
}
