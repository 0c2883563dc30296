package libadg

import (
	"fmt"
	"strings"
)

// LineKind distinguishes hole from particle lines of an MBPT diagram.
type LineKind byte

const (
	Hole     LineKind = 'h'
	Particle LineKind = 'p'
)

// Line is one labeled line of an MBPT diagram.
type Line struct {
	From  int
	To    int
	Kind  LineKind
	Label string
}

// Expression is the algebraic term of an MBPT diagram.
type Expression struct {
	Lines          []Line
	MatrixElements []string // one per vertex, in vertex order
	Denominators   []string // one per time cut between consecutive vertices
	NumHoles       int
	SymmetryFactor int
}

var (
	holeLabels     = "abcdefghijklmno"
	particleLabels = "pqrstuvwxyz"
)

func lineLabel(kind LineKind, k int) string {
	letters := holeLabels
	if kind == Particle {
		letters = particleLabels
	}
	if k < len(letters) {
		return letters[k : k+1]
	}
	return fmt.Sprintf("%c_{%d}", letters[0], k)
}

// ExtractExpression derives the algebraic term of an MBPT diagram.
//
// Lines are taken in row-major (source, target) order.  A line running to a later vertex is a hole,
// otherwise it is a particle; holes and particles are labeled independently in that order.
func ExtractExpression(D *Diagram) *Expression {
	E := &Expression{
		SymmetryFactor: 1,
	}

	nHoles, nParticles := 0, 0
	for _, pair := range D.SortedPairs() {
		lines := D.Lines[pair]
		for k := 0; k < int(lines.Count); k++ {
			line := Line{
				From: int(pair.From),
				To:   int(pair.To),
			}
			if line.From < line.To {
				line.Kind = Hole
				line.Label = lineLabel(Hole, nHoles)
				nHoles++
			} else {
				line.Kind = Particle
				line.Label = lineLabel(Particle, nParticles)
				nParticles++
			}
			E.Lines = append(E.Lines, line)
		}
		E.SymmetryFactor <<= uint(lines.Count - 1)
	}
	E.NumHoles = nHoles

	for vi := 0; vi < D.Nv; vi++ {
		var bra, ket strings.Builder
		for _, line := range E.Lines {
			if line.From == vi {
				bra.WriteString(line.Label)
			}
			if line.To == vi {
				ket.WriteString(line.Label)
			}
		}
		E.MatrixElements = append(E.MatrixElements, fmt.Sprintf("\\braket{%s|H|%s}", bra.String(), ket.String()))
	}

	// A line crosses the cut after vertex `cut` if exactly one of its ends lies at or before it.
	for cut := 1; cut < D.Nv; cut++ {
		var denom strings.Builder
		for _, line := range E.Lines {
			sign := ""
			switch {
			case line.From < cut && line.To >= cut:
				sign = "+"
			case line.To < cut && line.From >= cut:
				sign = "-"
			default:
				continue
			}
			if denom.Len() == 0 && sign == "+" {
				sign = ""
			}
			denom.WriteString(sign)
			denom.WriteString("E_")
			denom.WriteString(line.Label)
		}
		E.Denominators = append(E.Denominators, denom.String())
	}
	return E
}

// Phase returns the sign factor, with l the number of closed loops (not tracked).
func (E *Expression) Phase() string {
	return fmt.Sprintf("(-1)^{%d+l}", E.NumHoles)
}

// Latex renders the full term.
func (E *Expression) Latex() string {
	var b strings.Builder
	fmt.Fprintf(&b, "\\dfrac{1}{%d}%s\\sum{\\dfrac{", E.SymmetryFactor, E.Phase())
	b.WriteString(strings.Join(E.MatrixElements, ""))
	b.WriteString("}{")
	for _, denom := range E.Denominators {
		b.WriteString("(")
		b.WriteString(denom)
		b.WriteString(")")
	}
	b.WriteString("}}")
	return b.String()
}
