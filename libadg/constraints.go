package libadg

import "github.com/manybody/adg/adg"

// NoSelfLoops returns false if any vertex has a line onto itself.
func NoSelfLoops(M *Matrix) bool {
	for i := 0; i < M.NumVertices(); i++ {
		if M.At(i, i) != 0 {
			return false
		}
	}
	return true
}

// NoTwoCycles returns false if any vertex pair is joined by lines running in both directions.
func NoTwoCycles(M *Matrix) bool {
	Nv := M.NumVertices()
	for i := 0; i < Nv; i++ {
		for j := i + 1; j < Nv; j++ {
			if M.At(i, j) != 0 && M.At(j, i) != 0 {
				return false
			}
		}
	}
	return true
}

// NoLoops combines NoSelfLoops and NoTwoCycles.
func NoLoops(M *Matrix) bool {
	return NoSelfLoops(M) && NoTwoCycles(M)
}

// DegreesOK returns true if every vertex degree of M satisfies cfg.VertexDegreeOK().
func DegreesOK(cfg adg.TheoryConfig, M *Matrix) bool {
	for vi := 0; vi < M.NumVertices(); vi++ {
		if !cfg.VertexDegreeOK(vi, M.Degree(vi)) {
			return false
		}
	}
	return true
}

// Admissible applies the structural rules of cfg's theory to a candidate matrix.
//
// Every theory forbids self-loops.  MBPT matrices are sums of two permutation seeds and
// so may carry lines both ways between a vertex pair; Bogoliubov theories may not.
// MBPT degrees are fixed by construction, so only Bogoliubov theories get a degree check.
func Admissible(cfg adg.TheoryConfig, M *Matrix) bool {
	if M.NumVertices() != cfg.Order() {
		return false
	}
	if cfg.Variant().IsBogoliubov() {
		return NoLoops(M) && DegreesOK(cfg, M)
	}
	return NoSelfLoops(M)
}
