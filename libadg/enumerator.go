package libadg

import (
	"sort"

	"github.com/manybody/adg/adg"
)

// Enumerate returns every candidate realization for cfg, tagged in enumeration order.
//
// Base matrices are emitted in descending Matrix.Compare() order.  For theories that track
// anomalous lines, each base matrix is followed by all of its anomalous splits.
func Enumerate(cfg adg.TheoryConfig) []Candidate {
	var bases []Matrix
	switch {
	case cfg.Variant() == adg.Variant_MBPT:
		bases = enumerateMBPT(cfg.Order())
	case cfg.Variant().IsBogoliubov():
		bases = enumerateBogoliubov(cfg)
	default:
		return nil
	}

	sortDescending(bases)

	candidates := make([]Candidate, 0, len(bases))
	for _, M := range bases {
		if cfg.Variant().TracksAnomalous() {
			for _, anom := range anomalousSplits(&M) {
				candidates = append(candidates, Candidate{Adj: M, Anom: anom})
			}
		} else {
			candidates = append(candidates, Candidate{Adj: M, Anom: NewMatrix(M.NumVertices())})
		}
	}
	for i := range candidates {
		candidates[i].Tag = i
	}
	return candidates
}

func sortDescending(mats []Matrix) {
	sort.Slice(mats, func(i, j int) bool {
		return mats[i].Compare(&mats[j]) > 0
	})
}

// enumerateMBPT forms every pairwise sum (with repetition) of the trace-free permutation matrices of size Nv.
func enumerateMBPT(Nv int) []Matrix {
	var seeds []Matrix
	permute(Nv, func(perm []int) {
		M := NewMatrix(Nv)
		for r, c := range perm {
			if r == c {
				return
			}
			M.Set(r, c, 1)
		}
		seeds = append(seeds, M)
	})

	set := NewMatrixSet()
	defer set.Close()

	var sums []Matrix
	for a := range seeds {
		for b := a; b < len(seeds); b++ {
			M := seeds[a]
			M.AddMatrix(&seeds[b])
			if set.TryAdd(&M) {
				sums = append(sums, M)
			}
		}
	}
	return sums
}

// permute calls fn with each permutation of 0..N-1 in lexicographic order.
// The slice passed to fn is reused between calls.
func permute(N int, fn func(perm []int)) {
	perm := make([]int, N)
	used := make([]bool, N)
	var place func(pos int)
	place = func(pos int) {
		if pos == N {
			fn(perm)
			return
		}
		for v := 0; v < N; v++ {
			if !used[v] {
				used[v] = true
				perm[pos] = v
				place(pos + 1)
				used[v] = false
			}
		}
	}
	place(0)
}

// enumerateBogoliubov builds matrices vertex by vertex, branching on every multiplicity a
// cell can take and pruning branches as soon as a vertex's degree is settled.
func enumerateBogoliubov(cfg adg.TheoryConfig) []Matrix {
	Nv := cfg.Order()
	degMax := cfg.DegMax()
	branches := []Matrix{NewMatrix(Nv)}

	first := 0
	if cfg.HasOperatorVertex() {
		// The operator vertex only absorbs lines, so its column is filled first.
		bound := cfg.OperatorDegreeBound()
		for k := 1; k < Nv; k++ {
			next := make([]Matrix, 0, 2*len(branches))
			for _, M := range branches {
				next = append(next, M)
				deg := M.InDegree(0)
				for n := 1; n <= degMax && n+deg <= bound; n++ {
					B := M
					B.Set(k, 0, n)
					next = append(next, B)
				}
			}
			branches = next
		}
		branches = pruneVertex(cfg, branches, 0)
		first = 1
	}

	for v := first; v < Nv; v++ {
		for j := v + 1; j < Nv; j++ {
			branches = branchCell(branches, j, v, degMax)
			branches = branchCell(branches, v, j, degMax)
		}
		branches = pruneVertex(cfg, branches, v)
	}
	return branches
}

// branchCell extends each branch with every multiplicity of lines from -> to that keeps both
// endpoints within degMax, provided no lines yet run to -> from.
func branchCell(branches []Matrix, from, to int, degMax int) []Matrix {
	next := make([]Matrix, 0, 2*len(branches))
	for _, M := range branches {
		next = append(next, M)
		if M.At(to, from) != 0 {
			continue
		}
		deg := M.Degree(from)
		if d := M.Degree(to); d > deg {
			deg = d
		}
		for n := 1; n+deg <= degMax; n++ {
			B := M
			B.Set(from, to, n)
			next = append(next, B)
		}
	}
	return next
}

// pruneVertex drops branches whose (now final) degree at vertex vi is not allowed.
func pruneVertex(cfg adg.TheoryConfig, branches []Matrix, vi int) []Matrix {
	kept := branches[:0]
	for _, M := range branches {
		if cfg.VertexDegreeOK(vi, M.Degree(vi)) {
			kept = append(kept, M)
		}
	}
	return kept
}

// anomalousSplits returns every way of marking lines of M as anomalous, cell by cell,
// starting with the split that marks none.
func anomalousSplits(M *Matrix) []Matrix {
	Nv := M.NumVertices()
	splits := []Matrix{NewMatrix(Nv)}
	for i := 0; i < Nv; i++ {
		for j := 0; j < Nv; j++ {
			n := M.At(i, j)
			if n == 0 {
				continue
			}
			next := make([]Matrix, 0, len(splits)*(n+1))
			for _, A := range splits {
				for a := 0; a <= n; a++ {
					B := A
					B.Set(i, j, a)
					next = append(next, B)
				}
			}
			splits = next
		}
	}
	return splits
}
