package vf2

import "sort"

// Matcher holds the search state of one VF2 isomorphism test from G1 onto G2.
//
// Terminal sets are tracked as the search depth at which a vertex first became adjacent
// to the partial mapping (0 means "not in the set"), so backtracking a level is a sweep
// that clears every entry recorded at that depth.
type Matcher struct {
	G1, G2 Graph
	opts   Opts
	N      int

	core1, core2 []int // partial mapping; -1 if unmapped
	in1, in2     []int // depth at which a vertex entered the in-terminal set
	out1, out2   []int // depth at which a vertex entered the out-terminal set

	pred1, succ1 [][]int // distinct neighbors, self excluded
	pred2, succ2 [][]int

	mapping []int
}

// NewMatcher prepares a matcher for G1 and G2.
func NewMatcher(G1, G2 Graph, opts Opts) *Matcher {
	m := &Matcher{
		G1:   G1,
		G2:   G2,
		opts: opts,
		N:    G1.NumVertices(),
	}
	return m
}

// Mapping returns the vertex mapping (G1 index -> G2 index) found by the last successful IsIsomorphic().
func (m *Matcher) Mapping() []int {
	return m.mapping
}

// IsIsomorphic returns true if G1 and G2 are isomorphic under the given vertex and edge compatibility.
func (m *Matcher) IsIsomorphic() bool {
	m.mapping = nil
	if m.G2.NumVertices() != m.N {
		return false
	}
	if !m.degreesAgree() {
		return false
	}
	m.init()
	return m.match(0)
}

func (m *Matcher) init() {
	N := m.N
	m.core1 = make([]int, N)
	m.core2 = make([]int, N)
	for i := 0; i < N; i++ {
		m.core1[i] = -1
		m.core2[i] = -1
	}
	m.in1 = make([]int, N)
	m.in2 = make([]int, N)
	m.out1 = make([]int, N)
	m.out2 = make([]int, N)
	m.pred1, m.succ1 = neighbors(m.G1)
	m.pred2, m.succ2 = neighbors(m.G2)
}

func neighbors(G Graph) (pred, succ [][]int) {
	N := G.NumVertices()
	pred = make([][]int, N)
	succ = make([][]int, N)
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			if i != j && G.NumEdges(i, j) > 0 {
				succ[i] = append(succ[i], j)
				pred[j] = append(pred[j], i)
			}
		}
	}
	return
}

// degreesAgree compares sorted (in, out) degree sequences, a necessary condition for isomorphism.
func (m *Matcher) degreesAgree() bool {
	d1 := ioDegrees(m.G1)
	d2 := ioDegrees(m.G2)
	for i := range d1 {
		if d1[i] != d2[i] {
			return false
		}
	}
	return true
}

func ioDegrees(G Graph) [][2]int {
	N := G.NumVertices()
	deg := make([][2]int, N)
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			n := G.NumEdges(i, j)
			deg[i][1] += n
			deg[j][0] += n
		}
	}
	sort.Slice(deg, func(i, j int) bool {
		if deg[i][0] != deg[j][0] {
			return deg[i][0] < deg[j][0]
		}
		return deg[i][1] < deg[j][1]
	})
	return deg
}

func (m *Matcher) match(depth int) bool {
	if depth == m.N {
		m.mapping = append([]int(nil), m.core1...)
		return true
	}

	v1s, v2 := m.candidates()
	for _, v1 := range v1s {
		if !m.syntacticFeasible(v1, v2) || !m.semanticFeasible(v1, v2) {
			continue
		}
		m.push(v1, v2, depth+1)
		found := m.match(depth + 1)
		m.pop(v1, v2, depth+1)
		if found {
			return true
		}
	}
	return false
}

// candidates returns the G1 vertices to try against a single G2 vertex, picking
// from the out-terminal sets first, then the in-terminal sets, then all unmapped vertices.
func (m *Matcher) candidates() (v1s []int, v2 int) {
	pick := func(core1, core2, term1, term2 []int) ([]int, int) {
		v2 := -1
		for w := 0; w < m.N; w++ {
			if term2[w] > 0 && core2[w] < 0 {
				v2 = w
				break
			}
		}
		if v2 < 0 {
			return nil, -1
		}
		var v1s []int
		for v := 0; v < m.N; v++ {
			if term1[v] > 0 && core1[v] < 0 {
				v1s = append(v1s, v)
			}
		}
		return v1s, v2
	}

	if v1s, v2 = pick(m.core1, m.core2, m.out1, m.out2); v2 >= 0 && len(v1s) > 0 {
		return
	}
	if v1s, v2 = pick(m.core1, m.core2, m.in1, m.in2); v2 >= 0 && len(v1s) > 0 {
		return
	}

	v1s, v2 = nil, -1
	for w := 0; w < m.N; w++ {
		if m.core2[w] < 0 {
			v2 = w
			break
		}
	}
	for v := 0; v < m.N; v++ {
		if m.core1[v] < 0 {
			v1s = append(v1s, v)
		}
	}
	return
}

// syntacticFeasible checks that adding v1->v2 preserves edge multiplicities against the
// current mapping and that the terminal set look-ahead counts agree.
func (m *Matcher) syntacticFeasible(v1, v2 int) bool {
	if m.G1.NumEdges(v1, v1) != m.G2.NumEdges(v2, v2) {
		return false
	}

	for _, p := range m.pred1[v1] {
		if w := m.core1[p]; w >= 0 && m.G1.NumEdges(p, v1) != m.G2.NumEdges(w, v2) {
			return false
		}
	}
	for _, p := range m.pred2[v2] {
		if w := m.core2[p]; w >= 0 && m.G2.NumEdges(p, v2) != m.G1.NumEdges(w, v1) {
			return false
		}
	}
	for _, s := range m.succ1[v1] {
		if w := m.core1[s]; w >= 0 && m.G1.NumEdges(v1, s) != m.G2.NumEdges(v2, w) {
			return false
		}
	}
	for _, s := range m.succ2[v2] {
		if w := m.core2[s]; w >= 0 && m.G2.NumEdges(v2, s) != m.G1.NumEdges(v1, w) {
			return false
		}
	}

	if m.lookAhead(m.pred1[v1], m.core1, m.in1, m.out1) != m.lookAhead(m.pred2[v2], m.core2, m.in2, m.out2) {
		return false
	}
	if m.lookAhead(m.succ1[v1], m.core1, m.in1, m.out1) != m.lookAhead(m.succ2[v2], m.core2, m.in2, m.out2) {
		return false
	}
	return true
}

// lookAhead counts unmapped neighbors that sit in the in-terminal set, the out-terminal set, and in neither.
func (m *Matcher) lookAhead(nbrs []int, core, in, out []int) (counts [3]int) {
	for _, v := range nbrs {
		if core[v] >= 0 {
			continue
		}
		if in[v] > 0 {
			counts[0]++
		}
		if out[v] > 0 {
			counts[1]++
		}
		if in[v] == 0 && out[v] == 0 {
			counts[2]++
		}
	}
	return
}

func (m *Matcher) semanticFeasible(v1, v2 int) bool {
	if m.opts.VertexMatch != nil && !m.opts.VertexMatch(v1, v2) {
		return false
	}
	edgeMatch := m.opts.EdgeMatch
	if edgeMatch == nil {
		return true
	}
	if m.G1.NumEdges(v1, v1) > 0 && !edgeMatch(v1, v1, v2, v2) {
		return false
	}
	for _, p := range m.pred1[v1] {
		if w := m.core1[p]; w >= 0 && !edgeMatch(p, v1, w, v2) {
			return false
		}
	}
	for _, s := range m.succ1[v1] {
		if w := m.core1[s]; w >= 0 && !edgeMatch(v1, s, v2, w) {
			return false
		}
	}
	return true
}

func (m *Matcher) push(v1, v2, depth int) {
	m.core1[v1] = v2
	m.core2[v2] = v1
	enter(v1, depth, m.pred1, m.succ1, m.core1, m.in1, m.out1)
	enter(v2, depth, m.pred2, m.succ2, m.core2, m.in2, m.out2)
}

func enter(v, depth int, pred, succ [][]int, core, in, out []int) {
	if in[v] == 0 {
		in[v] = depth
	}
	if out[v] == 0 {
		out[v] = depth
	}
	for _, p := range pred[v] {
		if in[p] == 0 && core[p] < 0 {
			in[p] = depth
		}
	}
	for _, s := range succ[v] {
		if out[s] == 0 && core[s] < 0 {
			out[s] = depth
		}
	}
}

func (m *Matcher) pop(v1, v2, depth int) {
	m.core1[v1] = -1
	m.core2[v2] = -1
	for _, terms := range [][]int{m.in1, m.in2, m.out1, m.out2} {
		for v, d := range terms {
			if d == depth {
				terms[v] = 0
			}
		}
	}
}
