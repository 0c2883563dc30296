package libadg

import (
	"sort"

	"github.com/manybody/adg/adg"
	"github.com/manybody/adg/libadg/vf2"
)

// VtxPair is an ordered vertex pair, the key of a line bundle.
type VtxPair struct {
	From int8
	To   int8
}

// Lines is a bundle of parallel lines between an ordered vertex pair.
type Lines struct {
	Count     uint8 // number of lines
	Anomalous uint8 // how many of Count are anomalous (always 0 unless anomalous lines are tracked)
}

// IODegree is the (in, out) line count at a vertex.
type IODegree struct {
	In  int
	Out int
}

// Diagram is a directed multigraph realization of a Candidate, plus the provenance and
// classification it accumulates through the pipeline.
type Diagram struct {
	Nv        int
	Lines     map[VtxPair]Lines
	Operator  []bool        // Operator[vi] is set for the distinguished operator vertex
	Tags      []int         // enumeration indices merged into this diagram; Tags[0] is its own
	Perms     map[int][]int // per merged tag, the vertex permutation onto this diagram (only if tracked)
	Category  adg.Category
	Expr      *Expression // MBPT only

	degree    []int
	ioDegree  []IODegree
	maxDegree int
	match     *matchGraph
}

// NewDiagram realizes the candidate C as a Diagram.
func NewDiagram(cfg adg.TheoryConfig, C *Candidate) *Diagram {
	Nv := C.Adj.NumVertices()
	D := &Diagram{
		Nv:       Nv,
		Lines:    make(map[VtxPair]Lines),
		Operator: make([]bool, Nv),
		Tags:     []int{C.Tag},
		degree:   make([]int, Nv),
		ioDegree: make([]IODegree, Nv),
	}
	if cfg.HasOperatorVertex() && Nv > 0 {
		D.Operator[0] = true
	}
	for i := 0; i < Nv; i++ {
		for j := 0; j < Nv; j++ {
			n := C.Adj.At(i, j)
			if n == 0 {
				continue
			}
			D.Lines[VtxPair{int8(i), int8(j)}] = Lines{
				Count:     uint8(n),
				Anomalous: uint8(C.Anom.At(i, j)),
			}
			D.ioDegree[i].Out += n
			D.ioDegree[j].In += n
		}
	}
	for vi, io := range D.ioDegree {
		D.degree[vi] = io.In + io.Out
		if D.degree[vi] > D.maxDegree {
			D.maxDegree = D.degree[vi]
		}
	}
	if cfg.TrackPermutations() {
		identity := make([]int, Nv)
		for i := range identity {
			identity[i] = i
		}
		D.Perms = map[int][]int{C.Tag: identity}
	}
	return D
}

// Tag returns the enumeration index identifying this diagram.
func (D *Diagram) Tag() int {
	return D.Tags[0]
}

// Degree returns the total degree of vertex vi.
func (D *Diagram) Degree(vi int) int {
	return D.degree[vi]
}

// MaxDegree returns the largest vertex degree.
func (D *Diagram) MaxDegree() int {
	return D.maxDegree
}

// IODegree returns the (in, out) degree of vertex vi.
func (D *Diagram) IODegree(vi int) IODegree {
	return D.ioDegree[vi]
}

// Degrees returns the vertex degrees in ascending order.
func (D *Diagram) Degrees() []int {
	degrees := append([]int(nil), D.degree...)
	sort.Ints(degrees)
	return degrees
}

// IODegrees returns the (in, out) vertex degrees in ascending order.
func (D *Diagram) IODegrees() []IODegree {
	io := append([]IODegree(nil), D.ioDegree...)
	sortIODegrees(io)
	return io
}

func sortIODegrees(io []IODegree) {
	sort.Slice(io, func(i, j int) bool {
		if io[i].In != io[j].In {
			return io[i].In < io[j].In
		}
		return io[i].Out < io[j].Out
	})
}

// NumLines returns the total line count.
func (D *Diagram) NumLines() int {
	total := 0
	for _, lines := range D.Lines {
		total += int(lines.Count)
	}
	return total
}

// Matrix returns the adjacency matrix of this diagram.
func (D *Diagram) Matrix() Matrix {
	M := NewMatrix(D.Nv)
	for pair, lines := range D.Lines {
		M.Set(int(pair.From), int(pair.To), int(lines.Count))
	}
	return M
}

// AnomalousMatrix returns the per-cell anomalous line counts of this diagram.
func (D *Diagram) AnomalousMatrix() Matrix {
	M := NewMatrix(D.Nv)
	for pair, lines := range D.Lines {
		M.Set(int(pair.From), int(pair.To), int(lines.Anomalous))
	}
	return M
}

// SortedPairs returns the keys of D.Lines in row-major order.
func (D *Diagram) SortedPairs() []VtxPair {
	pairs := make([]VtxPair, 0, len(D.Lines))
	for pair := range D.Lines {
		pairs = append(pairs, pair)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].From != pairs[j].From {
			return pairs[i].From < pairs[j].From
		}
		return pairs[i].To < pairs[j].To
	})
	return pairs
}

// IsWeaklyConnected returns true if every vertex is reachable from every other ignoring line direction.
// A lone vertex is connected.
func (D *Diagram) IsWeaklyConnected() bool {
	if D.Nv <= 1 {
		return true
	}
	parent := make([]int, D.Nv)
	for i := range parent {
		parent[i] = i
	}
	var root func(v int) int
	root = func(v int) int {
		for parent[v] != v {
			parent[v] = parent[parent[v]]
			v = parent[v]
		}
		return v
	}
	groups := D.Nv
	for pair := range D.Lines {
		a, b := root(int(pair.From)), root(int(pair.To))
		if a != b {
			parent[a] = b
			groups--
		}
	}
	return groups == 1
}

// matchGraph is the form of a diagram handed to the isomorphism matcher.
//
// When anomalous lines are tracked, each anomalous line also appears reversed so that
// an anomalous line matches regardless of its orientation.
type matchGraph struct {
	G         *vf2.Dense
	Anomalous *vf2.Dense
	Signature []IODegree // sorted (in, out) degrees of G
}

func (D *Diagram) matchGraph(v adg.Variant) *matchGraph {
	if D.match != nil {
		return D.match
	}
	mg := &matchGraph{
		G:         vf2.NewDense(D.Nv),
		Anomalous: vf2.NewDense(D.Nv),
	}
	doubled := v.TracksAnomalous()
	for pair, lines := range D.Lines {
		from, to := int(pair.From), int(pair.To)
		mg.G.AddEdges(from, to, int(lines.Count))
		if doubled && lines.Anomalous > 0 {
			mg.G.AddEdges(to, from, int(lines.Anomalous))
			mg.Anomalous.AddEdges(from, to, int(lines.Anomalous))
			mg.Anomalous.AddEdges(to, from, int(lines.Anomalous))
		}
	}
	mg.Signature = make([]IODegree, D.Nv)
	for i := 0; i < D.Nv; i++ {
		for j := 0; j < D.Nv; j++ {
			n := mg.G.NumEdges(i, j)
			mg.Signature[i].Out += n
			mg.Signature[j].In += n
		}
	}
	sortIODegrees(mg.Signature)
	D.match = mg
	return mg
}

func (mg *matchGraph) sameSignature(other *matchGraph) bool {
	if len(mg.Signature) != len(other.Signature) {
		return false
	}
	for i := range mg.Signature {
		if mg.Signature[i] != other.Signature[i] {
			return false
		}
	}
	return true
}
