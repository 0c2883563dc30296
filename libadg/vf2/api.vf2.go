// Package vf2 implements VF2 isomorphism matching for small directed multigraphs.
//
// Vertices are the integers 0..NumVertices()-1. Parallel edges are carried as a multiplicity,
// and a candidate mapping must preserve the multiplicity of every ordered vertex pair.
// Domain attributes are compared through the VertexMatch and EdgeMatch callbacks.
package vf2

// Graph is a directed multigraph over small integer vertex indices.
type Graph interface {

	// NumVertices returns the number of vertices, indexed from 0.
	NumVertices() int

	// NumEdges returns how many edges run from vertex from to vertex to.
	NumEdges(from, to int) int
}

// VertexMatch reports if vertex v1 of G1 may be mapped onto vertex v2 of G2.
type VertexMatch func(v1, v2 int) bool

// EdgeMatch reports if the edge bundle from1->to1 of G1 may be mapped onto the bundle from2->to2 of G2.
// It is only called for bundles that exist and whose multiplicities already agree.
type EdgeMatch func(from1, to1, from2, to2 int) bool

// Opts holds optional attribute compatibility callbacks.  A nil callback accepts every pair.
type Opts struct {
	VertexMatch VertexMatch
	EdgeMatch   EdgeMatch
}

// IsIsomorphic is a convenience wrapper returning the first mapping found from G1 to G2.
func IsIsomorphic(G1, G2 Graph, opts Opts) (mapping []int, ok bool) {
	m := NewMatcher(G1, G2, opts)
	if !m.IsIsomorphic() {
		return nil, false
	}
	return m.Mapping(), true
}

// IsIdentity returns true if mapping sends every vertex onto itself.
func IsIdentity(mapping []int) bool {
	for v, w := range mapping {
		if v != w {
			return false
		}
	}
	return true
}

// Dense is a Graph backed by a row-major edge count table.
type Dense struct {
	N      int
	Counts []int
}

// NewDense returns an edgeless graph on N vertices.
func NewDense(N int) *Dense {
	return &Dense{
		N:      N,
		Counts: make([]int, N*N),
	}
}

func (G *Dense) NumVertices() int {
	return G.N
}

func (G *Dense) NumEdges(from, to int) int {
	return G.Counts[from*G.N+to]
}

// AddEdges adds n edges from -> to.
func (G *Dense) AddEdges(from, to, n int) {
	G.Counts[from*G.N+to] += n
}
