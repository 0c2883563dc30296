package libadg

import (
	"github.com/manybody/adg/adg"
	"github.com/manybody/adg/libadg/vf2"
)

// Canonicalize reduces diagrams (in ascending tag order) to one representative per isomorphism class.
//
// Scanning from the back, each diagram is compared against the survivors after it; the first
// isomorphic one found is merged into it and dropped.  Each survivor therefore carries the
// lowest tag of its class, with the tags of every merged diagram appended to its Tags.
// The input slice is not modified.
func Canonicalize(cfg adg.TheoryConfig, diagrams []*Diagram) []*Diagram {
	v := cfg.Variant()
	distinct := append([]*Diagram(nil), diagrams...)

	for i := len(distinct) - 1; i >= 0; i-- {
		Di := distinct[i]
		mi := Di.matchGraph(v)
		for j := len(distinct) - 1; j > i; j-- {
			Dj := distinct[j]
			mj := Dj.matchGraph(v)
			if !mi.sameSignature(mj) {
				continue
			}
			mapping, ok := vf2.IsIsomorphic(mi.G, mj.G, matchOpts(v, Di, Dj))
			if ok {
				Di.absorb(Dj, mapping)
				distinct = append(distinct[:j], distinct[j+1:]...)
				break
			}
		}
	}
	return distinct
}

// Isomorphic reports whether two diagrams are in the same class under variant v's matching rules.
func Isomorphic(v adg.Variant, D1, D2 *Diagram) bool {
	m1, m2 := D1.matchGraph(v), D2.matchGraph(v)
	if !m1.sameSignature(m2) {
		return false
	}
	_, ok := vf2.IsIsomorphic(m1.G, m2.G, matchOpts(v, D1, D2))
	return ok
}

func matchOpts(v adg.Variant, D1, D2 *Diagram) vf2.Opts {
	var opts vf2.Opts
	if v.IsTimeOrdered() {
		opts.VertexMatch = func(v1, v2 int) bool {
			return v1 == v2
		}
	} else {
		opts.VertexMatch = func(v1, v2 int) bool {
			return D1.Operator[v1] == D2.Operator[v2]
		}
	}
	if v.TracksAnomalous() {
		A1, A2 := D1.matchGraph(v).Anomalous, D2.matchGraph(v).Anomalous
		opts.EdgeMatch = func(from1, to1, from2, to2 int) bool {
			return A1.NumEdges(from1, to1) == A2.NumEdges(from2, to2)
		}
	}
	return opts
}

// absorb merges the class member Dj into D, given the vertex mapping from D onto Dj.
func (D *Diagram) absorb(Dj *Diagram, mapping []int) {
	if Dj.Perms != nil {
		if D.Perms == nil {
			D.Perms = make(map[int][]int, len(Dj.Perms))
		}
		identity := vf2.IsIdentity(mapping)
		for _, tag := range Dj.Tags {
			old := Dj.Perms[tag]
			perm := old
			if !identity {
				perm = make([]int, len(old))
				for vi := range perm {
					perm[vi] = old[mapping[vi]]
				}
			}
			D.Perms[tag] = perm
		}
	}
	D.Tags = append(D.Tags, Dj.Tags...)
}
