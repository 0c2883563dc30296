package libadg

import (
	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/manybody/adg/adg"
)

// Categorize returns the bucket D belongs to under cfg.
//
// A diagram is three-body if any vertex has degree 6.  It is canonical for the energy if no
// vertex has degree 2, and canonical for a generic operator if only the operator vertex does.
// In the norm kernel there is no operator vertex, so any degree-2 vertex makes it non-canonical.
func Categorize(cfg adg.TheoryConfig, D *Diagram) adg.Category {
	if !cfg.Variant().IsBogoliubov() {
		return adg.Category_MBPT
	}

	noDeg2, onlyOperatorDeg2 := true, true
	for vi := 0; vi < D.Nv; vi++ {
		if D.Degree(vi) == 2 {
			noDeg2 = false
			if !D.Operator[vi] {
				onlyOperatorDeg2 = false
			}
		}
	}

	cat := adg.Category_2N_NonCanonical
	switch {
	case noDeg2:
		cat = adg.Category_2N_CanonicalEnergy
	case onlyOperatorDeg2 && !cfg.NormKernel():
		cat = adg.Category_2N_CanonicalOperator
	}
	if D.MaxDegree() == 6 {
		cat += adg.Category_3N_CanonicalEnergy - adg.Category_2N_CanonicalEnergy
	}
	return cat
}

// Classify assigns each diagram its Category and returns them regrouped in category order,
// keeping the incoming order within a category.
func Classify(cfg adg.TheoryConfig, diagrams []*Diagram) ([]*Diagram, adg.Counts) {
	buckets := redblacktree.NewWith(func(a, b interface{}) int {
		return int(a.(adg.Category)) - int(b.(adg.Category))
	})

	for _, D := range diagrams {
		D.Category = Categorize(cfg, D)
		var bucket []*Diagram
		if existing, found := buckets.Get(D.Category); found {
			bucket = existing.([]*Diagram)
		}
		buckets.Put(D.Category, append(bucket, D))
	}

	var counts adg.Counts
	ordered := make([]*Diagram, 0, len(diagrams))
	itr := buckets.Iterator()
	for itr.Next() {
		bucket := itr.Value().([]*Diagram)
		counts[itr.Key().(adg.Category)] = len(bucket)
		ordered = append(ordered, bucket...)
	}
	return ordered, counts
}
