package adg

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

const (

	// MaxOrder is the largest perturbative order (vertex count) a diagram can have.
	MaxOrder = 8

	// MaxMultiplicity bounds the number of lines joining any two vertices (a three-body vertex has degree 6).
	MaxMultiplicity = 6
)

// Theory names the many-body formalism whose diagrams are generated.
type Theory byte

const (
	Theory_Nil    Theory = 0
	Theory_MBPT   Theory = 1
	Theory_BMBPT  Theory = 2
	Theory_PBMBPT Theory = 3
)

func (th Theory) String() string {
	switch th {
	case Theory_MBPT:
		return "MBPT"
	case Theory_BMBPT:
		return "BMBPT"
	case Theory_PBMBPT:
		return "PBMBPT"
	}
	return "nil"
}

// ParseTheory maps a theory name (case-insensitive) onto a Theory.
func ParseTheory(name string) (Theory, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "MBPT":
		return Theory_MBPT, nil
	case "BMBPT":
		return Theory_BMBPT, nil
	case "PBMBPT":
		return Theory_PBMBPT, nil
	}
	return Theory_Nil, errors.Wrapf(ErrBadTheory, "%q", name)
}

// Variant is the closed set of generation variants every pipeline stage switches on.
//
// Three-body support is orthogonal and carried by TheoryConfig.ThreeBody().
type Variant byte

const (
	Variant_Nil        Variant = 0
	Variant_MBPT       Variant = 1
	Variant_BMBPT      Variant = 2
	Variant_BMBPTNorm  Variant = 3
	Variant_PBMBPT     Variant = 4
	Variant_PBMBPTNorm Variant = 5
)

func (v Variant) String() string {
	return [...]string{"nil", "MBPT", "BMBPT", "BMBPT-norm", "PBMBPT", "PBMBPT-norm"}[v]
}

// IsBogoliubov is true for the BMBPT family, whose vertices are built incrementally.
func (v Variant) IsBogoliubov() bool {
	return v >= Variant_BMBPT
}

// IsNorm is true when the distinguished vertex stands for the norm operator.
func (v Variant) IsNorm() bool {
	return v == Variant_BMBPTNorm || v == Variant_PBMBPTNorm
}

// HasOperatorVertex is true when vertex 0 is a distinguished observable vertex.
func (v Variant) HasOperatorVertex() bool {
	return v == Variant_BMBPT || v == Variant_PBMBPT
}

// TracksAnomalous is true when lines carry an anomalous (pairing) flag.
func (v Variant) TracksAnomalous() bool {
	return v == Variant_PBMBPT || v == Variant_PBMBPTNorm
}

// IsTimeOrdered is true when vertex indices are time slots that no relabeling may exchange.
func (v Variant) IsTimeOrdered() bool {
	return v == Variant_MBPT
}

// Category is the classification bucket of an output diagram; its ordinal fixes the output order.
type Category byte

const (
	Category_Nil Category = iota
	Category_2N_CanonicalEnergy
	Category_2N_CanonicalOperator
	Category_2N_NonCanonical
	Category_3N_CanonicalEnergy
	Category_3N_CanonicalOperator
	Category_3N_NonCanonical
	Category_MBPT

	NumCategories = int(Category_MBPT) + 1
)

func (c Category) String() string {
	return [...]string{
		"nil",
		"2N canonical (energy)",
		"2N canonical (generic operator only)",
		"2N non-canonical",
		"3N canonical (energy)",
		"3N canonical (generic operator only)",
		"3N non-canonical",
		"MBPT",
	}[c]
}

// IsThreeBody returns true if this category holds diagrams with at least one three-body vertex.
func (c Category) IsThreeBody() bool {
	return c >= Category_3N_CanonicalEnergy && c <= Category_3N_NonCanonical
}

// Counts tallies diagrams per Category.
type Counts [NumCategories]int

func (C *Counts) Total() int {
	total := 0
	for _, n := range C {
		total += n
	}
	return total
}

func (C *Counts) TwoBody() int {
	return C[Category_2N_CanonicalEnergy] + C[Category_2N_CanonicalOperator] + C[Category_2N_NonCanonical]
}

func (C *Counts) ThreeBody() int {
	return C[Category_3N_CanonicalEnergy] + C[Category_3N_CanonicalOperator] + C[Category_3N_NonCanonical]
}

// TheoryConfig is an immutable, validated generation configuration.
// Obtain one from NewTheoryConfig or LoadConfig.
type TheoryConfig struct {
	order      int
	theory     Theory
	threeBody  bool
	norm       bool
	maxObsRank int
	trackPerms bool
	canonical  bool
}

func (cfg TheoryConfig) Order() int               { return cfg.order }
func (cfg TheoryConfig) Theory() Theory           { return cfg.theory }
func (cfg TheoryConfig) ThreeBody() bool          { return cfg.threeBody }
func (cfg TheoryConfig) NormKernel() bool         { return cfg.norm }
func (cfg TheoryConfig) MaxObservableRank() int   { return cfg.maxObsRank }
func (cfg TheoryConfig) TrackPermutations() bool  { return cfg.trackPerms }
func (cfg TheoryConfig) CanonicalOnly() bool      { return cfg.canonical }
func (cfg TheoryConfig) IsValid() bool            { return cfg.order >= 1 && cfg.Variant() != Variant_Nil }
func (cfg TheoryConfig) HasOperatorVertex() bool  { return cfg.Variant().HasOperatorVertex() }
func (cfg TheoryConfig) OperatorDegreeBound() int { return 2 * cfg.maxObsRank }

// Variant returns the tagged variant this configuration selects.
func (cfg TheoryConfig) Variant() Variant {
	switch cfg.theory {
	case Theory_MBPT:
		return Variant_MBPT
	case Theory_BMBPT:
		if cfg.norm {
			return Variant_BMBPTNorm
		}
		return Variant_BMBPT
	case Theory_PBMBPT:
		if cfg.norm {
			return Variant_PBMBPTNorm
		}
		return Variant_PBMBPT
	}
	return Variant_Nil
}

// DegMax is the largest degree any vertex may reach.
func (cfg TheoryConfig) DegMax() int {
	if cfg.threeBody {
		return 6
	}
	return 4
}

// AllowedDegree reports whether d is a legal degree for a non-distinguished vertex.
func (cfg TheoryConfig) AllowedDegree(d int) bool {
	return d == 2 || d == 4 || (d == 6 && cfg.threeBody)
}

// VertexDegreeOK applies the degree rule to vertex vi.
//
// In canonical-only mode, interaction vertices may not have degree 2, so diagrams with
// a one-body insertion are pruned as they are built rather than classified afterwards.
func (cfg TheoryConfig) VertexDegreeOK(vi, degree int) bool {
	if vi == 0 && cfg.HasOperatorVertex() {
		return degree <= cfg.OperatorDegreeBound()
	}
	if degree == 2 && cfg.canonical {
		return false
	}
	return cfg.AllowedDegree(degree)
}

// Key is a stable identifier for this configuration, usable as a directory or catalog key.
func (cfg TheoryConfig) Key() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v-o%d", cfg.theory, cfg.order)
	if cfg.threeBody {
		b.WriteString("-3N")
	}
	if cfg.norm {
		b.WriteString("-norm")
	}
	if cfg.HasOperatorVertex() {
		fmt.Fprintf(&b, "-r%d", cfg.maxObsRank)
	}
	if cfg.canonical {
		b.WriteString("-canon")
	}
	if cfg.trackPerms {
		b.WriteString("-perms")
	}
	return b.String()
}

func (cfg TheoryConfig) String() string {
	return cfg.Key()
}

// Opts returns the options that reproduce this configuration.
func (cfg TheoryConfig) Opts() ConfigOpts {
	return ConfigOpts{
		Order:             cfg.order,
		Theory:            cfg.theory,
		ThreeBody:         cfg.threeBody,
		NormKernel:        cfg.norm,
		MaxObservableRank: cfg.maxObsRank,
		TrackPermutations: cfg.trackPerms,
		CanonicalOnly:     cfg.canonical,
	}
}
