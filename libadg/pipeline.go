package libadg

import (
	"runtime"
	"time"

	"github.com/manybody/adg/adg"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// GenerateOpts tunes how Generate runs; it never changes what Generate produces.
type GenerateOpts struct {
	Workers int // filter stage goroutines; 0 means runtime.NumCPU()
}

// Stats records how many candidates survived each stage.
type Stats struct {
	Candidates int
	Admissible int
	Connected  int
	Distinct   int
	Elapsed    time.Duration
}

// Result is the output of a full generation run.
type Result struct {
	Config   adg.TheoryConfig
	Diagrams []*Diagram // in category order, then canonical order
	Counts   adg.Counts
	Stats    Stats
}

// Generate runs the full pipeline for cfg and returns the classified distinct diagrams.
func Generate(cfg adg.TheoryConfig, opts GenerateOpts) (*Result, error) {
	if !cfg.IsValid() {
		return nil, errors.Wrapf(adg.ErrBadConfig, "cannot generate %v", cfg)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	start := time.Now()
	res := &Result{
		Config: cfg,
	}

	connected := EnumerateStream(cfg).
		Tally(&res.Stats.Candidates).
		Filter(cfg, workers).
		Tally(&res.Stats.Admissible).
		Build(cfg).
		KeepConnected().
		Collect()
	res.Stats.Connected = len(connected)
	klog.V(2).Infof("%v: %d candidates, %d admissible, %d connected", cfg, res.Stats.Candidates, res.Stats.Admissible, res.Stats.Connected)

	distinct := Canonicalize(cfg, connected)
	res.Stats.Distinct = len(distinct)
	klog.V(2).Infof("%v: %d topologically distinct", cfg, res.Stats.Distinct)

	res.Diagrams, res.Counts = Classify(cfg, distinct)
	if cfg.Variant() == adg.Variant_MBPT {
		for _, D := range res.Diagrams {
			D.Expr = ExtractExpression(D)
		}
	}

	res.Stats.Elapsed = time.Since(start)
	klog.Infof("%v: %d diagrams in %v", cfg, res.Counts.Total(), res.Stats.Elapsed)
	return res, nil
}

// Restore rebuilds a Result from stored diagrams, recomputing the derived per-diagram data.
func Restore(cfg adg.TheoryConfig, diagrams []*Diagram, stats Stats) *Result {
	res := &Result{
		Config:   cfg,
		Diagrams: diagrams,
		Stats:    stats,
	}
	for _, D := range diagrams {
		res.Counts[D.Category]++
		if cfg.Variant() == adg.Variant_MBPT && D.Expr == nil {
			D.Expr = ExtractExpression(D)
		}
	}
	return res
}
