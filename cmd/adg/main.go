package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/manybody/adg/adg"
	"github.com/manybody/adg/libadg"
	"github.com/manybody/adg/libadg/catalog"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type runFlags struct {
	order       int
	theory      string
	threeBody   bool
	norm        bool
	maxObsRank  int
	trackPerms  bool
	canonical   bool
	workers     int
	outDir      string
	catalogPath string
	configPath  string
}

func main() {
	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	err := newRootCmd(fset).Execute()
	klog.Flush()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd(klogFlags *flag.FlagSet) *cobra.Command {
	var rf runFlags

	rootCmd := &cobra.Command{
		Use:          "adg",
		Short:        "Generate and classify MBPT, BMBPT and PBMBPT diagrams at a given order",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd.Flags(), &rf)
			if err != nil {
				return err
			}
			return run(cfg, &rf)
		},
	}

	flags := rootCmd.Flags()
	flags.IntVarP(&rf.order, "order", "n", 2, "perturbative order (number of vertices)")
	flags.StringVarP(&rf.theory, "theory", "t", "BMBPT", "MBPT, BMBPT or PBMBPT")
	flags.BoolVar(&rf.threeBody, "three-body", false, "allow three-body vertices")
	flags.BoolVar(&rf.norm, "norm", false, "generate norm kernel diagrams")
	flags.IntVar(&rf.maxObsRank, "max-observable-rank", 0, "body rank of the observable vertex (0 for default)")
	flags.BoolVar(&rf.trackPerms, "track-perms", false, "keep vertex permutations of merged diagrams")
	flags.BoolVar(&rf.canonical, "canonical-only", false, "prune non-canonical diagrams while enumerating")
	flags.IntVar(&rf.workers, "workers", 0, "filter workers (0 for one per CPU)")
	flags.StringVarP(&rf.outDir, "out", "o", ".", "output directory")
	flags.StringVar(&rf.catalogPath, "catalog", "", "badger catalog directory for reusing generated results")
	flags.StringVar(&rf.configPath, "config", "", "YAML configuration file; explicit flags take precedence")
	rootCmd.PersistentFlags().AddGoFlagSet(klogFlags)

	return rootCmd
}

// resolveConfig layers the YAML file (if any) under explicitly set flags.
func resolveConfig(flags *pflag.FlagSet, rf *runFlags) (adg.TheoryConfig, error) {
	theory, err := adg.ParseTheory(rf.theory)
	if err != nil {
		return adg.TheoryConfig{}, err
	}
	opts := adg.ConfigOpts{
		Order:             rf.order,
		Theory:            theory,
		ThreeBody:         rf.threeBody,
		NormKernel:        rf.norm,
		MaxObservableRank: rf.maxObsRank,
		TrackPermutations: rf.trackPerms,
		CanonicalOnly:     rf.canonical,
	}
	if rf.configPath == "" {
		return adg.NewTheoryConfig(opts)
	}

	fileOpts, err := adg.LoadConfigOpts(rf.configPath, opts)
	if err != nil {
		return adg.TheoryConfig{}, err
	}
	if flags.Changed("order") {
		fileOpts.Order = opts.Order
	}
	if flags.Changed("theory") {
		fileOpts.Theory = opts.Theory
	}
	if flags.Changed("three-body") {
		fileOpts.ThreeBody = opts.ThreeBody
	}
	if flags.Changed("norm") {
		fileOpts.NormKernel = opts.NormKernel
	}
	if flags.Changed("max-observable-rank") {
		fileOpts.MaxObservableRank = opts.MaxObservableRank
	}
	if flags.Changed("track-perms") {
		fileOpts.TrackPermutations = opts.TrackPermutations
	}
	if flags.Changed("canonical-only") {
		fileOpts.CanonicalOnly = opts.CanonicalOnly
	}
	return adg.NewTheoryConfig(fileOpts)
}

func run(cfg adg.TheoryConfig, rf *runFlags) error {
	var cat *catalog.Catalog
	if rf.catalogPath != "" {
		var err error
		cat, err = catalog.Open(catalog.Opts{DbPathName: rf.catalogPath})
		if err != nil {
			return errors.Wrap(err, "opening catalog")
		}
		defer cat.Close()
	}

	res, err := loadOrGenerate(cat, cfg, rf.workers)
	if err != nil {
		return err
	}

	for c := adg.Category(1); int(c) < adg.NumCategories; c++ {
		if n := res.Counts[c]; n > 0 {
			klog.Infof("%-40v %d", c, n)
		}
	}
	if cfg.Variant().IsBogoliubov() {
		klog.Infof("%d two-body, %d three-body, %d total", res.Counts.TwoBody(), res.Counts.ThreeBody(), res.Counts.Total())
	}

	return writeOutputs(res, filepath.Join(rf.outDir, cfg.Key()))
}

func loadOrGenerate(cat *catalog.Catalog, cfg adg.TheoryConfig, workers int) (*libadg.Result, error) {
	if cat != nil {
		res, err := cat.Load(cfg)
		if err == nil {
			klog.V(1).Infof("%v: loaded %d diagrams from catalog", cfg, len(res.Diagrams))
			return res, nil
		}
		if !errors.Is(err, adg.ErrCatalogMiss) {
			return nil, err
		}
	}

	res, err := libadg.Generate(cfg, libadg.GenerateOpts{Workers: workers})
	if err != nil {
		return nil, err
	}
	if cat != nil {
		if err = cat.Store(res); err != nil {
			return nil, errors.Wrap(err, "storing result")
		}
	}
	return res, nil
}

func writeOutputs(res *libadg.Result, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	if err := writeFile(filepath.Join(dir, "adjacency_matrices.txt"), func(f *os.File) error {
		return libadg.WriteMatrices(f, res.Diagrams)
	}); err != nil {
		return err
	}

	if res.Config.Variant() == adg.Variant_MBPT {
		if err := writeFile(filepath.Join(dir, "expressions.tex"), func(f *os.File) error {
			return libadg.WriteExpressions(f, res.Diagrams)
		}); err != nil {
			return err
		}
	}
	klog.V(1).Infof("wrote %s", dir)
	return nil
}

func writeFile(pathname string, write func(f *os.File) error) error {
	f, err := os.Create(pathname)
	if err != nil {
		return err
	}
	err = write(f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return errors.Wrapf(err, "writing %s", pathname)
}
