package adg_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/manybody/adg/adg"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNewTheoryConfig(t *testing.T) {
	cfg, err := adg.NewTheoryConfig(adg.ConfigOpts{Order: 3, Theory: adg.Theory_BMBPT, ThreeBody: true})
	require.NoError(t, err)
	require.True(t, cfg.IsValid())
	require.Equal(t, adg.Variant_BMBPT, cfg.Variant())
	require.Equal(t, 3, cfg.MaxObservableRank())
	require.Equal(t, 6, cfg.OperatorDegreeBound())
	require.Equal(t, 6, cfg.DegMax())
	require.True(t, cfg.AllowedDegree(6))
	require.False(t, cfg.AllowedDegree(3))
	require.True(t, cfg.VertexDegreeOK(0, 0))
	require.False(t, cfg.VertexDegreeOK(1, 0))
	require.Equal(t, "BMBPT-o3-3N-r3", cfg.Key())

	cfg, err = adg.NewTheoryConfig(adg.ConfigOpts{Order: 2, Theory: adg.Theory_PBMBPT, NormKernel: true, TrackPermutations: true})
	require.NoError(t, err)
	require.Equal(t, adg.Variant_PBMBPTNorm, cfg.Variant())
	require.False(t, cfg.HasOperatorVertex())
	require.True(t, cfg.Variant().TracksAnomalous())
	require.Equal(t, 4, cfg.DegMax())
	require.False(t, cfg.VertexDegreeOK(0, 0))
	require.Equal(t, "PBMBPT-o2-norm-perms", cfg.Key())

	again, err := adg.NewTheoryConfig(cfg.Opts())
	require.NoError(t, err)
	require.Equal(t, cfg, again)
}

func TestCanonicalOnly(t *testing.T) {
	cfg, err := adg.NewTheoryConfig(adg.ConfigOpts{Order: 3, Theory: adg.Theory_BMBPT, CanonicalOnly: true})
	require.NoError(t, err)
	require.True(t, cfg.CanonicalOnly())
	require.Equal(t, "BMBPT-o3-r2-canon", cfg.Key())

	// The operator vertex keeps its own bound; interaction vertices lose degree 2.
	require.True(t, cfg.VertexDegreeOK(0, 2))
	require.False(t, cfg.VertexDegreeOK(1, 2))
	require.True(t, cfg.VertexDegreeOK(1, 4))

	norm, err := adg.NewTheoryConfig(adg.ConfigOpts{Order: 2, Theory: adg.Theory_BMBPT, NormKernel: true, CanonicalOnly: true})
	require.NoError(t, err)
	require.False(t, norm.VertexDegreeOK(0, 2))

	again, err := adg.NewTheoryConfig(cfg.Opts())
	require.NoError(t, err)
	require.Equal(t, cfg, again)
}

func TestNewTheoryConfigRejects(t *testing.T) {
	tests := []struct {
		name string
		opts adg.ConfigOpts
		want error
	}{
		{"order-0", adg.ConfigOpts{Order: 0, Theory: adg.Theory_MBPT}, adg.ErrBadOrder},
		{"order-too-big", adg.ConfigOpts{Order: adg.MaxOrder + 1, Theory: adg.Theory_BMBPT}, adg.ErrBadOrder},
		{"no-theory", adg.ConfigOpts{Order: 2}, adg.ErrBadTheory},
		{"bad-rank", adg.ConfigOpts{Order: 2, Theory: adg.Theory_BMBPT, MaxObservableRank: 4}, adg.ErrBadConfig},
		{"mbpt-3n", adg.ConfigOpts{Order: 2, Theory: adg.Theory_MBPT, ThreeBody: true}, adg.ErrUnsupportedVariant},
		{"mbpt-norm", adg.ConfigOpts{Order: 2, Theory: adg.Theory_MBPT, NormKernel: true}, adg.ErrUnsupportedVariant},
		{"mbpt-canonical", adg.ConfigOpts{Order: 2, Theory: adg.Theory_MBPT, CanonicalOnly: true}, adg.ErrUnsupportedVariant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := adg.NewTheoryConfig(tt.opts)
			require.ErrorIs(t, err, tt.want)
		})
	}

	var zero adg.TheoryConfig
	require.False(t, zero.IsValid())
}

func TestParseTheory(t *testing.T) {
	th, err := adg.ParseTheory(" pbmbpt ")
	require.NoError(t, err)
	require.Equal(t, adg.Theory_PBMBPT, th)

	_, err = adg.ParseTheory("CCSD")
	require.ErrorIs(t, err, adg.ErrBadTheory)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	pathname := filepath.Join(dir, "bmbpt.yaml")
	require.NoError(t, os.WriteFile(pathname, []byte("order: 4\ntheory: BMBPT\nnorm_kernel: true\n"), 0o644))
	cfg, err := adg.LoadConfig(pathname)
	require.NoError(t, err)
	require.Equal(t, 4, cfg.Order())
	require.Equal(t, adg.Variant_BMBPTNorm, cfg.Variant())

	// File values override defaults, absent keys keep them.
	opts, err := adg.LoadConfigOpts(pathname, adg.ConfigOpts{Order: 2, TrackPermutations: true})
	require.NoError(t, err)
	require.Equal(t, 4, opts.Order)
	require.True(t, opts.TrackPermutations)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("order: 2\ntheory: CCSD\n"), 0o644))
	_, err = adg.LoadConfig(bad)
	require.ErrorIs(t, err, adg.ErrBadTheory)

	_, err = adg.LoadConfig(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	out, err := yaml.Marshal(cfg.Opts())
	require.NoError(t, err)
	require.Contains(t, string(out), "theory: BMBPT")
}

func TestCounts(t *testing.T) {
	var counts adg.Counts
	counts[adg.Category_2N_CanonicalEnergy] = 2
	counts[adg.Category_2N_NonCanonical] = 3
	counts[adg.Category_3N_CanonicalOperator] = 4
	require.Equal(t, 9, counts.Total())
	require.Equal(t, 5, counts.TwoBody())
	require.Equal(t, 4, counts.ThreeBody())
	require.True(t, adg.Category_3N_NonCanonical.IsThreeBody())
	require.False(t, adg.Category_MBPT.IsThreeBody())
}
