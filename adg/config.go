package adg

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ConfigOpts is the mutable, serializable form of a TheoryConfig.
type ConfigOpts struct {
	Order             int    `yaml:"order"               validate:"gte=1,lte=8"`
	Theory            Theory `yaml:"theory"              validate:"gte=1,lte=3"`
	ThreeBody         bool   `yaml:"three_body"`
	NormKernel        bool   `yaml:"norm_kernel"`
	MaxObservableRank int    `yaml:"max_observable_rank" validate:"gte=0,lte=3"`
	TrackPermutations bool   `yaml:"track_permutations"`
	CanonicalOnly     bool   `yaml:"canonical_only"`
}

var configValidate = validator.New()

// NewTheoryConfig validates opts and issues the corresponding immutable TheoryConfig.
//
// Invalid orders wrap ErrBadOrder, unknown theories wrap ErrBadTheory, and options
// the chosen theory does not support wrap ErrUnsupportedVariant.
func NewTheoryConfig(opts ConfigOpts) (TheoryConfig, error) {
	if err := configValidate.Struct(opts); err != nil {
		return TheoryConfig{}, translateValidation(err)
	}

	if opts.Theory == Theory_MBPT {
		if opts.ThreeBody {
			return TheoryConfig{}, errors.Wrap(ErrUnsupportedVariant, "three-body vertices require BMBPT or PBMBPT")
		}
		if opts.NormKernel {
			return TheoryConfig{}, errors.Wrap(ErrUnsupportedVariant, "norm kernel requires BMBPT or PBMBPT")
		}
		if opts.CanonicalOnly {
			return TheoryConfig{}, errors.Wrap(ErrUnsupportedVariant, "canonical-only generation requires BMBPT or PBMBPT")
		}
	}

	rank := opts.MaxObservableRank
	if rank == 0 {
		rank = 2
		if opts.ThreeBody {
			rank = 3
		}
	}
	cfg := TheoryConfig{
		order:      opts.Order,
		theory:     opts.Theory,
		threeBody:  opts.ThreeBody,
		norm:       opts.NormKernel,
		maxObsRank: rank,
		trackPerms: opts.TrackPermutations,
		canonical:  opts.CanonicalOnly,
	}
	return cfg, nil
}

func translateValidation(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return errors.Wrap(ErrBadConfig, err.Error())
	}
	fe := verrs[0]
	switch fe.Field() {
	case "Order":
		return errors.Wrapf(ErrBadOrder, "order %v must be in 1..%d", fe.Value(), MaxOrder)
	case "Theory":
		return errors.Wrapf(ErrBadTheory, "theory %v", fe.Value())
	}
	return errors.Wrapf(ErrBadConfig, "%s fails %q", fe.Field(), fe.Tag())
}

// LoadConfigOpts reads ConfigOpts from a YAML file, starting from the given defaults.
func LoadConfigOpts(pathname string, defaults ConfigOpts) (ConfigOpts, error) {
	buf, err := os.ReadFile(pathname)
	if err != nil {
		return defaults, errors.Wrap(err, "reading config")
	}
	opts := defaults
	if err = yaml.Unmarshal(buf, &opts); err != nil {
		if errors.Is(err, ErrBadTheory) {
			return defaults, err
		}
		return defaults, errors.Wrapf(ErrBadConfig, "%s: %v", pathname, err)
	}
	return opts, nil
}

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(pathname string) (TheoryConfig, error) {
	opts, err := LoadConfigOpts(pathname, ConfigOpts{})
	if err != nil {
		return TheoryConfig{}, err
	}
	return NewTheoryConfig(opts)
}

func (th Theory) MarshalYAML() (interface{}, error) {
	return th.String(), nil
}

func (th *Theory) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	parsed, err := ParseTheory(name)
	if err != nil {
		return err
	}
	*th = parsed
	return nil
}
