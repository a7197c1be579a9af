package train

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Balance strategies. Exactly one is active per training run and the choice
// is recorded in the persisted artifact.
const (
	// BalanceOversample resamples the minority class (with replacement,
	// seeded) until both classes are equally represented.
	BalanceOversample = "oversample"
	// BalanceClassWeight leaves the rows untouched and weights each tree's
	// impurity objective inversely to class frequency.
	BalanceClassWeight = "class-weight"
)

// Profile names the complete hyperparameter choice of one training variant.
type Profile struct {
	Name        string `yaml:"name" json:"name"`
	Trees       int    `yaml:"trees" json:"trees"`
	MaxDepth    int    `yaml:"max_depth" json:"max_depth"`
	MinLeaf     int    `yaml:"min_leaf" json:"min_leaf"`
	MinSplit    int    `yaml:"min_split" json:"min_split"`
	Balance     string `yaml:"balance" json:"balance"`
	MaxFeatures int    `yaml:"max_features,omitempty" json:"max_features,omitempty"`
}

// The two supported variants. "oversample" grows unconstrained trees on a
// rebalanced corpus; "weighted" caps depth and leaf size and corrects the
// imbalance in the objective instead.
var profiles = map[string]Profile{
	"oversample": {
		Name:     "oversample",
		Trees:    200,
		MaxDepth: 0,
		MinLeaf:  1,
		MinSplit: 2,
		Balance:  BalanceOversample,
	},
	"weighted": {
		Name:     "weighted",
		Trees:    300,
		MaxDepth: 6,
		MinLeaf:  3,
		MinSplit: 2,
		Balance:  BalanceClassWeight,
	},
}

// ProfileNames lists the built-in profile names.
var ProfileNames = []string{"oversample", "weighted"}

// ProfileByName returns a built-in training profile.
func ProfileByName(name string) (Profile, error) {
	p, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown training profile: %q (supported: %v)", name, ProfileNames)
	}
	return p, nil
}

// LoadProfile reads a training profile from a YAML file.
func LoadProfile(path string) (Profile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("reading profile file: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(b, &p); err != nil {
		return Profile{}, fmt.Errorf("parsing profile file %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, fmt.Errorf("invalid profile in %s: %w", path, err)
	}
	return p, nil
}

// Validate checks the profile for values the trainer cannot work with.
func (p Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile name required")
	}
	if p.Trees < 1 {
		return fmt.Errorf("trees must be positive, got %d", p.Trees)
	}
	if p.Balance != BalanceOversample && p.Balance != BalanceClassWeight {
		return fmt.Errorf("balance must be %q or %q, got %q", BalanceOversample, BalanceClassWeight, p.Balance)
	}
	return nil
}
