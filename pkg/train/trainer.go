// Package train turns the raw survey corpus into a fitted risk classifier:
// it fits the categorical encoders, corrects the class imbalance per the
// selected profile, trains the forest, and reports honest cross-validated
// metrics for the configured seed.
package train

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/airhealthproject/airctl/pkg/encode"
	"github.com/airhealthproject/airctl/pkg/forest"
	"github.com/airhealthproject/airctl/pkg/survey"
)

// ErrNoSamples is returned when the corpus has no rows to train on.
var ErrNoSamples = errors.New("no training samples")

const cvFolds = 5

// Sample is one labeled training row: the raw feature answers keyed by
// column name and the raw target answer.
type Sample struct {
	Answers map[string]string
	Target  string
}

// Result is the output of one training run.
type Result struct {
	Registry *encode.Registry
	Model    *forest.Classifier
	Profile  Profile
	Seed     int64

	Rows         int      `json:"rows"`
	Positives    int      `json:"positives"`
	Negatives    int      `json:"negatives"`
	BalancedRows int      `json:"balanced_rows"`
	CV           CVReport `json:"cross_validation"`
}

// Train fits encoders and classifier on the corpus with the given profile
// and seed. The returned model and registry come from the same run and must
// only ever be persisted and loaded together.
func Train(samples []Sample, p Profile, seed int64) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}

	columns := make(map[string][]string, len(survey.Features))
	for _, f := range survey.Features {
		col := make([]string, len(samples))
		for i, s := range samples {
			col[i] = s.Answers[f]
		}
		columns[f] = col
	}

	registry, err := encode.FitRegistry(survey.Features, columns)
	if err != nil {
		return nil, err
	}

	X := make([][]float64, len(samples))
	y := make([]int, len(samples))
	positives := 0
	for i, s := range samples {
		vec, missing := registry.Vector(s.Answers)
		if len(missing) > 0 {
			return nil, fmt.Errorf("sample %d missing features: %v", i, missing)
		}
		X[i] = vec
		if s.Target == survey.PositiveLabel {
			y[i] = 1
			positives++
		}
	}

	cv, err := CrossValidate(X, y, p, seed, cvFolds)
	if err != nil {
		return nil, fmt.Errorf("cross-validation: %w", err)
	}

	trainX, trainY := X, y
	clf := forest.New(forest.Config{
		NumTrees:    p.Trees,
		MaxDepth:    p.MaxDepth,
		MinSplit:    p.MinSplit,
		MinLeaf:     p.MinLeaf,
		MaxFeatures: p.MaxFeatures,
		Seed:        seed,
	})

	switch p.Balance {
	case BalanceOversample:
		trainX, trainY = Oversample(X, y, rand.New(rand.NewSource(seed)))
	case BalanceClassWeight:
		clf.ClassWeights = ClassWeights(y, 2)
	}

	if err := clf.Fit(trainX, trainY); err != nil {
		return nil, fmt.Errorf("fitting classifier: %w", err)
	}

	return &Result{
		Registry:     registry,
		Model:        clf,
		Profile:      p,
		Seed:         seed,
		Rows:         len(samples),
		Positives:    positives,
		Negatives:    len(samples) - positives,
		BalancedRows: len(trainX),
		CV:           cv,
	}, nil
}
