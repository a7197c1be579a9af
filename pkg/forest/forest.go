// Package forest implements a bagging ensemble of CART decision trees for
// binary and multi-class classification over dense numeric feature vectors.
// Each tree trains on a bootstrap resample of the rows and considers a
// random feature subset per split; the ensemble probability is the average
// of the per-tree leaf distributions. Training is deterministic for a fixed
// seed and training-set order.
package forest

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"golang.org/x/sync/errgroup"
)

// ErrEmptyTrainingSet is returned by Fit when no rows are provided.
var ErrEmptyTrainingSet = errors.New("empty training set")

// Config holds the forest hyperparameters.
type Config struct {
	// NumTrees is the ensemble size. More trees reduce the variance of the
	// probability estimate at a linear cost in training and inference.
	NumTrees int
	// MaxDepth caps tree depth; 0 grows trees until leaves are pure or too
	// small. Capping trades interaction depth for overfit resistance on
	// small corpora.
	MaxDepth int
	// MinSplit is the minimum node size eligible for a split.
	MinSplit int
	// MinLeaf is the minimum sample count in each child of a split.
	MinLeaf int
	// MaxFeatures is the number of candidate features per split; 0 uses
	// the square root of the feature count.
	MaxFeatures int
	// Seed fixes bootstrap sampling and feature subsets. On small corpora
	// different seeds produce materially different models; that instability
	// is a property of small-sample ensembles, not something to tune away.
	Seed int64
}

// Classifier is a fitted random forest. All exported state serializes with
// gob; the value is read-only after Fit and safe for concurrent use.
type Classifier struct {
	Config       Config
	NumClasses   int
	NumFeatures  int
	ClassWeights []float64 // optional, set before Fit; nil = uniform
	Trees        []*Tree
}

// New returns an unfitted classifier with defaults applied.
func New(cfg Config) *Classifier {
	if cfg.NumTrees <= 0 {
		cfg.NumTrees = 100
	}
	if cfg.MinSplit < 2 {
		cfg.MinSplit = 2
	}
	if cfg.MinLeaf < 1 {
		cfg.MinLeaf = 1
	}
	return &Classifier{Config: cfg}
}

// Fit trains the ensemble on X and integer labels y (0..k-1).
func (c *Classifier) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return ErrEmptyTrainingSet
	}
	if len(X) != len(y) {
		return fmt.Errorf("rows/labels length mismatch: %d != %d", len(X), len(y))
	}

	n := len(X)
	c.NumFeatures = len(X[0])
	c.NumClasses = 2
	for _, label := range y {
		if label < 0 {
			return fmt.Errorf("negative class label: %d", label)
		}
		if label+1 > c.NumClasses {
			c.NumClasses = label + 1
		}
	}

	weights := c.ClassWeights
	if weights == nil {
		weights = make([]float64, c.NumClasses)
		for i := range weights {
			weights[i] = 1
		}
	} else if len(weights) != c.NumClasses {
		return fmt.Errorf("class weights length mismatch: %d != %d", len(weights), c.NumClasses)
	}

	maxFeatures := c.Config.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = int(math.Sqrt(float64(c.NumFeatures)))
		if maxFeatures < 1 {
			maxFeatures = 1
		}
	}

	params := treeParams{
		maxDepth:    c.Config.MaxDepth,
		minSplit:    c.Config.MinSplit,
		minLeaf:     c.Config.MinLeaf,
		maxFeatures: maxFeatures,
		nClasses:    c.NumClasses,
		classWeight: weights,
	}

	c.Trees = make([]*Tree, c.Config.NumTrees)

	// Each tree gets its own seeded source so parallel training stays
	// reproducible regardless of scheduling.
	g := new(errgroup.Group)
	for i := range c.Trees {
		g.Go(func() error {
			rng := rand.New(rand.NewSource(c.Config.Seed + int64(i)))
			inx := make([]int, n)
			for j := range inx {
				inx[j] = rng.Intn(n)
			}
			c.Trees[i] = fitTree(X, y, inx, params, rng)
			return nil
		})
	}
	return g.Wait()
}

// PredictProba returns the per-class probability for one feature vector.
// The values are non-negative and sum to 1.
func (c *Classifier) PredictProba(x []float64) ([]float64, error) {
	if len(c.Trees) == 0 {
		return nil, errors.New("classifier not fitted")
	}
	if len(x) != c.NumFeatures {
		return nil, fmt.Errorf("feature vector length mismatch: %d != %d", len(x), c.NumFeatures)
	}

	probs := make([]float64, c.NumClasses)
	for _, t := range c.Trees {
		for class, p := range t.PredictProba(x) {
			probs[class] += p
		}
	}
	for class := range probs {
		probs[class] /= float64(len(c.Trees))
	}
	return probs, nil
}

// Predict returns the most probable class for one feature vector.
func (c *Classifier) Predict(x []float64) (int, error) {
	probs, err := c.PredictProba(x)
	if err != nil {
		return 0, err
	}
	best := 0
	for class, p := range probs {
		if p > probs[best] {
			best = class
		}
	}
	return best, nil
}
