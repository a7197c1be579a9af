package forest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// separable returns a trivially separable two-class training set.
func separable() ([][]float64, []int) {
	X := [][]float64{
		{0, 0}, {0, 1}, {0, 0}, {0, 1}, {0, 0},
		{5, 0}, {5, 1}, {5, 0}, {5, 1}, {5, 0},
	}
	y := []int{0, 0, 0, 0, 0, 1, 1, 1, 1, 1}
	return X, y
}

func TestFitEmpty(t *testing.T) {
	clf := New(Config{Seed: 1})
	err := clf.Fit(nil, nil)
	assert.ErrorIs(t, err, ErrEmptyTrainingSet)
}

func TestFitLengthMismatch(t *testing.T) {
	clf := New(Config{Seed: 1})
	err := clf.Fit([][]float64{{1}}, []int{0, 1})
	assert.Error(t, err)
}

func TestPredictSeparable(t *testing.T) {
	X, y := separable()
	clf := New(Config{NumTrees: 200, Seed: 7})
	require.NoError(t, clf.Fit(X, y))

	pred, err := clf.Predict([]float64{0, 0})
	require.NoError(t, err)
	assert.Equal(t, 0, pred)

	pred, err = clf.Predict([]float64{5, 1})
	require.NoError(t, err)
	assert.Equal(t, 1, pred)
}

func TestPredictProbaIsDistribution(t *testing.T) {
	X, y := separable()
	clf := New(Config{NumTrees: 150, Seed: 3})
	require.NoError(t, clf.Fit(X, y))

	for _, x := range [][]float64{{0, 0}, {5, 1}, {2.5, 0}, {99, 99}} {
		probs, err := clf.PredictProba(x)
		require.NoError(t, err)
		require.Len(t, probs, 2)

		sum := 0.0
		for _, p := range probs {
			assert.GreaterOrEqual(t, p, 0.0)
			assert.LessOrEqual(t, p, 1.0)
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}

func TestFitDeterministicForSeed(t *testing.T) {
	X, y := separable()

	first := New(Config{NumTrees: 50, Seed: 42})
	require.NoError(t, first.Fit(X, y))
	second := New(Config{NumTrees: 50, Seed: 42})
	require.NoError(t, second.Fit(X, y))

	for _, x := range [][]float64{{0, 0}, {5, 1}, {3, 0}} {
		p1, err := first.PredictProba(x)
		require.NoError(t, err)
		p2, err := second.PredictProba(x)
		require.NoError(t, err)
		assert.Equal(t, p1, p2)
	}
}

func TestPredictProbaVectorLengthMismatch(t *testing.T) {
	X, y := separable()
	clf := New(Config{NumTrees: 20, Seed: 1})
	require.NoError(t, clf.Fit(X, y))

	_, err := clf.PredictProba([]float64{1})
	assert.Error(t, err)
}

func TestPredictProbaUnfitted(t *testing.T) {
	clf := New(Config{})
	_, err := clf.PredictProba([]float64{1, 2})
	assert.Error(t, err)
}

func TestFitMultiClass(t *testing.T) {
	X := [][]float64{
		{0}, {0}, {0}, {3}, {3}, {3}, {6}, {6}, {6},
	}
	y := []int{0, 0, 0, 1, 1, 1, 2, 2, 2}

	clf := New(Config{NumTrees: 100, Seed: 11})
	require.NoError(t, clf.Fit(X, y))
	assert.Equal(t, 3, clf.NumClasses)

	probs, err := clf.PredictProba([]float64{6})
	require.NoError(t, err)
	require.Len(t, probs, 3)

	pred, err := clf.Predict([]float64{6})
	require.NoError(t, err)
	assert.Equal(t, 2, pred)
}

func TestFitClassWeightLengthMismatch(t *testing.T) {
	X, y := separable()
	clf := New(Config{NumTrees: 10, Seed: 1})
	clf.ClassWeights = []float64{1, 2, 3}
	assert.Error(t, clf.Fit(X, y))
}

func TestNewAppliesDefaults(t *testing.T) {
	clf := New(Config{})
	assert.Equal(t, 100, clf.Config.NumTrees)
	assert.Equal(t, 2, clf.Config.MinSplit)
	assert.Equal(t, 1, clf.Config.MinLeaf)
}
