package train

import (
	"fmt"
	"math/rand"

	"github.com/airhealthproject/airctl/pkg/forest"
)

// CVReport summarizes a stratified k-fold evaluation. Accuracy is the mean
// of per-fold accuracies; precision, recall and F1 are computed over the
// pooled out-of-fold predictions with label 1 as the positive class.
type CVReport struct {
	Folds     int     `json:"folds" yaml:"folds"`
	Accuracy  float64 `json:"accuracy" yaml:"accuracy"`
	Precision float64 `json:"precision" yaml:"precision"`
	Recall    float64 `json:"recall" yaml:"recall"`
	F1        float64 `json:"f1" yaml:"f1"`
}

// CrossValidate evaluates a profile on the unbalanced corpus with seeded
// stratified k-fold splits. Each training split is balanced per the profile
// before fitting, test splits are never resampled. When a class has fewer
// rows than the requested fold count the fold count shrinks to match; with
// fewer than two rows in a class the evaluation is skipped and a zero-fold
// report is returned.
func CrossValidate(X [][]float64, y []int, p Profile, seed int64, folds int) (CVReport, error) {
	if len(X) != len(y) {
		return CVReport{}, fmt.Errorf("rows/labels length mismatch: %d != %d", len(X), len(y))
	}
	if folds < 2 {
		return CVReport{}, fmt.Errorf("fold count must be at least 2, got %d", folds)
	}

	byClass := map[int][]int{}
	for i, label := range y {
		byClass[label] = append(byClass[label], i)
	}
	if len(byClass) < 2 {
		return CVReport{Folds: 0}, nil
	}
	for _, members := range byClass {
		if len(members) < folds {
			folds = len(members)
		}
	}
	if folds < 2 {
		return CVReport{Folds: 0}, nil
	}

	// Stratified assignment: shuffle within each class, deal round-robin.
	rng := rand.New(rand.NewSource(seed))
	foldOf := make([]int, len(y))
	for _, members := range sortedClasses(byClass) {
		rng.Shuffle(len(members), func(i, j int) {
			members[i], members[j] = members[j], members[i]
		})
		for pos, i := range members {
			foldOf[i] = pos % folds
		}
	}

	var (
		accSum                 float64
		pooledTrue, pooledPred []int
	)

	for fold := 0; fold < folds; fold++ {
		var trainX, testX [][]float64
		var trainY, testY []int
		for i := range y {
			if foldOf[i] == fold {
				testX = append(testX, X[i])
				testY = append(testY, y[i])
			} else {
				trainX = append(trainX, X[i])
				trainY = append(trainY, y[i])
			}
		}

		clf, err := fitProfile(trainX, trainY, p, seed+int64(fold))
		if err != nil {
			return CVReport{}, fmt.Errorf("fitting fold %d: %w", fold, err)
		}

		foldPred := make([]int, len(testX))
		for i, x := range testX {
			pred, err := clf.Predict(x)
			if err != nil {
				return CVReport{}, fmt.Errorf("predicting fold %d: %w", fold, err)
			}
			foldPred[i] = pred
		}

		accSum += Accuracy(testY, foldPred)
		pooledTrue = append(pooledTrue, testY...)
		pooledPred = append(pooledPred, foldPred...)
	}

	precision, recall, f1 := PrecisionRecallF1(pooledTrue, pooledPred)
	return CVReport{
		Folds:     folds,
		Accuracy:  accSum / float64(folds),
		Precision: precision,
		Recall:    recall,
		F1:        f1,
	}, nil
}

// fitProfile balances a training split per the profile and fits a forest.
func fitProfile(X [][]float64, y []int, p Profile, seed int64) (*forest.Classifier, error) {
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
		X, y = Oversample(X, y, rand.New(rand.NewSource(seed)))
	case BalanceClassWeight:
		clf.ClassWeights = ClassWeights(y, 2)
	}

	if err := clf.Fit(X, y); err != nil {
		return nil, err
	}
	return clf, nil
}

// sortedClasses returns the class index slices in ascending class order so
// fold assignment does not depend on map iteration.
func sortedClasses(byClass map[int][]int) [][]int {
	max := -1
	for class := range byClass {
		if class > max {
			max = class
		}
	}
	out := make([][]int, 0, len(byClass))
	for class := 0; class <= max; class++ {
		if members, ok := byClass[class]; ok {
			out = append(out, members)
		}
	}
	return out
}
