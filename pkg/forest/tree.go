package forest

import (
	"math/rand"
	"sort"
)

const impurityEps = 1e-7

// Node is one node of a fitted decision tree. Internal nodes route a sample
// left when x[SplitVar] <= SplitVal; leaves carry the class distribution of
// the training samples that reached them.
type Node struct {
	Leaf     bool
	SplitVar int
	SplitVal float64
	Left     *Node
	Right    *Node
	Probs    []float64
}

// Tree is a CART-style classification tree. All state is exported for gob.
type Tree struct {
	Root *Node
}

type treeParams struct {
	maxDepth    int // 0 = unbounded
	minSplit    int
	minLeaf     int
	maxFeatures int
	nClasses    int
	classWeight []float64 // per-class sample weight, len nClasses
}

func fitTree(X [][]float64, y []int, inx []int, p treeParams, rng *rand.Rand) *Tree {
	b := &treeBuilder{X: X, y: y, p: p, rng: rng}
	return &Tree{Root: b.build(inx, 0)}
}

// PredictProba routes one feature vector to a leaf and returns its class
// distribution.
func (t *Tree) PredictProba(x []float64) []float64 {
	n := t.Root
	for !n.Leaf {
		if x[n.SplitVar] <= n.SplitVal {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Probs
}

type treeBuilder struct {
	X   [][]float64
	y   []int
	p   treeParams
	rng *rand.Rand
}

func (b *treeBuilder) build(inx []int, depth int) *Node {
	counts := make([]float64, b.p.nClasses)
	var total float64
	for _, i := range inx {
		w := b.p.classWeight[b.y[i]]
		counts[b.y[i]] += w
		total += w
	}

	probs := make([]float64, b.p.nClasses)
	for c := range counts {
		probs[c] = counts[c] / total
	}

	if len(inx) < b.p.minSplit ||
		len(inx) < 2*b.p.minLeaf ||
		(b.p.maxDepth > 0 && depth >= b.p.maxDepth) ||
		gini(counts, total) <= impurityEps {
		return &Node{Leaf: true, Probs: probs}
	}

	feat, threshold, ok := b.bestSplit(inx, counts, total)
	if !ok {
		return &Node{Leaf: true, Probs: probs}
	}

	var left, right []int
	for _, i := range inx {
		if b.X[i][feat] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	return &Node{
		SplitVar: feat,
		SplitVal: threshold,
		Left:     b.build(left, depth+1),
		Right:    b.build(right, depth+1),
	}
}

// bestSplit searches a random subset of features for the threshold with the
// largest weighted gini decrease, honoring the minLeaf constraint.
func (b *treeBuilder) bestSplit(inx []int, counts []float64, total float64) (int, float64, bool) {
	nFeatures := len(b.X[inx[0]])
	parent := gini(counts, total)

	features := make([]int, nFeatures)
	for i := range features {
		features[i] = i
	}
	b.rng.Shuffle(len(features), func(i, j int) {
		features[i], features[j] = features[j], features[i]
	})
	if b.p.maxFeatures > 0 && b.p.maxFeatures < nFeatures {
		features = features[:b.p.maxFeatures]
	}

	var (
		bestGain float64
		bestFeat int
		bestVal  float64
		found    bool
	)

	sorted := make([]int, len(inx))
	ctL := make([]float64, b.p.nClasses)

	for _, f := range features {
		copy(sorted, inx)
		sort.Slice(sorted, func(i, j int) bool {
			return b.X[sorted[i]][f] < b.X[sorted[j]][f]
		})

		for c := range ctL {
			ctL[c] = 0
		}
		var wLeft float64
		for pos := 1; pos < len(sorted); pos++ {
			prev := sorted[pos-1]
			w := b.p.classWeight[b.y[prev]]
			ctL[b.y[prev]] += w
			wLeft += w

			xPrev := b.X[prev][f]
			xCur := b.X[sorted[pos]][f]
			if xCur <= xPrev+impurityEps {
				continue // identical values cannot be separated
			}
			if pos < b.p.minLeaf || len(sorted)-pos < b.p.minLeaf {
				continue
			}

			ctR := make([]float64, b.p.nClasses)
			for c := range ctR {
				ctR[c] = counts[c] - ctL[c]
			}
			wRight := total - wLeft

			gain := parent -
				(wLeft/total)*gini(ctL, wLeft) -
				(wRight/total)*gini(ctR, wRight)

			if gain > bestGain+impurityEps {
				bestGain = gain
				bestFeat = f
				bestVal = (xPrev + xCur) / 2
				found = true
			}
		}
	}

	return bestFeat, bestVal, found
}

// gini impurity over weighted class counts.
func gini(counts []float64, total float64) float64 {
	if total <= 0 {
		return 0
	}
	g := 1.0
	for _, c := range counts {
		p := c / total
		g -= p * p
	}
	return g
}
