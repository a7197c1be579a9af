package train

import "math/rand"

// Oversample equalizes class counts by resampling the minority class with
// replacement. The returned set starts with every majority-class row,
// verbatim and in input order, followed by the seeded minority resample;
// its total size is twice the majority count. Ties pick class 0 as the
// majority so the output is stable.
func Oversample(X [][]float64, y []int, rng *rand.Rand) ([][]float64, []int) {
	var count0, count1 int
	for _, label := range y {
		if label == 1 {
			count1++
		} else {
			count0++
		}
	}

	majority, minority := 0, 1
	if count1 > count0 {
		majority, minority = 1, 0
	}

	var majX, minX [][]float64
	for i, label := range y {
		if label == majority {
			majX = append(majX, X[i])
		} else {
			minX = append(minX, X[i])
		}
	}

	if len(minX) == 0 {
		return majX, repeat(majority, len(majX))
	}

	outX := make([][]float64, 0, 2*len(majX))
	outX = append(outX, majX...)
	for range majX {
		outX = append(outX, minX[rng.Intn(len(minX))])
	}

	outY := repeat(majority, len(majX))
	outY = append(outY, repeat(minority, len(majX))...)
	return outX, outY
}

// ClassWeights returns per-class weights inversely proportional to class
// frequency: n / (k * count(class)). Classes absent from y get weight 0.
func ClassWeights(y []int, nClasses int) []float64 {
	counts := make([]int, nClasses)
	for _, label := range y {
		counts[label]++
	}

	weights := make([]float64, nClasses)
	for class, count := range counts {
		if count > 0 {
			weights[class] = float64(len(y)) / (float64(nClasses) * float64(count))
		}
	}
	return weights
}

func repeat(v, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = v
	}
	return out
}
