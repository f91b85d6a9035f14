// File path: internal/diagnosis/forest.go
package diagnosis

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// TreeNode is one node of a fitted decision tree. Fields are exported for gob
// serialization of the trained artifact.
type TreeNode struct {
	Leaf      bool
	Label     int
	Feature   int
	Threshold float64
	Left      *TreeNode
	Right     *TreeNode
}

// Forest is a fitted random-forest classifier over (age, gender, multi-hot
// symptom) feature vectors. A Forest is immutable after training and safe for
// concurrent prediction.
type Forest struct {
	Trees    []*TreeNode
	Labels   []string
	Features int
}

type forestParams struct {
	maxDepth int
	minSplit int
	mtry     int
}

// trainForest fits the given number of CART trees on bootstrap samples of the
// rows of X, drawing sqrt(features) candidate features per split. All
// randomness flows through rng so a fixed seed reproduces the model.
func trainForest(X *mat.Dense, y []int, labels []string, trees int, rng *rand.Rand) *Forest {
	rows, cols := X.Dims()
	mtry := int(math.Sqrt(float64(cols)))
	if mtry < 1 {
		mtry = 1
	}
	params := forestParams{maxDepth: 16, minSplit: 2, mtry: mtry}
	forest := &Forest{Labels: labels, Features: cols, Trees: make([]*TreeNode, 0, trees)}
	for t := 0; t < trees; t++ {
		sample := make([]int, rows)
		for i := range sample {
			sample[i] = rng.Intn(rows)
		}
		forest.Trees = append(forest.Trees, growTree(X, y, sample, len(labels), params, rng, 0))
	}
	return forest
}

func growTree(X *mat.Dense, y []int, idx []int, classes int, p forestParams, rng *rand.Rand, depth int) *TreeNode {
	counts := classCounts(y, idx, classes)
	if depth >= p.maxDepth || len(idx) < p.minSplit || isPure(counts) {
		return &TreeNode{Leaf: true, Label: argmax(counts)}
	}
	feature, threshold, ok := bestSplit(X, y, idx, classes, p.mtry, rng)
	if !ok {
		return &TreeNode{Leaf: true, Label: argmax(counts)}
	}
	var left, right []int
	for _, i := range idx {
		if X.At(i, feature) <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &TreeNode{Leaf: true, Label: argmax(counts)}
	}
	return &TreeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      growTree(X, y, left, classes, p, rng, depth+1),
		Right:     growTree(X, y, right, classes, p, rng, depth+1),
	}
}

// bestSplit searches a random feature subset for the threshold minimizing the
// weighted Gini impurity of the split.
func bestSplit(X *mat.Dense, y []int, idx []int, classes, mtry int, rng *rand.Rand) (int, float64, bool) {
	_, cols := X.Dims()
	features := rng.Perm(cols)
	if mtry < len(features) {
		features = features[:mtry]
	}

	bestFeature, bestThreshold := -1, 0.0
	bestScore := math.Inf(1)
	for _, f := range features {
		values := make([]float64, 0, len(idx))
		for _, i := range idx {
			values = append(values, X.At(i, f))
		}
		sort.Float64s(values)
		for k := 0; k+1 < len(values); k++ {
			if values[k] == values[k+1] {
				continue
			}
			threshold := (values[k] + values[k+1]) / 2
			score, ok := splitScore(X, y, idx, classes, f, threshold)
			if ok && score < bestScore {
				bestScore = score
				bestFeature = f
				bestThreshold = threshold
			}
		}
	}
	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

func splitScore(X *mat.Dense, y []int, idx []int, classes, feature int, threshold float64) (float64, bool) {
	leftCounts := make([]int, classes)
	rightCounts := make([]int, classes)
	nLeft, nRight := 0, 0
	for _, i := range idx {
		if X.At(i, feature) <= threshold {
			leftCounts[y[i]]++
			nLeft++
		} else {
			rightCounts[y[i]]++
			nRight++
		}
	}
	if nLeft == 0 || nRight == 0 {
		return 0, false
	}
	total := float64(nLeft + nRight)
	score := float64(nLeft)/total*gini(leftCounts, nLeft) + float64(nRight)/total*gini(rightCounts, nRight)
	return score, true
}

func gini(counts []int, n int) float64 {
	impurity := 1.0
	for _, c := range counts {
		p := float64(c) / float64(n)
		impurity -= p * p
	}
	return impurity
}

func classCounts(y []int, idx []int, classes int) []int {
	counts := make([]int, classes)
	for _, i := range idx {
		counts[y[i]]++
	}
	return counts
}

func isPure(counts []int) bool {
	nonzero := 0
	for _, c := range counts {
		if c > 0 {
			nonzero++
		}
	}
	return nonzero <= 1
}

// argmax breaks ties toward the lower index so predictions are deterministic.
func argmax(counts []int) int {
	best, bestCount := 0, -1
	for i, c := range counts {
		if c > bestCount {
			best, bestCount = i, c
		}
	}
	return best
}

// Predict runs the feature vector through every tree and returns the index of
// the majority-vote label.
func (f *Forest) Predict(features []float64) int {
	votes := make([]int, len(f.Labels))
	for _, root := range f.Trees {
		node := root
		for !node.Leaf {
			if features[node.Feature] <= node.Threshold {
				node = node.Left
			} else {
				node = node.Right
			}
		}
		votes[node.Label]++
	}
	return argmax(votes)
}
