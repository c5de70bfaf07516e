package classifier

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// KNN is a k-nearest-neighbors classifier over Euclidean distance.
// Prediction is a majority vote over the k closest training rows; a split
// vote resolves to the lower label so repeated runs agree exactly.
type KNN struct {
	k      int
	trainX [][]float64
	trainY []int
}

// NewKNN creates a k-NN classifier with the given neighbor count
func NewKNN(k int) *KNN {
	return &KNN{k: k}
}

// KNNFactory builds KNN classifiers from a hyperparameter combination
// carrying "k"
func KNNFactory(params Params) (Classifier, error) {
	k, err := params.Get("k")
	if err != nil {
		return nil, err
	}
	if k < 1 {
		return nil, fmt.Errorf("k must be >= 1, got %v", k)
	}
	return NewKNN(int(k)), nil
}

// Fit stores the training matrix. The data is held by reference and never
// written to.
func (c *KNN) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return errors.New("knn requires a non-empty training set")
	}
	if len(X) != len(y) {
		return fmt.Errorf("feature matrix has %d rows but label vector has %d", len(X), len(y))
	}
	if c.k < 1 {
		return errors.New("knn neighbor count must be >= 1")
	}
	c.trainX = X
	c.trainY = y
	return nil
}

// Predict labels each row by majority vote over its nearest neighbors.
// Distance ties keep the earlier training row, so the output is fully
// deterministic.
func (c *KNN) Predict(X [][]float64) ([]int, error) {
	if c.trainX == nil {
		return nil, errors.New("knn predict called before fit")
	}

	out := make([]int, len(X))
	for i, row := range X {
		if len(row) != len(c.trainX[0]) {
			return nil, fmt.Errorf("row %d has %d features, trained on %d", i, len(row), len(c.trainX[0]))
		}
		out[i] = c.predictOne(row)
	}
	return out, nil
}

type neighbor struct {
	dist  float64
	index int
}

func (c *KNN) predictOne(row []float64) int {
	neighbors := make([]neighbor, len(c.trainX))
	for j, train := range c.trainX {
		neighbors[j] = neighbor{dist: squaredDistance(row, train), index: j}
	}

	sort.Slice(neighbors, func(a, b int) bool {
		if neighbors[a].dist != neighbors[b].dist {
			return neighbors[a].dist < neighbors[b].dist
		}
		return neighbors[a].index < neighbors[b].index
	})

	k := c.k
	if k > len(neighbors) {
		k = len(neighbors)
	}

	votes := 0
	for _, n := range neighbors[:k] {
		if c.trainY[n.index] == 1 {
			votes++
		}
	}

	// Split vote resolves to the lower label
	if votes*2 > k {
		return 1
	}
	return 0
}

func squaredDistance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	if math.IsNaN(sum) {
		return math.Inf(1)
	}
	return sum
}
