package classifier

import "fmt"

// Params is one hyperparameter combination handed to a factory
type Params map[string]float64

// Get returns a parameter value or an error naming the missing key
func (p Params) Get(key string) (float64, error) {
	v, ok := p[key]
	if !ok {
		return 0, fmt.Errorf("missing hyperparameter %q", key)
	}
	return v, nil
}

// Classifier is an opaque fit/predict capability over a binary-labeled
// feature matrix. Implementations must not mutate the matrices they are
// given; training data may be shared across concurrent classifiers.
type Classifier interface {
	Fit(X [][]float64, y []int) error
	Predict(X [][]float64) ([]int, error)
}

// Factory builds a fresh classifier for one hyperparameter combination.
// Each grid-search worker calls the factory independently, so factories
// must not retain shared mutable state.
type Factory func(params Params) (Classifier, error)
