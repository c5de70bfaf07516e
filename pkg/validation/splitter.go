package validation

import (
	"fmt"

	"github.com/tradeforge/etf-direction/internal/dataset"
	pipeerrors "github.com/tradeforge/etf-direction/internal/errors"
)

// SplitByFraction splits the dataset at index floor((1-testFraction)*N):
// rows before the boundary form the train partition, rows at and after it
// form the test partition, both in original temporal order. Shuffling is
// forbidden; the train partition always strictly precedes the test
// partition in time.
func SplitByFraction(ds *dataset.Dataset, testFraction float64) (train, test *dataset.Dataset, err error) {
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, pipeerrors.NewValidationError("validation", "split",
			fmt.Sprintf("test fraction must be in (0,1), got %v", testFraction))
	}

	n := ds.Len()
	boundary := int(float64(n) * (1 - testFraction))
	if boundary < 1 || boundary >= n {
		return nil, nil, pipeerrors.NewInsufficientDataError("validation", "split",
			fmt.Sprintf("%d records cannot be split with test fraction %v", n, testFraction))
	}

	return ds.Slice(0, boundary), ds.Slice(boundary, n), nil
}

// Range is a half-open row interval [Start, End)
type Range struct {
	Start int
	End   int
}

// Len returns the number of rows in the range
func (r Range) Len() int {
	return r.End - r.Start
}

// Fold is one walk-forward step: an expanding training range followed by a
// strictly later validation range.
type Fold struct {
	Number     int
	Train      Range
	Validation Range
}

// ExpandingFolds partitions n rows into k ordered slices along time and
// pairs each slice with the concatenation of all prior slices as training
// data. The first slice has nothing before it and produces no fold, so k
// slices yield k-1 folds. Later folds always train on strictly more history
// and validate on a strictly later, non-overlapping segment; a conventional
// shuffled K-fold would let a model validate on the past using folds built
// from its future.
func ExpandingFolds(n, k int) ([]Fold, error) {
	if k < 2 {
		return nil, pipeerrors.NewValidationError("validation", "folds",
			fmt.Sprintf("walk-forward requires at least 2 folds, got %d", k))
	}
	if n < k {
		return nil, pipeerrors.NewInsufficientDataError("validation", "folds",
			fmt.Sprintf("%d records cannot form %d folds", n, k))
	}

	folds := make([]Fold, 0, k-1)
	for j := 1; j < k; j++ {
		start := j * n / k
		end := (j + 1) * n / k
		folds = append(folds, Fold{
			Number:     j,
			Train:      Range{Start: 0, End: start},
			Validation: Range{Start: start, End: end},
		})
	}
	return folds, nil
}
