package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradeforge/etf-direction/internal/dataset"
)

func syntheticDataset(n int) *dataset.Dataset {
	ds := &dataset.Dataset{FeatureNames: []string{"f"}}
	start := time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		ds.Dates = append(ds.Dates, start.AddDate(0, 0, i))
		ds.X = append(ds.X, []float64{float64(i)})
		ds.Y = append(ds.Y, i%2)
	}
	return ds
}

func TestSplitByFraction_TemporalInvariant(t *testing.T) {
	ds := syntheticDataset(100)

	for _, f := range []float64{0.1, 0.2, 0.25, 0.33, 0.5, 0.9} {
		train, test, err := SplitByFraction(ds, f)
		require.NoError(t, err, "fraction %v", f)

		assert.Equal(t, ds.Len(), train.Len()+test.Len())
		assert.Equal(t, int(float64(ds.Len())*(1-f)), train.Len())

		// Every train date strictly precedes every test date
		lastTrain := train.Dates[train.Len()-1]
		firstTest := test.Dates[0]
		assert.True(t, lastTrain.Before(firstTest), "fraction %v: train must precede test", f)
	}
}

func TestSplitByFraction_OrderPreserved(t *testing.T) {
	ds := syntheticDataset(40)

	train, test, err := SplitByFraction(ds, 0.3)
	require.NoError(t, err)

	for i := 1; i < train.Len(); i++ {
		assert.True(t, train.Dates[i-1].Before(train.Dates[i]))
	}
	for i := 1; i < test.Len(); i++ {
		assert.True(t, test.Dates[i-1].Before(test.Dates[i]))
	}
}

func TestSplitByFraction_InvalidFraction(t *testing.T) {
	ds := syntheticDataset(10)

	for _, f := range []float64{0, 1, -0.5, 1.5} {
		_, _, err := SplitByFraction(ds, f)
		assert.Error(t, err, "fraction %v", f)
	}
}

func TestSplitByFraction_TooFewRecords(t *testing.T) {
	ds := syntheticDataset(1)

	_, _, err := SplitByFraction(ds, 0.5)
	assert.Error(t, err)
}

func TestExpandingFolds_Properties(t *testing.T) {
	folds, err := ExpandingFolds(100, 5)
	require.NoError(t, err)
	require.Len(t, folds, 4)

	for i, fold := range folds {
		// Training always starts at the beginning and ends where
		// validation starts: expanding window, never rolling
		assert.Equal(t, 0, fold.Train.Start)
		assert.Equal(t, fold.Validation.Start, fold.Train.End)
		assert.Greater(t, fold.Validation.Len(), 0)
		assert.Greater(t, fold.Train.Len(), 0)

		if i > 0 {
			prev := folds[i-1]
			// Validation ranges are disjoint and strictly increasing,
			// and each fold trains on strictly more history
			assert.Equal(t, prev.Validation.End, fold.Validation.Start)
			assert.Greater(t, fold.Train.Len(), prev.Train.Len())
		}
	}

	assert.Equal(t, 100, folds[len(folds)-1].Validation.End)
}

func TestExpandingFolds_UnevenDivision(t *testing.T) {
	folds, err := ExpandingFolds(10, 3)
	require.NoError(t, err)
	require.Len(t, folds, 2)

	covered := folds[0].Train.Len()
	for _, fold := range folds {
		covered += fold.Validation.Len()
	}
	assert.Equal(t, 10, covered)
}

func TestExpandingFolds_Invalid(t *testing.T) {
	_, err := ExpandingFolds(100, 1)
	assert.Error(t, err)

	_, err = ExpandingFolds(3, 5)
	assert.Error(t, err)
}
