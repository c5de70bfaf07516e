package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradeforge/etf-direction/internal/indicators"
	"github.com/tradeforge/etf-direction/pkg/types"
)

func barsFromCloses(closes []float64) []types.Bar {
	start := time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]types.Bar, len(closes))
	for i, c := range closes {
		bars[i] = types.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000 + float64(i),
			AuxClose: map[string]float64{
				"GLD": 150 + float64(i),
				"TLT": 120 - float64(i)*0.5,
			},
		}
	}
	return bars
}

func smallEngine() *indicators.Engine {
	return indicators.NewEngine(indicators.Config{MAWindow: 3, VolumeMAWindow: 3, RSIWindow: 2})
}

func TestAssemble_LabelShiftInvariant(t *testing.T) {
	closes := []float64{100, 101, 99, 99, 102, 101, 103, 103, 104}
	bars := barsFromCloses(closes)

	ds, err := NewAssembler(smallEngine()).Assemble(bars)
	require.NoError(t, err)
	require.NotZero(t, ds.Len())

	start := bars[0].Date
	for i, date := range ds.Dates {
		// target[i] must equal the same-day direction of the next bar
		idx := int(date.Sub(start).Hours() / 24)
		next := closes[idx+1] - closes[idx]
		expected := 0
		if next > 0 {
			expected = 1
		}
		assert.Equal(t, expected, ds.Y[i], "label mismatch at %s", date.Format("2006-01-02"))
	}
}

func TestAssemble_LastBarDropped(t *testing.T) {
	bars := barsFromCloses([]float64{100, 101, 99, 102, 104, 103, 105, 106})

	ds, err := NewAssembler(smallEngine()).Assemble(bars)
	require.NoError(t, err)
	require.NotZero(t, ds.Len())

	last := bars[len(bars)-1].Date
	for _, date := range ds.Dates {
		assert.True(t, date.Before(last), "final bar must never be retained")
	}
}

func TestAssemble_ZeroChangeLabelsDown(t *testing.T) {
	// closes[4] == closes[5]: the record at index 4 sees a zero next-day
	// change and must label it 0
	closes := []float64{100, 101, 102, 103, 104, 104, 105}
	bars := barsFromCloses(closes)

	ds, err := NewAssembler(smallEngine()).Assemble(bars)
	require.NoError(t, err)

	found := false
	for i, date := range ds.Dates {
		if date.Equal(bars[4].Date) {
			assert.Equal(t, 0, ds.Y[i], "exactly-zero change must classify as down")
			found = true
		}
	}
	assert.True(t, found, "expected the zero-change record to be retained")
}

func TestAssemble_WarmUpRowsDropped(t *testing.T) {
	bars := barsFromCloses([]float64{100, 101, 102, 103, 104, 105, 106, 107})

	ds, err := NewAssembler(smallEngine()).Assemble(bars)
	require.NoError(t, err)
	require.NotZero(t, ds.Len())

	// MA window 3 defines from index 2, RSI window 2 from index 2; the
	// first retained record is index 2 and the last is len-2.
	assert.Equal(t, bars[2].Date, ds.Dates[0])
	assert.Equal(t, bars[len(bars)-2].Date, ds.Dates[len(ds.Dates)-1])
	assert.Equal(t, len(bars)-3, ds.Len())
}

func TestAssemble_LeakageColumnsExcluded(t *testing.T) {
	bars := barsFromCloses([]float64{100, 101, 102, 103, 104, 105, 106, 107})

	ds, err := NewAssembler(smallEngine()).Assemble(bars)
	require.NoError(t, err)

	expected := []string{"ma_close_3", "ma_volume_3", "rsi_2", "close_GLD", "close_TLT"}
	assert.Equal(t, expected, ds.FeatureNames)

	// No raw price, volume or pct_change column survives into the features
	for _, name := range ds.FeatureNames {
		assert.NotContains(t, []string{"open", "high", "low", "close", "volume", "pct_change"}, name)
	}
}

func TestAssemble_TooShortHistoryIsEmptyNotError(t *testing.T) {
	bars := barsFromCloses([]float64{100, 101})

	ds, err := NewAssembler(smallEngine()).Assemble(bars)
	require.NoError(t, err)
	assert.Zero(t, ds.Len(), "short history must assemble to an empty dataset")
}

func TestAssemble_Idempotent(t *testing.T) {
	bars := barsFromCloses([]float64{100, 102, 99, 104, 101, 103, 98, 105, 102, 106})

	a := NewAssembler(smallEngine())
	first, err := a.Assemble(bars)
	require.NoError(t, err)
	second, err := a.Assemble(bars)
	require.NoError(t, err)

	assert.Equal(t, first.FeatureNames, second.FeatureNames)
	assert.Equal(t, first.Dates, second.Dates)
	assert.Equal(t, first.X, second.X)
	assert.Equal(t, first.Y, second.Y)
}

func TestDataset_Slice(t *testing.T) {
	bars := barsFromCloses([]float64{100, 102, 99, 104, 101, 103, 98, 105, 102, 106})

	ds, err := NewAssembler(smallEngine()).Assemble(bars)
	require.NoError(t, err)
	require.GreaterOrEqual(t, ds.Len(), 4)

	head := ds.Slice(0, 2)
	tail := ds.Slice(2, ds.Len())

	assert.Equal(t, 2, head.Len())
	assert.Equal(t, ds.Len()-2, tail.Len())
	assert.True(t, head.Dates[head.Len()-1].Before(tail.Dates[0]))
}
