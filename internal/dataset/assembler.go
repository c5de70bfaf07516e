package dataset

import (
	"fmt"
	"math"
	"sort"
	"time"

	pipeerrors "github.com/tradeforge/etf-direction/internal/errors"
	"github.com/tradeforge/etf-direction/internal/indicators"
	"github.com/tradeforge/etf-direction/pkg/types"
)

// Record is one assembled observation: the features available at a date and
// the direction of the following day's close-to-close change.
type Record struct {
	Date     time.Time
	Features []float64
	Target   int
}

// Dataset is the feature matrix and label vector produced by the assembler,
// indexed by the retained dates in original order. It is derived data: it is
// rebuilt from raw bars on every run and never mutated after assembly.
type Dataset struct {
	FeatureNames []string
	Dates        []time.Time
	X            [][]float64
	Y            []int
}

// Len returns the number of retained records
func (d *Dataset) Len() int {
	return len(d.Y)
}

// Slice returns the half-open row range [lo, hi) as a dataset sharing the
// same backing arrays. The backing data is read-only after assembly, so
// slices are safe to hand to concurrent scorers.
func (d *Dataset) Slice(lo, hi int) *Dataset {
	return &Dataset{
		FeatureNames: d.FeatureNames,
		Dates:        d.Dates[lo:hi],
		X:            d.X[lo:hi],
		Y:            d.Y[lo:hi],
	}
}

// Assembler builds the supervised dataset from bars and indicator columns
type Assembler struct {
	engine *indicators.Engine
}

// NewAssembler creates an assembler around the given indicator engine
func NewAssembler(engine *indicators.Engine) *Assembler {
	return &Assembler{engine: engine}
}

// Assemble runs the indicator engine over the bars and constructs the
// feature matrix and next-day direction labels.
//
// Construction order matters: indicator columns are computed over the full
// history first, the target is built from the raw closes, and only then are
// the leakage columns (raw open/high/low/close/volume and pct_change, which
// trivially reveal the label) excluded from the feature set. Features keep
// only the indicator columns and the closes of independent cross-assets.
//
// A history shorter than the largest warm-up window legitimately assembles
// to an empty dataset; callers must check Len() before proceeding.
func (a *Assembler) Assemble(bars []types.Bar) (*Dataset, error) {
	cols, err := a.engine.Compute(bars)
	if err != nil {
		return nil, err
	}
	return a.assemble(bars, cols)
}

func (a *Assembler) assemble(bars []types.Bar, cols *indicators.ColumnSet) (*Dataset, error) {
	n := len(bars)
	for _, c := range cols.Columns {
		if len(c.Values) != n {
			return nil, pipeerrors.NewValidationError("dataset", "assemble",
				fmt.Sprintf("column %s has %d values for %d bars", c.Name, len(c.Values), n))
		}
	}

	auxAssets := auxAssetNames(bars)

	// One-step relative change of close; undefined at position 0
	pct := make([]float64, n)
	for i := range bars {
		if i == 0 {
			pct[i] = math.NaN()
			continue
		}
		pct[i] = (bars[i].Close - bars[i-1].Close) / bars[i-1].Close
	}

	featureNames := make([]string, 0, len(cols.Columns)+len(auxAssets))
	for _, c := range cols.Columns {
		featureNames = append(featureNames, c.Name)
	}
	for _, asset := range auxAssets {
		featureNames = append(featureNames, "close_"+asset)
	}

	ds := &Dataset{FeatureNames: featureNames}

	// The last bar has no following day, so it can never carry a target
	for i := 0; i < n-1; i++ {
		if math.IsNaN(pct[i]) {
			continue
		}

		row := make([]float64, 0, len(featureNames))
		defined := true
		for _, c := range cols.Columns {
			if math.IsNaN(c.Values[i]) {
				defined = false
				break
			}
			row = append(row, c.Values[i])
		}
		if !defined {
			continue
		}

		for _, asset := range auxAssets {
			v, ok := bars[i].AuxClose[asset]
			if !ok {
				return nil, pipeerrors.NewValidationError("dataset", "assemble",
					fmt.Sprintf("bar %s is missing auxiliary close %q", bars[i].Date.Format("2006-01-02"), asset))
			}
			row = append(row, v)
		}

		ds.Dates = append(ds.Dates, bars[i].Date)
		ds.X = append(ds.X, row)
		ds.Y = append(ds.Y, directionLabel(pct[i+1]))
	}

	return ds, nil
}

// directionLabel maps a daily return to the binary direction class.
// An exactly-zero change classifies as down (0): the inequality is strict,
// matching the study's asymmetric tie-break.
func directionLabel(pctChange float64) int {
	if pctChange > 0 {
		return 1
	}
	return 0
}

// auxAssetNames collects the auxiliary asset names present on the first bar,
// in sorted order so the feature layout is deterministic
func auxAssetNames(bars []types.Bar) []string {
	if len(bars) == 0 {
		return nil
	}
	names := make([]string, 0, len(bars[0].AuxClose))
	for name := range bars[0].AuxClose {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
