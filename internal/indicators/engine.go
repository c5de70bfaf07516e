package indicators

import (
	"fmt"

	pipeerrors "github.com/tradeforge/etf-direction/internal/errors"
	"github.com/tradeforge/etf-direction/pkg/types"
)

// Config holds the rolling-window lengths for the derived columns
type Config struct {
	MAWindow       int
	VolumeMAWindow int
	RSIWindow      int
}

// DefaultConfig returns the window lengths used by the study
func DefaultConfig() Config {
	return Config{
		MAWindow:       50,
		VolumeMAWindow: 50,
		RSIWindow:      14,
	}
}

// Column is one named derived series aligned by position to the input bars.
// Undefined warm-up positions hold NaN.
type Column struct {
	Name   string
	Values []float64
}

// ColumnSet is the ordered output of the engine for one bar history
type ColumnSet struct {
	Columns []Column
}

// Get returns the column with the given name, or nil if absent
func (cs *ColumnSet) Get(name string) *Column {
	for i := range cs.Columns {
		if cs.Columns[i].Name == name {
			return &cs.Columns[i]
		}
	}
	return nil
}

// Engine computes rolling-window indicator columns from a bar history.
// It is a pure function of its input: it never mutates the bars and never
// reads positions after the one being computed.
type Engine struct {
	config Config
}

// NewEngine creates an indicator engine with the given window config
func NewEngine(config Config) *Engine {
	return &Engine{config: config}
}

// Compute derives the moving-average, volume moving-average and RSI columns
// from the bar sequence. Fails fast on non-monotonic or duplicate dates.
func (e *Engine) Compute(bars []types.Bar) (*ColumnSet, error) {
	if err := ValidateBars(bars); err != nil {
		return nil, err
	}

	closes := make([]float64, len(bars))
	volumes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
		volumes[i] = b.Volume
	}

	ma, err := NewSMA(e.config.MAWindow).Series(closes)
	if err != nil {
		return nil, pipeerrors.WrapError(err, pipeerrors.ErrorCategoryValidation, "indicators", "ma_close")
	}

	volMA, err := NewSMA(e.config.VolumeMAWindow).Series(volumes)
	if err != nil {
		return nil, pipeerrors.WrapError(err, pipeerrors.ErrorCategoryValidation, "indicators", "ma_volume")
	}

	rsi, err := NewRSI(e.config.RSIWindow).Series(closes)
	if err != nil {
		return nil, pipeerrors.WrapError(err, pipeerrors.ErrorCategoryValidation, "indicators", "rsi")
	}

	return &ColumnSet{
		Columns: []Column{
			{Name: fmt.Sprintf("ma_close_%d", e.config.MAWindow), Values: ma},
			{Name: fmt.Sprintf("ma_volume_%d", e.config.VolumeMAWindow), Values: volMA},
			{Name: fmt.Sprintf("rsi_%d", e.config.RSIWindow), Values: rsi},
		},
	}, nil
}

// MaxWindow returns the largest warm-up requirement across the configured
// indicators; the first defined dataset row cannot come before it.
func (e *Engine) MaxWindow() int {
	max := e.config.MAWindow
	if e.config.VolumeMAWindow > max {
		max = e.config.VolumeMAWindow
	}
	if e.config.RSIWindow+1 > max {
		max = e.config.RSIWindow + 1
	}
	return max
}

// ValidateBars checks the ordering invariant of the bar history: dates are
// strictly increasing with no duplicates, prices positive.
func ValidateBars(bars []types.Bar) error {
	for i, b := range bars {
		if b.Close <= 0 {
			return pipeerrors.NewValidationError("indicators", "validate_bars",
				fmt.Sprintf("non-positive close at index %d", i))
		}
		if i > 0 && !bars[i-1].Date.Before(b.Date) {
			return pipeerrors.NewValidationError("indicators", "validate_bars",
				fmt.Sprintf("dates must be strictly increasing: index %d (%s) does not follow %s",
					i, b.Date.Format("2006-01-02"), bars[i-1].Date.Format("2006-01-02")))
		}
	}
	return nil
}
