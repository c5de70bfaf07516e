package indicators

import (
	"errors"
	"math"
)

// SMA represents the Simple Moving Average technical indicator
type SMA struct {
	period int
}

// NewSMA creates a new SMA indicator
func NewSMA(period int) *SMA {
	return &SMA{period: period}
}

// Series computes the rolling arithmetic mean over the trailing window.
// The result is aligned to the input: element i averages positions
// [i-period+1, i]. Positions before period-1 are NaN - there are no
// partial windows, and no position ever reads data after itself.
func (s *SMA) Series(values []float64) ([]float64, error) {
	if s.period < 1 {
		return nil, errors.New("sma period must be >= 1")
	}
	if len(values) == 0 {
		return nil, errors.New("sma requires a non-empty series")
	}

	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= s.period {
			sum -= values[i-s.period]
		}
		if i < s.period-1 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(s.period)
	}
	return out, nil
}

// GetName returns the indicator name
func (s *SMA) GetName() string {
	return "SMA"
}

// GetRequiredPeriods returns the minimum number of observations needed
// before the first defined value
func (s *SMA) GetRequiredPeriods() int {
	return s.period
}
