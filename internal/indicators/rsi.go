package indicators

import (
	"errors"
	"math"
)

// RSI calculates the Relative Strength Index over a trailing window
type RSI struct {
	period int
}

// NewRSI creates a new RSI instance with the given period
func NewRSI(period int) *RSI {
	return &RSI{period: period}
}

// Series computes the RSI aligned to the input closes. Day-over-day
// differences are split into gains (positive changes) and losses (absolute
// negative changes); each is averaged over the trailing window and
// RSI = 100 - 100/(1 + avgGain/avgLoss).
//
// The first defined position is index period: position 0 has no difference,
// and a full window of differences must exist. Earlier positions are NaN.
//
// Boundary: when avgLoss is zero (all gains in the window) the ratio is
// infinite and RSI saturates to 100. This is returned explicitly rather
// than letting the division produce a non-finite value.
func (r *RSI) Series(closes []float64) ([]float64, error) {
	if r.period < 1 {
		return nil, errors.New("rsi period must be >= 1")
	}
	if len(closes) == 0 {
		return nil, errors.New("rsi requires a non-empty series")
	}

	out := make([]float64, len(closes))
	gainSum := 0.0
	lossSum := 0.0

	for i := range closes {
		if i == 0 {
			out[i] = math.NaN()
			continue
		}

		change := closes[i] - closes[i-1]
		if change > 0 {
			gainSum += change
		} else {
			lossSum += math.Abs(change)
		}

		// Retire the difference that left the window
		if i > r.period {
			old := closes[i-r.period] - closes[i-r.period-1]
			if old > 0 {
				gainSum -= old
			} else {
				lossSum -= math.Abs(old)
			}
		}

		if i < r.period {
			out[i] = math.NaN()
			continue
		}

		avgGain := gainSum / float64(r.period)
		avgLoss := lossSum / float64(r.period)

		if avgLoss <= 0 {
			out[i] = 100
			continue
		}

		rs := avgGain / avgLoss
		out[i] = 100 - (100 / (1 + rs))
	}

	return out, nil
}

// GetName returns the indicator name
func (r *RSI) GetName() string {
	return "RSI"
}

// GetRequiredPeriods returns the minimum number of observations needed
// before the first defined value
func (r *RSI) GetRequiredPeriods() int {
	return r.period + 1
}
