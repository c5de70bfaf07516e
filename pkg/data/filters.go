package data

import (
	"time"

	"github.com/tradeforge/etf-direction/pkg/types"
)

// FilterByDateRange keeps the bars inside [from, to]. A zero bound is open.
func FilterByDateRange(bars []types.Bar, from, to time.Time) []types.Bar {
	var out []types.Bar
	for _, b := range bars {
		if !from.IsZero() && b.Date.Before(from) {
			continue
		}
		if !to.IsZero() && b.Date.After(to) {
			continue
		}
		out = append(out, b)
	}
	return out
}
