package types

import "time"

// Bar is one daily observation of the target ETF: OHLCV plus the closes of
// any auxiliary assets recorded on the same date. Dates are the unit of
// time-series ordering and must be strictly increasing with no duplicates.
type Bar struct {
	Date     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
	AuxClose map[string]float64
}

// Aux returns the auxiliary close for the given asset, or 0 if absent.
func (b Bar) Aux(asset string) float64 {
	return b.AuxClose[asset]
}
