package data

import "github.com/tradeforge/etf-direction/pkg/types"

// Provider loads a daily bar history from some tabular source
type Provider interface {
	GetName() string
	LoadData(source string) ([]types.Bar, error)
}
