package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceSourceType identifies where a price sample came from.
type PriceSourceType string

const (
	PriceSourceCoinGecko  PriceSourceType = "coingecko"
	PriceSourceMultiversX PriceSourceType = "multiversx"
	PriceSourceBinance    PriceSourceType = "binance"
	PriceSourcePolygon    PriceSourceType = "polygon"
	PriceSourceStatic     PriceSourceType = "static"
	PriceSourceSynthetic  PriceSourceType = "synthetic"
)

// PriceSample is a single observation of the tracked asset's price.
// Samples are values; once created they are never modified.
type PriceSample struct {
	Value     decimal.Decimal `json:"price" yaml:"price"`
	Timestamp time.Time       `json:"timestamp" yaml:"timestamp"`
	Source    PriceSourceType `json:"source" yaml:"source"`
}

// Age returns how old the sample is relative to now.
func (p PriceSample) Age(now time.Time) time.Duration {
	return now.Sub(p.Timestamp)
}
