package inventory

import (
	"github.com/kiwari-pos/stockbook/internal/enum"
	"github.com/shopspring/decimal"
)

// StockBand is the display classification of remaining stock.
type StockBand string

const (
	StockBandHigh   StockBand = enum.StockBandHigh
	StockBandMedium StockBand = enum.StockBandMedium
	StockBandLow    StockBand = enum.StockBandLow
)

var (
	hundred         = decimal.NewFromInt(100)
	highBandFloor   = decimal.NewFromInt(60)
	mediumBandFloor = decimal.NewFromInt(30)
)

// StockHealth is how much of the stocking baseline is left.
type StockHealth struct {
	Percent decimal.Decimal `json:"percent"`
	Band    StockBand       `json:"band"`
}

// StockPercent returns current / original × 100, or zero when there is no
// positive baseline.
func StockPercent(current, original decimal.Decimal) decimal.Decimal {
	if !original.IsPositive() {
		return decimal.Zero
	}
	return current.Div(original).Mul(hundred)
}

// BandFor classifies a stock percentage.
func BandFor(percent decimal.Decimal) StockBand {
	switch {
	case percent.GreaterThanOrEqual(highBandFloor):
		return StockBandHigh
	case percent.GreaterThanOrEqual(mediumBandFloor):
		return StockBandMedium
	default:
		return StockBandLow
	}
}

// HealthOf computes the stock health of p.
func HealthOf(p Product) StockHealth {
	pct := StockPercent(p.Quantity, p.OriginalQuantity)
	return StockHealth{Percent: pct, Band: BandFor(pct)}
}
