package indicators

import (
	"math"

	"github.com/rustyeddy/allocator/market"
)

// TrueRange calculates the True Range of a candle given the previous candle.
func TrueRange(current, previous market.Candle) float64 {
	highLow := current.High - current.Low
	highClose := math.Abs(current.High - previous.Close)
	lowClose := math.Abs(current.Low - previous.Close)

	return math.Max(highLow, math.Max(highClose, lowClose))
}

// ATRSeries computes the Average True Range as a simple rolling mean of the
// true range, one value per complete window. The result has
// len(s)-period entries (true range needs a previous bar).
func ATRSeries(s market.Series, period int) []float64 {
	if period <= 0 || len(s) < period+1 {
		return nil
	}

	tr := make([]float64, len(s)-1)
	for i := 1; i < len(s); i++ {
		tr[i-1] = TrueRange(s[i], s[i-1])
	}
	return RollingMean(tr, period)
}
