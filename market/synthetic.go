package market

import "time"

// Synthetic series generators for demos and tests. All output is
// deterministic; no randomness is involved.

const syntheticSpread = 0.001 // intrabar range, fraction of body

// Trending generates n daily bars whose close compounds by drift each bar
// (negative drift for a downtrend). Volume is flat.
func Trending(n int, start, drift float64) Series {
	return generate(n, start, func(i int, prev float64) float64 {
		return prev * (1 + drift)
	})
}

// Flat generates n daily bars whose close alternates +noise/-noise around
// start, a deterministic stand-in for a directionless market.
func Flat(n int, start, noise float64) Series {
	return generate(n, start, func(i int, prev float64) float64 {
		if i%2 == 0 {
			return start * (1 + noise)
		}
		return start * (1 - noise)
	})
}

var syntheticEpoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func generate(n int, start float64, next func(i int, prev float64) float64) Series {
	s := make(Series, 0, n)
	prev := start
	for i := 0; i < n; i++ {
		cl := next(i, prev)
		open := prev
		hi, lo := open, open
		if cl > hi {
			hi = cl
		}
		if cl < lo {
			lo = cl
		}
		s = append(s, Candle{
			Time:   syntheticEpoch.AddDate(0, 0, i),
			Open:   open,
			High:   hi * (1 + syntheticSpread),
			Low:    lo * (1 - syntheticSpread),
			Close:  cl,
			Volume: 1000,
		})
		prev = cl
	}
	return s
}
