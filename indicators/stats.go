package indicators

import "math"

// Clip bounds v to [lo, hi].
func Clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the population standard deviation, or 0 for fewer than two
// values.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := Mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

// PercentileRank returns the fraction of values less than or equal to v.
// An empty slice ranks as 0.5 (neutral).
func PercentileRank(values []float64, v float64) float64 {
	if len(values) == 0 {
		return 0.5
	}
	n := 0
	for _, x := range values {
		if x <= v {
			n++
		}
	}
	return float64(n) / float64(len(values))
}

// Correlation returns the Pearson correlation of two equal-length slices.
// Degenerate input (mismatched length, too short, zero variance) yields 0.
func Correlation(xs, ys []float64) float64 {
	if len(xs) != len(ys) || len(xs) < 2 {
		return 0
	}

	mx, my := Mean(xs), Mean(ys)
	var sxy, sxx, syy float64
	for i := range xs {
		dx := xs[i] - mx
		dy := ys[i] - my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0
	}
	return sxy / math.Sqrt(sxx*syy)
}

// RollingStd computes the population standard deviation over a moving
// window, one value per complete window.
func RollingStd(values []float64, window int) []float64 {
	if window <= 0 || len(values) < window {
		return nil
	}
	out := make([]float64, 0, len(values)-window+1)
	for i := window; i <= len(values); i++ {
		out = append(out, StdDev(values[i-window:i]))
	}
	return out
}

// PctChanges converts a series of levels into fractional changes. Zero
// previous levels yield zero change.
func PctChanges(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	out := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] != 0 {
			out[i-1] = values[i]/values[i-1] - 1
		}
	}
	return out
}
