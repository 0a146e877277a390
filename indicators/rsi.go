package indicators

// RSISeries computes the Relative Strength Index from close prices using
// rolling-mean gains and losses. The result has len(closes)-period entries.
// A window with no losses yields 100, with no gains 0.
func RSISeries(closes []float64, period int) []float64 {
	if period <= 0 || len(closes) < period+1 {
		return nil
	}

	gains := make([]float64, len(closes)-1)
	losses := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains[i-1] = delta
		} else {
			losses[i-1] = -delta
		}
	}

	avgGain := RollingMean(gains, period)
	avgLoss := RollingMean(losses, period)

	out := make([]float64, len(avgGain))
	for i := range avgGain {
		switch {
		case avgLoss[i] == 0 && avgGain[i] == 0:
			out[i] = 50
		case avgLoss[i] == 0:
			out[i] = 100
		default:
			rs := avgGain[i] / avgLoss[i]
			out[i] = 100 - 100/(1+rs)
		}
	}
	return out
}
