package risk

import "strings"

// CorrelationTable holds pairwise return correlations between base assets,
// keyed "A_B" in either order.
type CorrelationTable map[string]float64

// DefaultCorrelations returns the static correlation estimates for the
// major crypto assets.
func DefaultCorrelations() CorrelationTable {
	return CorrelationTable{
		"BTC_ETH":   0.75,
		"BTC_BNB":   0.65,
		"BTC_SOL":   0.70,
		"BTC_ADA":   0.60,
		"BTC_AVAX":  0.68,
		"BTC_DOT":   0.62,
		"BTC_LINK":  0.58,
		"BTC_UNI":   0.64,
		"BTC_MATIC": 0.66,
		"BTC_LTC":   0.72,
		"ETH_BNB":   0.60,
		"ETH_SOL":   0.68,
		"ETH_ADA":   0.55,
		"ETH_AVAX":  0.70,
		"ETH_DOT":   0.58,
		"ETH_LINK":  0.62,
		"ETH_UNI":   0.72,
		"ETH_MATIC": 0.68,
		"SOL_AVAX":  0.65,
		"SOL_ADA":   0.52,
		"ADA_DOT":   0.58,
		"LINK_UNI":  0.55,
	}
}

// Lookup returns the correlation between the base assets of two symbols.
// Unknown pairings fall back to coarse defaults: majors correlate highly
// with each other, everything correlates at least loosely.
func (t CorrelationTable) Lookup(symbolA, symbolB string) float64 {
	a := baseAsset(symbolA)
	b := baseAsset(symbolB)
	if a == b {
		return 1.0
	}

	if c, ok := t[a+"_"+b]; ok {
		return c
	}
	if c, ok := t[b+"_"+a]; ok {
		return c
	}

	switch {
	case isMajor(a) && isMajor(b):
		return 0.7
	case isMajor(a) || isMajor(b):
		return 0.5
	default:
		return 0.4
	}
}

func isMajor(asset string) bool {
	return asset == "BTC" || asset == "ETH"
}

// baseAsset strips the quote currency from a pair like "BTC/USDT".
func baseAsset(symbol string) string {
	if i := strings.Index(symbol, "/"); i >= 0 {
		return symbol[:i]
	}
	return symbol
}
