package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rustyeddy/allocator/market"
)

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// loadSeries builds the symbol -> series map for a command: explicit CSV
// files when given, otherwise a named synthetic scenario.
func loadSeries(csvSpecs []string, synthetic string) (map[string]market.Series, error) {
	if len(csvSpecs) > 0 {
		data := make(map[string]market.Series, len(csvSpecs))
		for _, spec := range csvSpecs {
			sym, path, ok := strings.Cut(spec, "=")
			if !ok {
				return nil, fmt.Errorf("invalid --csv %q, expected SYMBOL=path", spec)
			}
			s, err := market.LoadCSV(path)
			if err != nil {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
			data[sym] = s
		}
		return data, nil
	}

	switch synthetic {
	case "bull":
		return map[string]market.Series{
			"BTC": market.Trending(120, 45000, 0.005),
			"ETH": market.Trending(120, 2500, 0.004),
		}, nil
	case "bear":
		return map[string]market.Series{
			"BTC": market.Trending(120, 45000, -0.005),
			"ETH": market.Trending(120, 2500, -0.006),
		}, nil
	case "sideways":
		return map[string]market.Series{
			"BTC": market.Flat(120, 45000, 0.0001),
			"ETH": market.Flat(120, 2500, 0.0001),
		}, nil
	default:
		return nil, fmt.Errorf("unknown synthetic scenario %q (bull, bear, sideways)", synthetic)
	}
}
