package market

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadCSV reads an OHLCV series from a comma-separated file with columns
// time,open,high,low,close,volume. Timestamps may be RFC 3339, "2006-01-02",
// or unix seconds. A header row is skipped. Malformed lines are counted and
// reported as an error only when nothing valid was read.
func LoadCSV(path string) (Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var s Series
	badLines := 0

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(strings.ToLower(line), "time,") {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) < 6 {
			badLines++
			continue
		}

		ts, err := parseTime(strings.TrimSpace(parts[0]))
		if err != nil {
			badLines++
			continue
		}

		var vals [5]float64
		ok := true
		for i := 0; i < 5; i++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(parts[i+1]), 64)
			if err != nil {
				ok = false
				break
			}
			vals[i] = v
		}
		if !ok {
			badLines++
			continue
		}

		s = append(s, Candle{
			Time:   ts,
			Open:   vals[0],
			High:   vals[1],
			Low:    vals[2],
			Close:  vals[3],
			Volume: vals[4],
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(s) == 0 {
		return nil, fmt.Errorf("no valid bars in %s (%d bad lines)", path, badLines)
	}
	if badLines > 0 {
		fmt.Fprintf(os.Stderr, "ingest warnings: badLines=%d\n", badLines)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid series in %s: %w", path, err)
	}
	return s, nil
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
