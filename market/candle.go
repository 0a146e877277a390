// Package market defines the OHLCV price series consumed by the analysis
// pipeline. Series are produced by an external data collector and treated as
// read-only inside the pipeline.
package market

import (
	"fmt"
	"time"
)

// Candle represents one OHLCV (Open, High, Low, Close, Volume) bar.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Series is an ordered sequence of candles for a single asset and timeframe.
type Series []Candle

// Validate checks the series invariants: strictly increasing timestamps and
// high >= max(open, close) >= min(open, close) >= low >= 0, volume >= 0.
func (s Series) Validate() error {
	for i, c := range s {
		if c.Low < 0 {
			return fmt.Errorf("bar %d: negative low %v", i, c.Low)
		}
		if c.Volume < 0 {
			return fmt.Errorf("bar %d: negative volume %v", i, c.Volume)
		}
		hi := c.Open
		if c.Close > hi {
			hi = c.Close
		}
		if c.High < hi {
			return fmt.Errorf("bar %d: high %v below body %v", i, c.High, hi)
		}
		lo := c.Open
		if c.Close < lo {
			lo = c.Close
		}
		if c.Low > lo {
			return fmt.Errorf("bar %d: low %v above body %v", i, c.Low, lo)
		}
		if i > 0 && !c.Time.After(s[i-1].Time) {
			return fmt.Errorf("bar %d: timestamp %s not after %s", i, c.Time, s[i-1].Time)
		}
	}
	return nil
}

// Closes returns the close prices in bar order.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Close
	}
	return out
}

// Volumes returns the volumes in bar order.
func (s Series) Volumes() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Volume
	}
	return out
}

// Returns computes bar-over-bar fractional close changes. The result has
// len(s)-1 entries; a zero previous close yields a zero return.
func (s Series) Returns() []float64 {
	if len(s) < 2 {
		return nil
	}
	out := make([]float64, len(s)-1)
	for i := 1; i < len(s); i++ {
		prev := s[i-1].Close
		if prev != 0 {
			out[i-1] = s[i].Close/prev - 1
		}
	}
	return out
}

// Tail returns the last n candles (the whole series if it is shorter).
func (s Series) Tail(n int) Series {
	if n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}

// ResampleWeekly aggregates the series into calendar weeks (Monday start,
// UTC): open is the first bar's open, high/low the extremes, close the last
// bar's close, volume the sum. Partial weeks at either end are included.
func (s Series) ResampleWeekly() Series {
	if len(s) == 0 {
		return nil
	}

	var out Series
	var cur Candle
	var curWeek time.Time
	started := false

	for _, c := range s {
		w := weekStart(c.Time)
		if !started || !w.Equal(curWeek) {
			if started {
				out = append(out, cur)
			}
			cur = c
			cur.Time = w
			curWeek = w
			started = true
			continue
		}
		if c.High > cur.High {
			cur.High = c.High
		}
		if c.Low < cur.Low {
			cur.Low = c.Low
		}
		cur.Close = c.Close
		cur.Volume += c.Volume
	}
	out = append(out, cur)
	return out
}

func weekStart(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	// Monday-based week offset.
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
