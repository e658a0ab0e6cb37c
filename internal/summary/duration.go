package summary

import "power-band-lab/internal/domain"

// ResolveDuration derives the elapsed duration of an event in seconds.
// Sources are tried in strict priority order, each only when the previous
// ones left the value unresolved:
//
//  1. duration_sec as supplied
//  2. close_time - open_time (ISO timestamps)
//  3. close_ts - open_ts (numeric markers, assumed seconds)
//  4. open_after_ts - open_ts (approximate fallback)
//
// A negative result at any step is discarded back to missing — clock skew
// and malformed rows must never surface as a negative statistic. Returns
// nil when no source resolves.
func ResolveDuration(e *domain.Event) *float64 {
	if e == nil {
		return nil
	}

	if e.DurationSec != nil {
		return nonNegative(*e.DurationSec)
	}

	if e.OpenTime != nil && e.CloseTime != nil {
		return nonNegative(e.CloseTime.Sub(*e.OpenTime).Seconds())
	}

	if e.OpenTS != nil && e.CloseTS != nil {
		return nonNegative(*e.CloseTS - *e.OpenTS)
	}

	if e.OpenTS != nil && e.OpenAfterTS != nil {
		return nonNegative(*e.OpenAfterTS - *e.OpenTS)
	}

	return nil
}

func nonNegative(v float64) *float64 {
	if v < 0 {
		return nil
	}
	return &v
}
