package tokens

import "time"

// Rate returns output tokens per second over elapsed.
// It reports false when elapsed is not positive, so callers never see a
// division-by-zero value.
func Rate(outputTokens int, elapsed time.Duration) (float64, bool) {
	if elapsed <= 0 {
		return 0, false
	}
	return float64(outputTokens) / elapsed.Seconds(), true
}

// RatePtr is Rate for optional counts. A nil count, or a rate that cannot be
// derived, yields nil.
func RatePtr(outputTokens *int, elapsed time.Duration) *float64 {
	if outputTokens == nil {
		return nil
	}
	tps, ok := Rate(*outputTokens, elapsed)
	if !ok {
		return nil
	}
	return &tps
}
