// Package tokens derives throughput from output-token counts and provides a
// cheap token estimator for backends that do not report usage.
//
// # Throughput
//
// Providers report a cumulative output-token count while streaming. Once the
// stream ends, Rate turns the final count and the elapsed wall time into
// tokens per second:
//
//	tps, ok := tokens.Rate(50, 2*time.Second) // 25, true
//	_, ok = tokens.Rate(50, 0)                // 0, false
//
// # Estimation
//
// Estimate uses the rule of thumb that about 4 characters make one token.
// Tally keeps a running estimate over streamed deltas:
//
//	var tally tokens.Tally
//	tally.Add("Hel")
//	tally.Add("lo, world")
//	total := tally.Total()
package tokens
