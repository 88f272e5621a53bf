package tokens

import "unicode/utf8"

// CharsPerToken is the rule-of-thumb ratio used when a backend does not
// report usage: about four characters of English text per token.
const CharsPerToken = 4.0

// Estimate returns the estimated token count of text, rounded to the nearest
// integer. Runes are counted, not bytes.
func Estimate(text string) int {
	return estimate(utf8.RuneCountInString(text), CharsPerToken)
}

func estimate(runes int, ratio float64) int {
	if ratio <= 0 {
		ratio = CharsPerToken
	}
	return int(float64(runes)/ratio + 0.5)
}

// Tally keeps a cumulative token estimate over a sequence of streamed deltas.
// The zero value is ready to use. A Tally is not safe for concurrent use.
type Tally struct {
	// Ratio overrides CharsPerToken when positive.
	Ratio float64

	runes int
	total int
}

// Add records a delta and returns the running total. The total never
// decreases.
func (t *Tally) Add(delta string) int {
	if delta == "" {
		return t.total
	}
	t.runes += utf8.RuneCountInString(delta)
	if n := estimate(t.runes, t.Ratio); n > t.total {
		t.total = n
	}
	return t.total
}

// Total returns the running total.
func (t *Tally) Total() int {
	return t.total
}
