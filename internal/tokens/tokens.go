// Package tokens counts prompt tokens for cost estimation. It prefers
// the exact tokenizer for the target model, falls back to cl100k_base,
// and finally to a characters/4 approximation. The approximation is an
// intentional accuracy/availability tradeoff and is flagged so estimate
// output can surface it.
package tokens

import (
	"log/slog"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

const fallbackEncoding = "cl100k_base"

// Counter counts tokens in text deterministically.
type Counter struct {
	enc         *tiktoken.Tiktoken
	approximate bool
}

// NewCounter builds a counter for model. Unknown models use the
// cl100k_base encoding; if no encoding can be loaded at all, the counter
// degrades to the characters/4 approximation.
func NewCounter(model string) Counter {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(fallbackEncoding)
	}
	if err != nil {
		slog.Warn("no tokenizer available, using chars/4 approximation",
			"model", model, "error", err)
		return Counter{approximate: true}
	}
	return Counter{enc: enc}
}

// NewApproximateCounter returns a counter that always uses the
// characters/4 heuristic. Useful offline and in tests.
func NewApproximateCounter() Counter {
	return Counter{approximate: true}
}

// Count returns the token count for text.
func (c Counter) Count(text string) int {
	if c.approximate {
		return (utf8.RuneCountInString(text) + 3) / 4
	}
	return len(c.enc.Encode(text, nil, nil))
}

// Approximate reports whether counts come from the chars/4 heuristic
// rather than a real tokenizer.
func (c Counter) Approximate() bool { return c.approximate }
