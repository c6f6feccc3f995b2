// Package pricing holds the static per-model price table used for cost
// estimation. Prices are USD per 1000 tokens and are never mutated at
// runtime; see https://platform.openai.com/docs/pricing.
package pricing

import (
	"fmt"
	"sort"
)

// Price is the cost of one thousand input or output tokens.
type Price struct {
	Input  float64
	Output float64
}

// Table maps model names to token prices.
type Table map[string]Price

// UnknownModelError reports a model with no price table entry.
type UnknownModelError struct {
	Model string
}

func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("no pricing entry for model %q", e.Model)
}

// Default returns the built-in price table.
func Default() Table {
	return Table{
		"gpt-5.1":     {Input: 0.00125, Output: 0.01000},
		"gpt-5-mini":  {Input: 0.00025, Output: 0.002},
		"gpt-5-nano":  {Input: 0.00005, Output: 0.0004},
		"gpt-4o":      {Input: 0.0025, Output: 0.01},
		"gpt-4o-mini": {Input: 0.00015, Output: 0.0006},
	}
}

// Lookup returns the price entry for model, or *UnknownModelError.
func (t Table) Lookup(model string) (Price, error) {
	price, ok := t[model]
	if !ok {
		return Price{}, &UnknownModelError{Model: model}
	}
	return price, nil
}

// Models lists the table's model names in sorted order.
func (t Table) Models() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
