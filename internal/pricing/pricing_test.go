package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupKnownModel(t *testing.T) {
	price, err := Default().Lookup("gpt-4o-mini")
	require.NoError(t, err)
	assert.Equal(t, 0.00015, price.Input)
	assert.Equal(t, 0.0006, price.Output)
}

func TestLookupUnknownModel(t *testing.T) {
	_, err := Default().Lookup("gpt-2")
	require.Error(t, err)

	var unknown *UnknownModelError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "gpt-2", unknown.Model)
}

func TestModelsSorted(t *testing.T) {
	table := Table{"b": {}, "a": {}, "c": {}}
	assert.Equal(t, []string{"a", "b", "c"}, table.Models())
}
