package tokens

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApproximateCount(t *testing.T) {
	c := NewApproximateCounter()

	assert.True(t, c.Approximate())
	assert.Equal(t, 0, c.Count(""))
	assert.Equal(t, 1, c.Count("ab"))
	assert.Equal(t, 1000, c.Count(strings.Repeat("x", 4000)))
}

func TestApproximateCountDeterministic(t *testing.T) {
	c := NewApproximateCounter()
	text := strings.Repeat("starter for ten ", 100)
	assert.Equal(t, c.Count(text), c.Count(text))
}
