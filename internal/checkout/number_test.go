package checkout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderNumber(t *testing.T) {
	number, err := NewOrderNumber("ORD-")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(number, "ORD-"))
	assert.Len(t, number, len("ORD-")+OrderNumberLength)

	for _, r := range number[len("ORD-"):] {
		assert.Contains(t, orderNumberAlphabet, string(r))
	}
}

func TestNewOrderNumber_NoCollisionsInPractice(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		number, err := NewOrderNumber("ORD-")
		require.NoError(t, err)

		_, dup := seen[number]
		require.False(t, dup, "duplicate order number %s", number)
		seen[number] = struct{}{}
	}
}
