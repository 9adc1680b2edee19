package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderID(t *testing.T) {
	sid, err := NewOrderID()
	require.NoError(t, err)

	assert.Len(t, sid, len(PrefixOrder)+1+DefaultLength)
	assert.True(t, HasPrefix(sid, PrefixOrder))
}

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		v, err := Generate(0)
		require.NoError(t, err)
		assert.False(t, seen[v])
		seen[v] = true
	}
}

func TestHasPrefix(t *testing.T) {
	assert.False(t, HasPrefix("ord_", PrefixOrder))
	assert.False(t, HasPrefix("sub_abc", PrefixOrder))
	assert.False(t, HasPrefix("ord_ab-c", PrefixOrder))
	assert.True(t, HasPrefix("ord_abc", PrefixOrder))
}
