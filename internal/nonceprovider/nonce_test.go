package nonceprovider

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRandomProviderStaysInRange(t *testing.T) {
	p := New()
	for i := 0; i < 100; i++ {
		n, err := p.Next()
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, int64(0))
		require.Less(t, n, int64(maxNonce))
	}
}

func TestCountingProviderIncrements(t *testing.T) {
	c := NewCounting(5)
	first, err := c.Next()
	require.NoError(t, err)
	require.Equal(t, int64(5), first)

	second, err := c.Next()
	require.NoError(t, err)
	require.Equal(t, int64(6), second)
}

func TestCountingProviderWraps(t *testing.T) {
	c := NewCounting(maxNonce - 1)
	first, _ := c.Next()
	require.Equal(t, int64(maxNonce-1), first)

	second, _ := c.Next()
	require.Equal(t, int64(0), second)
}
