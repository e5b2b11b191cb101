package clockprovider

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMockAdvancesMillis(t *testing.T) {
	m := NewMock()
	start := m.NowMillis()
	m.Add(1500)
	require.Equal(t, start+1500, m.NowMillis())
}

func TestRealProviderReturnsPositiveMillis(t *testing.T) {
	p := New()
	require.Greater(t, p.NowMillis(), int64(0))
}
