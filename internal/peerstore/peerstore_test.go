package peerstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arejula27/goblockchain-node/internal/chaintypes"
	"github.com/arejula27/goblockchain-node/internal/digest"
)

func testDigest(t *testing.T) digest.Provider {
	t.Helper()
	dp, err := digest.New("sha256")
	require.NoError(t, err)
	return dp
}

func TestAddAndAll(t *testing.T) {
	dp := testDigest(t)
	s, err := Open(filepath.Join(t.TempDir(), "peers.db"), dp)
	require.NoError(t, err)
	defer s.Close()

	p := chaintypes.PeerAddr{InetAddress: "127.0.0.1", InetPort: 5000}
	require.NoError(t, s.Add(p))

	all, err := s.All()
	require.NoError(t, err)
	require.Equal(t, []chaintypes.PeerAddr{p}, all)
	require.Equal(t, 1, s.Count())
}

func TestAddIsIdempotent(t *testing.T) {
	dp := testDigest(t)
	s, err := Open(filepath.Join(t.TempDir(), "peers.db"), dp)
	require.NoError(t, err)
	defer s.Close()

	p := chaintypes.PeerAddr{InetAddress: "10.0.0.1", InetPort: 9000}
	require.NoError(t, s.Add(p))
	require.NoError(t, s.Add(p))
	require.Equal(t, 1, s.Count())
}

func TestRemove(t *testing.T) {
	dp := testDigest(t)
	s, err := Open(filepath.Join(t.TempDir(), "peers.db"), dp)
	require.NoError(t, err)
	defer s.Close()

	p := chaintypes.PeerAddr{InetAddress: "10.0.0.1", InetPort: 9000}
	require.NoError(t, s.Add(p))
	require.NoError(t, s.Remove(p))
	require.Equal(t, 0, s.Count())
}

func TestPersistenceAcrossReopen(t *testing.T) {
	dp := testDigest(t)
	path := filepath.Join(t.TempDir(), "peers.db")

	s, err := Open(path, dp)
	require.NoError(t, err)
	p := chaintypes.PeerAddr{InetAddress: "1.2.3.4", InetPort: 1234}
	require.NoError(t, s.Add(p))
	require.NoError(t, s.Close())

	reopened, err := Open(path, dp)
	require.NoError(t, err)
	defer reopened.Close()
	require.Equal(t, 1, reopened.Count())
}
