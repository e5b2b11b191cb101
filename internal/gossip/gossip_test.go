package gossip

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arejula27/goblockchain-node/internal/chain"
	"github.com/arejula27/goblockchain-node/internal/chaintypes"
	"github.com/arejula27/goblockchain-node/internal/clockprovider"
	"github.com/arejula27/goblockchain-node/internal/config"
	"github.com/arejula27/goblockchain-node/internal/cryptoprovider"
	"github.com/arejula27/goblockchain-node/internal/digest"
)

func testState(t *testing.T) *chain.State {
	t.Helper()
	dp, err := digest.New("sha256")
	require.NoError(t, err)
	return chain.New(dp, clockprovider.NewMock(), config.Defaults())
}

func testAddress(t *testing.T) string {
	t.Helper()
	provider, err := cryptoprovider.Get("ec")
	require.NoError(t, err)
	kp, err := provider.Generate()
	require.NoError(t, err)
	return kp.Address()
}

func startTestServer(t *testing.T, s *chain.State) *Server {
	t.Helper()
	srv, err := NewServer("127.0.0.1:0", s, nil, time.Second, zap.NewNop())
	require.NoError(t, err)
	go srv.Serve()
	t.Cleanup(func() { srv.Shutdown() })
	return srv
}

func roundTrip(t *testing.T, addr net.Addr, request string) string {
	t.Helper()
	conn, err := net.Dial("tcp", addr.String())
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte(request + "\n"))
	require.NoError(t, err)

	scanner := bufio.NewScanner(conn)
	require.True(t, scanner.Scan())
	return scanner.Text()
}

func TestUnknownVerbRepliesError(t *testing.T) {
	s := testState(t)
	srv := startTestServer(t, s)

	reply := roundTrip(t, srv.Addr(), "notAVerb")
	require.Equal(t, encodePayload(tokenError), reply)
}

func TestStartStopMiningToggles(t *testing.T) {
	s := testState(t)
	s.SetMiningEnabled(false)
	srv := startTestServer(t, s)

	reply := roundTrip(t, srv.Addr(), VerbStartMining)
	require.Equal(t, encodePayload(tokenOk), reply)
	require.True(t, s.MiningEnabled())

	reply = roundTrip(t, srv.Addr(), VerbStopMining)
	require.Equal(t, encodePayload(tokenOk), reply)
	require.False(t, s.MiningEnabled())
}

func TestGetBalanceUnknownAddressIsZero(t *testing.T) {
	s := testState(t)
	srv := startTestServer(t, s)

	addr := testAddress(t)
	reply := roundTrip(t, srv.Addr(), VerbGetBalance+", "+encodePayload(addr))
	decoded, err := decodePayload(reply)
	require.NoError(t, err)
	require.Equal(t, "0", decoded)
}

func TestJoinNetworkAddsPeerAndDuplicateIsDup(t *testing.T) {
	s := testState(t)
	srv := startTestServer(t, s)

	peer := chaintypes.PeerAddr{InetAddress: "10.1.1.1", InetPort: 6000}
	reply := roundTrip(t, srv.Addr(), VerbJoinNetwork+", "+encodePayload(peer.Encode()))
	require.Equal(t, encodePayload(tokenOk), reply)
	require.Equal(t, 1, s.PeerCount())

	reply = roundTrip(t, srv.Addr(), VerbJoinNetwork+", "+encodePayload(peer.Encode()))
	require.Equal(t, encodePayload(tokenDup), reply)
}

func TestCloneBlockchainRepliesUnwrappedSnapshot(t *testing.T) {
	s := testState(t)
	srv := startTestServer(t, s)

	reply := roundTrip(t, srv.Addr(), VerbCloneBlockchain)
	decoded, err := chaintypes.DecodeSnapshot(s.Digest(), reply)
	require.NoError(t, err)
	require.Equal(t, s.Difficulty(), decoded.Difficulty)
	require.Len(t, decoded.Chain, 0)
}

func TestDoTransactBadFormatRepliesError(t *testing.T) {
	s := testState(t)
	srv := startTestServer(t, s)

	reply := roundTrip(t, srv.Addr(), VerbDoTransact+", "+encodePayload("not-a-transaction-frame"))
	require.Equal(t, encodePayload(tokenError), reply)
}

func TestBroadcastedBlockAcceptsGenesis(t *testing.T) {
	s := testState(t)
	bcast := NewBroadcaster(s, time.Second, zap.NewNop())
	srv, err := NewServer("127.0.0.1:0", s, bcast, time.Second, zap.NewNop())
	require.NoError(t, err)
	go srv.Serve()
	t.Cleanup(func() { srv.Shutdown() })

	dp := s.Digest()
	miner := testAddress(t)
	block := chaintypes.Block{
		PreviousHash: "0",
		Difficulty:   s.Difficulty(),
		MerkleRoot:   chaintypes.ComputeMerkleRoot(dp, nil),
		Miner:        miner,
		MinerRewards: 10,
	}
	for nonce := int64(0); ; nonce++ {
		block.Nonce = nonce
		hash := block.SealDigest(dp)
		if chaintypes.MeetsDifficulty(hash, s.Difficulty()) {
			block.Hash = hash
			break
		}
	}

	reply := roundTrip(t, srv.Addr(), VerbBroadcastedBlock+", "+encodePayload(block.EncodeFull(dp)))
	require.Equal(t, encodePayload(tokenOk), reply)
	require.Equal(t, 1, s.Len())
}
