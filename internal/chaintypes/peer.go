package chaintypes

import (
	"strconv"

	"github.com/arejula27/goblockchain-node/internal/codec"
	"github.com/arejula27/goblockchain-node/internal/digest"
)

const peerAddrTypeName = "NetworkNode"

// PeerAddr is a (host, port) pair identifying a gossip peer (§3). Identity
// for dedup is the digest of its canonical encoding (Digest).
type PeerAddr struct {
	InetAddress string
	InetPort    int
}

// Encode renders the "inetAddress, inetPort" frame (§6.3).
func (p PeerAddr) Encode() string {
	return codec.NewBuilder(peerAddrTypeName).
		Scalar("inetAddress", p.InetAddress).
		Scalar("inetPort", strconv.Itoa(p.InetPort)).
		String()
}

// Digest is the peer's dedup identity (§3).
func (p PeerAddr) Digest(dp digest.Provider) string {
	return dp.Digest([]byte(p.Encode()))
}

// DecodePeerAddr parses a PeerAddr frame.
func DecodePeerAddr(frame string) (PeerAddr, error) {
	fields, err := codec.Parse(peerAddrTypeName, frame)
	if err != nil {
		return PeerAddr{}, err
	}
	var p PeerAddr
	if p.InetAddress, err = decodeScalarField(fields, "inetAddress"); err != nil {
		return PeerAddr{}, err
	}
	portStr, err := decodeScalarField(fields, "inetPort")
	if err != nil {
		return PeerAddr{}, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return PeerAddr{}, err
	}
	p.InetPort = port
	return p, nil
}
