// Package gossip implements the line-delimited TCP gossip protocol (C7
// server, C8 broadcaster/peer set, C10 clone protocol). Wire framing is
// grounded on the teacher's internal/stratum.Codec: a bufio.Scanner over
// the connection with a bounded buffer, one frame per Scan, rather than a
// raw io.Reader loop.
package gossip

import (
	"github.com/arejula27/goblockchain-node/internal/chain"
	"github.com/arejula27/goblockchain-node/internal/codec"
)

// Verb strings as they appear on the wire (§4.6).
const (
	VerbGetBalance            = "getBalance"
	VerbDoTransact             = "doTransact"
	VerbGetCloneChainFrom      = "getCloneChainFrom"
	VerbJoinNetwork            = "joinNetwork"
	VerbBroadcastedBlock       = "broadcastedBlock"
	VerbBroadcastedTransaction = "broadcastedTransaction"
	VerbBroadcastedNewNode     = "broadcastedNewNode"
	VerbStartMining            = "startMining"
	VerbStopMining             = "stopMining"
	VerbCloneBlockchain        = "cloneBlockchain"
)

// Reply tokens (§4.6, §7, §8 S4). These are plain ASCII words, base64'd
// once for the wire like any other response — except cloneBlockchain's
// snapshot reply, which is never wrapped (§6.1, §9 Q2).
const (
	tokenOk                    = "Ok"
	tokenDup                   = "Dup"
	tokenError                 = "Error"
	tokenDuplicatedOrTampered  = "Duplicated or Tampered"
)

// maxFrameSize is the hard wire limit on one request/response line (§6.1,
// §9 Q3): frames at or beyond this size cannot propagate.
const maxFrameSize = 65536

// encodePayload/decodePayload are the outer request/response base64
// wrapper (§6.1) — distinct from, and layered on top of, the inner
// per-field base64 a record's own canonical encoding already uses.
func encodePayload(s string) string { return codec.EncodeScalar(s) }

func decodePayload(b64 string) (string, error) { return codec.DecodeScalar(b64) }

// txReplyToken maps an accept_transaction outcome to its wire reply token
// (§4.6, §7). Every non-Accepted outcome is terminal; only Duplicate gets
// its own token.
func txReplyToken(r chain.TxResult) string {
	switch r {
	case chain.TxAccepted:
		return tokenOk
	case chain.TxDuplicate:
		return tokenDup
	default:
		return tokenError
	}
}

// blockReplyToken maps an accept_block outcome to its wire reply token.
// A seal, Merkle, or transaction-signature mismatch reads as tampering
// (§8 S4); a tip/difficulty mismatch reads as an ordinary protocol error.
func blockReplyToken(r chain.BlockResult) string {
	switch r {
	case chain.BlockAccepted:
		return tokenOk
	case chain.BlockDuplicate:
		return tokenDup
	case chain.BlockBadSeal, chain.BlockBadMerkle, chain.BlockBadTxSig:
		return tokenDuplicatedOrTampered
	default:
		return tokenError
	}
}
