// Package chaintypes holds the typed records of the system (C4) — the
// Transaction, Block, PeerAddr, and clone-protocol Snapshot — along with
// their canonical encodings built on top of internal/codec. Because hashes
// and signatures are computed over these encodings, the field order below
// is consensus, not presentation, and must never be reordered.
package chaintypes

import (
	"fmt"
	"strconv"

	"github.com/arejula27/goblockchain-node/internal/codec"
	"github.com/arejula27/goblockchain-node/internal/digest"
)

const transactionTypeName = "Transaction"

// Transaction is an immutable, signed value transfer (§3). Amount and Fee
// are non-negative rationals represented as float64 and rendered to their
// shortest round-trip decimal form on the wire (§6.2).
type Transaction struct {
	Sender    string
	Receiver  string
	Amount    float64
	Fee       float64
	Timestamp int64
	Message   string
	Signature []byte
}

// EncodeFull renders the full "sender, receiver, amount, fee, timestamp,
// message, signature" frame (§6.3).
func (t Transaction) EncodeFull() string {
	b := codec.NewBuilder(transactionTypeName)
	t.appendContentFields(b)
	b.Scalar("signature", encodeSignature(t.Signature))
	return b.String()
}

// EncodeContent renders the frame with the signature field omitted — the
// bytes a signature is produced and verified over (§3).
func (t Transaction) EncodeContent() string {
	b := codec.NewBuilder(transactionTypeName)
	t.appendContentFields(b)
	return b.String()
}

func (t Transaction) appendContentFields(b *codec.Builder) {
	b.Scalar("sender", t.Sender)
	b.Scalar("receiver", t.Receiver)
	b.Scalar("amount", formatRational(t.Amount))
	b.Scalar("fee", formatRational(t.Fee))
	b.Scalar("timestamp", strconv.FormatInt(t.Timestamp, 10))
	b.Scalar("message", t.Message)
}

// ContentDigest is the tx's identity for dedup (I6/I7) and its Merkle leaf
// value: the digest of EncodeContent, never EncodeFull.
func (t Transaction) ContentDigest(dp digest.Provider) string {
	return dp.Digest([]byte(t.EncodeContent()))
}

// DecodeTransaction parses a full Transaction frame (§4.1, §6.3).
func DecodeTransaction(frame string) (Transaction, error) {
	fields, err := codec.Parse(transactionTypeName, frame)
	if err != nil {
		return Transaction{}, err
	}
	var t Transaction
	if t.Sender, err = decodeScalarField(fields, "sender"); err != nil {
		return Transaction{}, err
	}
	if t.Receiver, err = decodeScalarField(fields, "receiver"); err != nil {
		return Transaction{}, err
	}
	if t.Amount, err = decodeRationalField(fields, "amount"); err != nil {
		return Transaction{}, err
	}
	if t.Fee, err = decodeRationalField(fields, "fee"); err != nil {
		return Transaction{}, err
	}
	if t.Timestamp, err = decodeIntField(fields, "timestamp"); err != nil {
		return Transaction{}, err
	}
	if t.Message, err = decodeScalarField(fields, "message"); err != nil {
		return Transaction{}, err
	}
	if sigField, ok := fields["signature"]; ok {
		sigStr, err := codec.DecodeScalar(sigField)
		if err != nil {
			return Transaction{}, fmt.Errorf("chaintypes: bad signature field: %w", err)
		}
		if t.Signature, err = decodeSignature(sigStr); err != nil {
			return Transaction{}, err
		}
	}
	return t, nil
}

func encodeSignature(sig []byte) string {
	return encodeBase64Bytes(sig)
}

func decodeSignature(s string) ([]byte, error) {
	b, err := decodeBase64Bytes(s)
	if err != nil {
		return nil, fmt.Errorf("chaintypes: bad signature encoding: %w", err)
	}
	return b, nil
}
