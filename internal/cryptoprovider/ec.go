package cryptoprovider

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// ecSignatureLength is r||s, each a fixed 32-byte big-endian integer.
const ecSignatureLength = 64

// ecAddress is the JSON shape an EC address decodes to (§4.2b).
type ecAddress struct {
	X string `json:"x"`
	Y string `json:"y"`
}

// ecProvider implements the elliptic-curve address scheme over secp256k1,
// matching the curve choice in the original's ecdsa module.
type ecProvider struct{}

// NewECProvider constructs the elliptic-curve crypto provider.
func NewECProvider() Provider { return &ecProvider{} }

func (p *ecProvider) Name() string { return "ec" }

func (p *ecProvider) SignatureLength() int { return ecSignatureLength }

type ecKeyPair struct {
	priv *secp256k1.PrivateKey
	addr string
}

func (p *ecProvider) Generate() (KeyPair, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("cryptoprovider: generate ec key: %w", err)
	}
	addr, err := ecAddressFromPubKey(priv.PubKey())
	if err != nil {
		return nil, err
	}
	return &ecKeyPair{priv: priv, addr: addr}, nil
}

func ecAddressFromPubKey(pub *secp256k1.PublicKey) (string, error) {
	raw := pub.SerializeUncompressed() // 0x04 || X(32) || Y(32)
	if len(raw) != 65 {
		return "", fmt.Errorf("cryptoprovider: unexpected ec public key length %d", len(raw))
	}
	x := new(big.Int).SetBytes(raw[1:33])
	y := new(big.Int).SetBytes(raw[33:65])
	blob, err := json.Marshal(ecAddress{X: x.String(), Y: y.String()})
	if err != nil {
		return "", fmt.Errorf("cryptoprovider: marshal ec address: %w", err)
	}
	return base64.StdEncoding.EncodeToString(blob), nil
}

func ecPubKeyFromAddress(address string) (*secp256k1.PublicKey, error) {
	blob, err := base64.StdEncoding.DecodeString(address)
	if err != nil {
		return nil, fmt.Errorf("cryptoprovider: bad ec address encoding: %w", err)
	}
	var a ecAddress
	if err := json.Unmarshal(blob, &a); err != nil {
		return nil, fmt.Errorf("cryptoprovider: bad ec address json: %w", err)
	}
	x, ok := new(big.Int).SetString(a.X, 10)
	if !ok || a.X == "" {
		return nil, fmt.Errorf("cryptoprovider: bad ec address x coordinate")
	}
	y, ok := new(big.Int).SetString(a.Y, 10)
	if !ok || a.Y == "" {
		return nil, fmt.Errorf("cryptoprovider: bad ec address y coordinate")
	}
	raw := make([]byte, 65)
	raw[0] = 0x04
	x.FillBytes(raw[1:33])
	y.FillBytes(raw[33:65])
	pub, err := secp256k1.ParsePubKey(raw)
	if err != nil {
		return nil, fmt.Errorf("cryptoprovider: invalid ec public key: %w", err)
	}
	return pub, nil
}

func (kp *ecKeyPair) Address() string { return kp.addr }

func (kp *ecKeyPair) Sign(data []byte) ([]byte, error) {
	digest := sha256.Sum256(data)
	r, s, err := ecdsa.Sign(rand.Reader, kp.priv.ToECDSA(), digest[:])
	if err != nil {
		return nil, fmt.Errorf("cryptoprovider: ec sign: %w", err)
	}
	sig := make([]byte, ecSignatureLength)
	r.FillBytes(sig[:32])
	s.FillBytes(sig[32:])
	return sig, nil
}

func (p *ecProvider) Verify(address string, data, sig []byte) (bool, error) {
	if len(sig) != ecSignatureLength {
		return false, fmt.Errorf("cryptoprovider: ec signature must be %d bytes, got %d", ecSignatureLength, len(sig))
	}
	pub, err := ecPubKeyFromAddress(address)
	if err != nil {
		return false, err
	}
	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:])
	digest := sha256.Sum256(data)
	return ecdsa.Verify(pub.ToECDSA(), digest[:], r, s), nil
}

func (p *ecProvider) Owns(address string) bool {
	_, err := ecPubKeyFromAddress(address)
	return err == nil
}

// MarshalKeyPair serializes the raw 32-byte private scalar, matching the
// original ECDSA wallet's JSON {'private_key': ...} persistence shape but
// as a fixed-width blob rather than text.
func (p *ecProvider) MarshalKeyPair(kp KeyPair) ([]byte, error) {
	ekp, ok := kp.(*ecKeyPair)
	if !ok {
		return nil, fmt.Errorf("cryptoprovider: not an ec key pair")
	}
	return ekp.priv.Serialize(), nil
}

func (p *ecProvider) UnmarshalKeyPair(data []byte) (KeyPair, error) {
	priv := secp256k1.PrivKeyFromBytes(data)
	addr, err := ecAddressFromPubKey(priv.PubKey())
	if err != nil {
		return nil, err
	}
	return &ecKeyPair{priv: priv, addr: addr}, nil
}
