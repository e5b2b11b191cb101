package cryptoprovider

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"fmt"
)

// rsaKeyBits matches the original's default RSA key size.
const rsaKeyBits = 2048

// rsaProvider implements the RSA address scheme (§4.2b): the address is the
// base64 of the DER-encoded SubjectPublicKeyInfo.
type rsaProvider struct{}

// NewRSAProvider constructs the RSA crypto provider.
func NewRSAProvider() Provider { return &rsaProvider{} }

func (p *rsaProvider) Name() string { return "rsa" }

func (p *rsaProvider) SignatureLength() int { return rsaKeyBits / 8 }

type rsaKeyPair struct {
	priv *rsa.PrivateKey
	addr string
}

func (p *rsaProvider) Generate() (KeyPair, error) {
	priv, err := rsa.GenerateKey(rand.Reader, rsaKeyBits)
	if err != nil {
		return nil, fmt.Errorf("cryptoprovider: generate rsa key: %w", err)
	}
	addr, err := rsaAddress(&priv.PublicKey)
	if err != nil {
		return nil, err
	}
	return &rsaKeyPair{priv: priv, addr: addr}, nil
}

func rsaAddress(pub *rsa.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", fmt.Errorf("cryptoprovider: marshal rsa public key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(der), nil
}

func rsaPublicKeyFromAddress(address string) (*rsa.PublicKey, error) {
	der, err := base64.StdEncoding.DecodeString(address)
	if err != nil {
		return nil, fmt.Errorf("cryptoprovider: bad rsa address encoding: %w", err)
	}
	key, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("cryptoprovider: bad rsa address: %w", err)
	}
	pub, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("cryptoprovider: address is not an rsa public key")
	}
	return pub, nil
}

func (kp *rsaKeyPair) Address() string { return kp.addr }

func (kp *rsaKeyPair) Sign(data []byte) ([]byte, error) {
	digest := sha256.Sum256(data)
	sig, err := rsa.SignPKCS1v15(rand.Reader, kp.priv, crypto.SHA256, digest[:])
	if err != nil {
		return nil, fmt.Errorf("cryptoprovider: rsa sign: %w", err)
	}
	return sig, nil
}

func (p *rsaProvider) Verify(address string, data, sig []byte) (bool, error) {
	pub, err := rsaPublicKeyFromAddress(address)
	if err != nil {
		return false, err
	}
	digest := sha256.Sum256(data)
	if err := rsa.VerifyPKCS1v15(pub, crypto.SHA256, digest[:], sig); err != nil {
		return false, nil
	}
	return true, nil
}

func (p *rsaProvider) Owns(address string) bool {
	_, err := rsaPublicKeyFromAddress(address)
	return err == nil
}

// MarshalKeyPair serializes the private key as PKCS8 DER, matching the
// original wallet's private_bytes(Encoding.DER, PrivateFormat.PKCS8).
func (p *rsaProvider) MarshalKeyPair(kp KeyPair) ([]byte, error) {
	rkp, ok := kp.(*rsaKeyPair)
	if !ok {
		return nil, fmt.Errorf("cryptoprovider: not an rsa key pair")
	}
	der, err := x509.MarshalPKCS8PrivateKey(rkp.priv)
	if err != nil {
		return nil, fmt.Errorf("cryptoprovider: marshal rsa private key: %w", err)
	}
	return der, nil
}

func (p *rsaProvider) UnmarshalKeyPair(data []byte) (KeyPair, error) {
	key, err := x509.ParsePKCS8PrivateKey(data)
	if err != nil {
		return nil, fmt.Errorf("cryptoprovider: bad rsa private key: %w", err)
	}
	priv, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("cryptoprovider: key is not rsa")
	}
	addr, err := rsaAddress(&priv.PublicKey)
	if err != nil {
		return nil, err
	}
	return &rsaKeyPair{priv: priv, addr: addr}, nil
}
