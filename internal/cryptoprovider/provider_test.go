package cryptoprovider

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRSASignAndVerify(t *testing.T) {
	p, err := Get("rsa")
	require.NoError(t, err)

	kp, err := p.Generate()
	require.NoError(t, err)

	msg := []byte("transfer 5 coins")
	sig, err := kp.Sign(msg)
	require.NoError(t, err)
	require.Len(t, sig, p.SignatureLength())

	ok, err := p.Verify(kp.Address(), msg, sig)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = p.Verify(kp.Address(), []byte("tampered"), sig)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestECSignAndVerify(t *testing.T) {
	p, err := Get("ec")
	require.NoError(t, err)

	kp, err := p.Generate()
	require.NoError(t, err)

	msg := []byte("transfer 5 coins")
	sig, err := kp.Sign(msg)
	require.NoError(t, err)
	require.Len(t, sig, p.SignatureLength())

	ok, err := p.Verify(kp.Address(), msg, sig)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = p.Verify(kp.Address(), []byte("tampered"), sig)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDetectPicksRightProvider(t *testing.T) {
	rsaKP, err := mustGenerate(t, "rsa")
	require.NoError(t, err)
	ecKP, err := mustGenerate(t, "ec")
	require.NoError(t, err)

	p, err := Detect(rsaKP.Address())
	require.NoError(t, err)
	require.Equal(t, "rsa", p.Name())

	p, err = Detect(ecKP.Address())
	require.NoError(t, err)
	require.Equal(t, "ec", p.Name())
}

func TestDetectRejectsGarbage(t *testing.T) {
	_, err := Detect("not a real address")
	require.Error(t, err)
}

func TestGetUnknownAlgorithm(t *testing.T) {
	_, err := Get("quantum")
	require.Error(t, err)
}

func mustGenerate(t *testing.T, name string) (KeyPair, error) {
	t.Helper()
	p, err := Get(name)
	require.NoError(t, err)
	return p.Generate()
}
