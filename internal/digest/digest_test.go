package digest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDefaultsToSHA256(t *testing.T) {
	p, err := New("")
	require.NoError(t, err)
	require.Equal(t, "sha256", p.Algorithm())
}

func TestDigestIsDeterministic(t *testing.T) {
	p, err := New("sha256")
	require.NoError(t, err)

	a := p.Digest([]byte("hello"))
	b := p.Digest([]byte("hello"))
	require.Equal(t, a, b)
	require.NotEqual(t, a, p.Digest([]byte("hellp")))
}

func TestSHA512Differs(t *testing.T) {
	sha256p, err := New("sha256")
	require.NoError(t, err)
	sha512p, err := New("sha512")
	require.NoError(t, err)

	require.NotEqual(t, sha256p.Digest([]byte("x")), sha512p.Digest([]byte("x")))
}

func TestNewRejectsUnknownAlgorithm(t *testing.T) {
	_, err := New("md5")
	require.Error(t, err)
}

func TestDigestStringMatchesDigestOfUTF8Bytes(t *testing.T) {
	p, err := New("sha256")
	require.NoError(t, err)
	require.Equal(t, p.Digest([]byte("abc")), DigestString(p, "abc"))
}
