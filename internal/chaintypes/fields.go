package chaintypes

import (
	"encoding/base64"
	"fmt"
	"strconv"

	"github.com/arejula27/goblockchain-node/internal/codec"
)

// formatRational renders a rational amount to its shortest round-trip
// decimal string, matching Go's general-purpose float formatting (§6.2:
// "up to 17 significant digits for binary floats").
func formatRational(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseRational(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("chaintypes: bad rational %q: %w", s, err)
	}
	return v, nil
}

// encodeBase64Bytes renders opaque bytes to their wire scalar string form:
// base64 of the raw bytes, which the codec then base64-encodes once more
// as any other scalar (§3: "signature ... base64 form on wire").
func encodeBase64Bytes(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

func decodeBase64Bytes(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	return base64.StdEncoding.DecodeString(s)
}

func decodeScalarField(fields map[string]string, name string) (string, error) {
	raw, ok := fields[name]
	if !ok {
		return "", fmt.Errorf("chaintypes: missing field %q", name)
	}
	v, err := codec.DecodeScalar(raw)
	if err != nil {
		return "", fmt.Errorf("chaintypes: field %q: %w", name, err)
	}
	return v, nil
}

func decodeIntField(fields map[string]string, name string) (int64, error) {
	s, err := decodeScalarField(fields, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("chaintypes: field %q: bad integer %q: %w", name, s, err)
	}
	return v, nil
}

func decodeRationalField(fields map[string]string, name string) (float64, error) {
	s, err := decodeScalarField(fields, name)
	if err != nil {
		return 0, err
	}
	return parseRational(s)
}
