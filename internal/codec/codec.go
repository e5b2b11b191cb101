// Package codec implements the canonical structural encoding used both on
// the wire and for hashing/signing. Because digests are taken over this
// encoding, the format is part of consensus: field order, separators, and
// base64 nesting must reproduce exactly what this package produces.
package codec

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const (
	fieldSep = ", "
	kvSep    = ":"
)

// EncodeScalar renders a decimal/lowercase/UTF-8 string form to its base64
// wire form.
func EncodeScalar(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// DecodeScalar is the inverse of EncodeScalar.
func DecodeScalar(b64 string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", fmt.Errorf("codec: bad base64 scalar: %w", err)
	}
	return string(raw), nil
}

// EncodeCompound renders an ordered list of already-encoded typed elements
// (e.g. full Transaction encodings) into a single field value: each element
// is base64'd once more, joined with ", ", then the joined string is
// base64'd again. An empty list encodes as base64 of the empty string.
func EncodeCompound(elements []string) string {
	if len(elements) == 0 {
		return EncodeScalar("")
	}
	parts := make([]string, len(elements))
	for i, e := range elements {
		parts[i] = EncodeScalar(e)
	}
	return EncodeScalar(strings.Join(parts, fieldSep))
}

// DecodeCompound is the inverse of EncodeCompound, returning the decoded
// (but not further-parsed) typed element strings in order.
func DecodeCompound(b64 string) ([]string, error) {
	joined, err := DecodeScalar(b64)
	if err != nil {
		return nil, fmt.Errorf("codec: bad compound field: %w", err)
	}
	if joined == "" {
		return nil, nil
	}
	parts := strings.Split(joined, fieldSep)
	out := make([]string, len(parts))
	for i, p := range parts {
		dec, err := DecodeScalar(p)
		if err != nil {
			return nil, fmt.Errorf("codec: bad compound element %d: %w", i, err)
		}
		out[i] = dec
	}
	return out, nil
}

// Builder assembles a canonical "TypeName [field:value, ...]" frame field by
// field, in the exact order the fields are appended.
type Builder struct {
	typeName string
	fields   []string
}

// NewBuilder starts a frame for the given record type name.
func NewBuilder(typeName string) *Builder {
	return &Builder{typeName: typeName}
}

// Scalar appends a base64-encoded scalar field.
func (b *Builder) Scalar(name, value string) *Builder {
	b.fields = append(b.fields, name+kvSep+EncodeScalar(value))
	return b
}

// Compound appends a compound (list) field from already-encoded elements.
func (b *Builder) Compound(name string, elements []string) *Builder {
	b.fields = append(b.fields, name+kvSep+EncodeCompound(elements))
	return b
}

// String renders the final frame.
func (b *Builder) String() string {
	return b.typeName + " [" + strings.Join(b.fields, fieldSep) + "]"
}

// Parse splits a "TypeName [field:value, ...]" frame into its raw
// (still base64-encoded) field values, keyed by field name. It is strict
// about the outer wrapper but tolerant of unknown field names, which are
// simply returned in the map for the caller to ignore.
func Parse(typeName, frame string) (map[string]string, error) {
	prefix := typeName + " ["
	if !strings.HasPrefix(frame, prefix) || !strings.HasSuffix(frame, "]") {
		return nil, fmt.Errorf("codec: expected %q wrapper, got %q", typeName, truncate(frame, 32))
	}
	inner := frame[len(prefix) : len(frame)-1]
	fields := make(map[string]string)
	if inner == "" {
		return fields, nil
	}
	for _, attr := range strings.Split(inner, fieldSep) {
		// First colon only — values themselves may contain further colons.
		idx := strings.Index(attr, kvSep)
		if idx < 0 {
			continue
		}
		fields[attr[:idx]] = attr[idx+1:]
	}
	return fields, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
