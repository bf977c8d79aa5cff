// Package envelope parses the fixed encryption header and decrypts the
// length-prefixed ciphertext chunks that follow it.
//
// Wire format: "JED" + 2-hex version (01) + 6-hex declared length (000022,
// i.e. 34 = method + key id) + 2-hex method + 32-char master key id,
// followed by zero or more (6-hex length)(length chars of ciphertext)
// chunks, terminated by fewer than 6 remaining characters.
package envelope

import (
	"fmt"
	"strconv"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

const (
	// HeaderSize is the number of characters a caller must skip before
	// chunk decryption begins.
	HeaderSize = 45

	headerMagic = "JED"

	// The only supported header shape.
	headerVersion        = 1
	headerDeclaredLength = 34

	keyIDLength = 32
)

// Header is the parsed encryption header of an item's ciphertext field.
// Constructed per decrypt attempt, never cached.
type Header struct {
	Version        uint8
	DeclaredLength uint32
	Method         types.EncryptionMethod
	MasterKeyID    string
}

// cursor reads fixed-width character fields from a string. Each take is
// greedy: it consumes up to n characters and lets the caller validate the
// count, so a short stream fails uniformly.
type cursor struct {
	s   string
	pos int
}

func (c *cursor) take(n int) string {
	end := c.pos + n
	if end > len(c.s) {
		end = len(c.s)
	}
	field := c.s[c.pos:end]
	c.pos = end
	return field
}

func (c *cursor) rest() string {
	return c.s[c.pos:]
}

// ParseHeader parses the leading HeaderSize characters of a ciphertext
// field. Every field is read to its full width before validation, so any
// truncation surfaces as a single invalid-header-size error.
func ParseHeader(ciphertext string) (Header, error) {
	c := &cursor{s: ciphertext}

	magic := c.take(3)
	if len(magic) != 3 {
		return Header{}, fmt.Errorf("%w: header has invalid size", types.ErrInvalidFormat)
	}
	if magic != headerMagic {
		return Header{}, fmt.Errorf("%w: identifier is not %q", types.ErrInvalidFormat, headerMagic)
	}

	versionField := c.take(2)
	if len(versionField) != 2 {
		return Header{}, fmt.Errorf("%w: header has invalid size", types.ErrInvalidFormat)
	}
	version, err := strconv.ParseUint(versionField, 16, 8)
	if err != nil {
		return Header{}, fmt.Errorf("%w: version is not a number", types.ErrInvalidFormat)
	}
	if version != headerVersion {
		return Header{}, fmt.Errorf("%w: unsupported version %d, need %d", types.ErrInvalidFormat, version, headerVersion)
	}

	lengthField := c.take(6)
	if len(lengthField) != 6 {
		return Header{}, fmt.Errorf("%w: header has invalid size", types.ErrInvalidFormat)
	}
	length, err := strconv.ParseUint(lengthField, 16, 32)
	if err != nil {
		return Header{}, fmt.Errorf("%w: length is not a number", types.ErrInvalidFormat)
	}
	if length != headerDeclaredLength {
		return Header{}, fmt.Errorf("%w: expected length %d (method + master key id), got %d",
			types.ErrInvalidFormat, headerDeclaredLength, length)
	}

	methodField := c.take(2)
	if len(methodField) != 2 {
		return Header{}, fmt.Errorf("%w: header has invalid size", types.ErrInvalidFormat)
	}
	methodCode, err := strconv.ParseUint(methodField, 16, 8)
	if err != nil {
		return Header{}, fmt.Errorf("%w: encryption method is not a number", types.ErrInvalidFormat)
	}
	method := types.EncryptionMethodFromCode(int(methodCode))
	if method == types.MethodUndefined {
		return Header{}, fmt.Errorf("%w: unknown encryption method %#02x", types.ErrInvalidFormat, methodCode)
	}

	// The key id is taken verbatim, not hex-decoded.
	keyID := c.take(keyIDLength)
	if len(keyID) != keyIDLength {
		return Header{}, fmt.Errorf("%w: header has invalid size", types.ErrInvalidFormat)
	}

	return Header{
		Version:        uint8(version),
		DeclaredLength: uint32(length),
		Method:         method,
		MasterKeyID:    keyID,
	}, nil
}

// Encode serializes the header back to its wire form. Encode and
// ParseHeader round-trip for every valid header.
func (h Header) Encode() string {
	return fmt.Sprintf("%s%02x%06x%02x%s",
		headerMagic, h.Version, h.DeclaredLength, int(h.Method), h.MasterKeyID)
}

// NewHeader returns the one header shape this reader supports, bound to
// the given method and master key id.
func NewHeader(method types.EncryptionMethod, masterKeyID string) Header {
	return Header{
		Version:        headerVersion,
		DeclaredLength: headerDeclaredLength,
		Method:         method,
		MasterKeyID:    masterKeyID,
	}
}
