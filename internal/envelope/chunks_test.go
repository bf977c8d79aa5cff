package envelope

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

// stubCipher is a reversible stand-in for the external cipher: ciphertext
// is "<key>:<hex(plaintext)>", so decryption is key-sensitive and the
// ciphertext stays ASCII like the real envelope.
type stubCipher struct{}

func (stubCipher) Decrypt(ciphertext string, key string) ([]byte, error) {
	ctKey, payload, ok := strings.Cut(ciphertext, ":")
	if !ok || ctKey != key {
		return nil, errors.New("cipher failure")
	}
	return hex.DecodeString(payload)
}

func stubEncrypt(plaintext, key string) string {
	return key + ":" + hex.EncodeToString([]byte(plaintext))
}

const testMasterKey = types.MasterKey("master-key-material")

func encryptChunks(t *testing.T, key types.MasterKey, plaintexts ...string) string {
	t.Helper()
	var stream strings.Builder
	for _, p := range plaintexts {
		stream.WriteString(EncodeChunk(stubEncrypt(p, string(key))))
	}
	return stream.String()
}

func TestDecryptChunksRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		chunks []string
		want   string
	}{
		{
			name:   "empty stream is clean termination",
			chunks: nil,
			want:   "",
		},
		{
			name:   "single chunk",
			chunks: []string{"Hello, world"},
			want:   "Hello, world",
		},
		{
			name:   "chunks concatenate in stream order",
			chunks: []string{"first ", "second ", "third"},
			want:   "first second third",
		},
		{
			name:   "multibyte plaintext survives",
			chunks: []string{"mäh ", "日本語"},
			want:   "mäh 日本語",
		},
		{
			name:   "zero-length chunk contributes nothing",
			chunks: []string{""},
			want:   "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stream := encryptChunks(t, testMasterKey, tt.chunks...)
			got, err := DecryptChunks(stubCipher{}, stream, testMasterKey)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecryptChunksLegacyEscapes(t *testing.T) {
	tests := []struct {
		name  string
		plain string
		want  string
	}{
		{
			name:  "two-hex escape restores the raw byte",
			plain: "a%20b",
			want:  "a b",
		},
		{
			name:  "unicode escape is dropped entirely",
			plain: "kindle%u201Cquote",
			want:  "kindlequote",
		},
		{
			name:  "unicode escape cleaned before final percent pass",
			plain: "%u0041x%41",
			want:  "xA",
		},
		{
			name:  "stray percent passes through",
			plain: "100% done",
			want:  "100% done",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stream := encryptChunks(t, testMasterKey, tt.plain)
			got, err := DecryptChunks(stubCipher{}, stream, testMasterKey)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecryptChunksEscapeSplitAcrossChunks(t *testing.T) {
	// A %XX escape cut at a chunk boundary survives per-chunk cleanup and
	// is resolved by the final percent-decoding pass.
	stream := encryptChunks(t, testMasterKey, "a%2", "0b")
	got, err := DecryptChunks(stubCipher{}, stream, testMasterKey)
	require.NoError(t, err)
	assert.Equal(t, "a b", got)
}

func TestDecryptChunksTrailingShortRunTerminates(t *testing.T) {
	// Fewer than 6 characters left before a length field is the clean end
	// of the stream, not an error.
	stream := encryptChunks(t, testMasterKey, "body") + "abc"
	got, err := DecryptChunks(stubCipher{}, stream, testMasterKey)
	require.NoError(t, err)
	assert.Equal(t, "body", got)
}

func TestDecryptChunksErrors(t *testing.T) {
	valid := encryptChunks(t, testMasterKey, "body text")

	t.Run("truncated chunk", func(t *testing.T) {
		_, err := DecryptChunks(stubCipher{}, valid[:len(valid)-4], testMasterKey)
		assert.ErrorIs(t, err, types.ErrUnexpectedEndOfNote)
	})

	t.Run("length not hex", func(t *testing.T) {
		_, err := DecryptChunks(stubCipher{}, "zzzzzz"+valid[6:], testMasterKey)
		assert.ErrorIs(t, err, types.ErrDecryption)
	})

	t.Run("wrong key", func(t *testing.T) {
		_, err := DecryptChunks(stubCipher{}, valid, "other-key")
		assert.ErrorIs(t, err, types.ErrDecryption)
	})

	t.Run("non-UTF-8 plaintext", func(t *testing.T) {
		raw := stubEncrypt("\xff\xfe", string(testMasterKey))
		_, err := DecryptChunks(stubCipher{}, EncodeChunk(raw), testMasterKey)
		assert.ErrorIs(t, err, types.ErrDecryption)
	})

	t.Run("nil decrypter", func(t *testing.T) {
		_, err := DecryptChunks(nil, valid, testMasterKey)
		assert.ErrorIs(t, err, types.ErrNoCipher)
	})
}

func TestDecryptChunksNoPartialPlaintextOnError(t *testing.T) {
	// Second chunk is truncated; nothing from the first chunk leaks out.
	stream := encryptChunks(t, testMasterKey, "good chunk")
	stream += EncodeChunk(stubEncrypt("bad", string(testMasterKey)))[:8]
	got, err := DecryptChunks(stubCipher{}, stream, testMasterKey)
	require.Error(t, err)
	assert.Empty(t, got)
}
