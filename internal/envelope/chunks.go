package envelope

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

const chunkLengthWidth = 6

var (
	asciiEscapeRe   = regexp.MustCompile(`%([0-9a-fA-F]{2})`)
	unicodeEscapeRe = regexp.MustCompile(`%u[0-9a-fA-F]{4}`)
)

// DecryptChunks consumes the character stream immediately following the
// header: a sequence of 6-hex-length-prefixed ciphertext chunks. Each chunk
// is decrypted independently and the cleaned plaintexts are concatenated in
// stream order; later chunks may have been appended sequentially by the
// producer, so no reordering is permitted. Fewer than 6 characters
// remaining before a length field is the clean end of the stream; a chunk
// cut short of its declared length is ErrUnexpectedEndOfNote.
func DecryptChunks(dec types.Decrypter, stream string, key types.MasterKey) (string, error) {
	if dec == nil {
		return "", types.ErrNoCipher
	}

	c := &cursor{s: stream}
	var body strings.Builder
	for {
		lengthField := c.take(chunkLengthWidth)
		if len(lengthField) != chunkLengthWidth {
			break
		}
		length, err := strconv.ParseUint(lengthField, 16, 32)
		if err != nil {
			return "", fmt.Errorf("%w: chunk length is not a number", types.ErrDecryption)
		}

		data := c.take(int(length))
		if len(data) != int(length) {
			return "", types.ErrUnexpectedEndOfNote
		}

		plain, err := dec.Decrypt(data, string(key))
		if err != nil {
			return "", fmt.Errorf("%w: %v", types.ErrDecryption, err)
		}
		if !utf8.Valid(plain) {
			return "", fmt.Errorf("%w: chunk did not decrypt to valid UTF-8", types.ErrDecryption)
		}

		text := cleanASCIIEscapes(string(plain))
		text = cleanUnicodeEscapes(text)
		body.WriteString(text)
	}

	return percentDecode(body.String()), nil
}

// EncodeChunk length-prefixes one ciphertext unit the way the producer
// does.
func EncodeChunk(ciphertext string) string {
	return fmt.Sprintf("%06x%s", len(ciphertext), ciphertext)
}

// cleanASCIIEscapes replaces each legacy %XX escape with the raw byte
// value as a character, restoring characters the legacy producer escaped
// for ASCII safety.
func cleanASCIIEscapes(text string) string {
	return asciiEscapeRe.ReplaceAllStringFunc(text, func(m string) string {
		v, err := strconv.ParseUint(m[1:], 16, 8)
		if err != nil {
			return m
		}
		return string(rune(v))
	})
}

// cleanUnicodeEscapes removes each legacy %uXXXX escape entirely. This is
// lossy on purpose: the escapes carry single UTF-16 code units whose exact
// legacy semantics are unspecified, and the surrounding text matters more
// than reconstructing them.
func cleanUnicodeEscapes(text string) string {
	return unicodeEscapeRe.ReplaceAllString(text, "")
}

// percentDecode applies one pass of standard percent-decoding. Unlike
// net/url it is lossy: a % not followed by two hex digits passes through
// verbatim instead of failing the whole string.
func percentDecode(text string) string {
	if !strings.ContainsRune(text, '%') {
		return text
	}
	var out strings.Builder
	out.Grow(len(text))
	for i := 0; i < len(text); {
		if text[i] == '%' && i+2 < len(text) && isHex(text[i+1]) && isHex(text[i+2]) {
			v, _ := strconv.ParseUint(text[i+1:i+3], 16, 8)
			out.WriteByte(byte(v))
			i += 3
			continue
		}
		out.WriteByte(text[i])
		i++
	}
	return out.String()
}

func isHex(b byte) bool {
	switch {
	case b >= '0' && b <= '9', b >= 'a' && b <= 'f', b >= 'A' && b <= 'F':
		return true
	}
	return false
}
