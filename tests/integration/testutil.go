// Package integration exercises the public notebook surface against
// store directories built on disk, the way an external consumer would
// use the library.
package integration

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

// newItemID generates a store-shaped item id: 32 hex characters, an
// undashed UUID.
func newItemID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// stubCipher stands in for the external cipher capability: ciphertext is
// "<key>:<hex(plaintext)>", key-sensitive and ASCII-safe.
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

// encodeEnvelope wraps a serialized payload in the wire envelope: fixed
// header plus length-prefixed chunks, split at chunkSize characters of
// plaintext per chunk.
func encodeEnvelope(keyID, masterKey, payload string, chunkSize int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "JED0100002205%s", keyID)
	for start := 0; start < len(payload) || start == 0; start += chunkSize {
		end := start + chunkSize
		if end > len(payload) {
			end = len(payload)
		}
		ct := stubEncrypt(payload[start:end], masterKey)
		fmt.Fprintf(&b, "%06x%s", len(ct), ct)
		if end == len(payload) {
			break
		}
	}
	return b.String()
}

// serializeItem produces the forward item text: title, body, then the
// key:value block in sorted order.
func serializeItem(title, body string, props map[string]string) string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(title + "\n\n" + body + "\n\n")
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(k + ": " + props[k])
	}
	return b.String()
}

// storeBuilder accumulates files for one store directory.
type storeBuilder struct {
	t   *testing.T
	dir string
}

func newStore(t *testing.T) *storeBuilder {
	t.Helper()
	return &storeBuilder{t: t, dir: t.TempDir()}
}

func (s *storeBuilder) writeFile(name, text string) {
	s.t.Helper()
	require.NoError(s.t, os.WriteFile(filepath.Join(s.dir, name), []byte(text), 0o600))
}

// addMasterKey writes a key file and returns its id.
func (s *storeBuilder) addMasterKey(masterKey, passphrase string) string {
	s.t.Helper()
	keyID := newItemID()
	s.writeFile(keyID+".md",
		"id: "+keyID+"\ncontent: "+stubEncrypt(masterKey, passphrase)+"\n")
	return keyID
}

// addNote writes a plaintext note and returns its id.
func (s *storeBuilder) addNote(title, body string, extra map[string]string) string {
	s.t.Helper()
	id := newItemID()
	props := map[string]string{
		"id":                 id,
		"type_":              "1",
		"encryption_applied": "0",
	}
	for k, v := range extra {
		props[k] = v
	}
	s.writeFile(id+".md", serializeItem(title, body, props))
	return id
}

// addEncryptedNote wraps a serialized note in the envelope under the
// given master key and returns its id.
func (s *storeBuilder) addEncryptedNote(keyID, masterKey, title, body string, chunkSize int) string {
	s.t.Helper()
	id := newItemID()
	payload := serializeItem(title, body, map[string]string{
		"id":                 id,
		"type_":              "1",
		"encryption_applied": "0",
	})
	text := "id: " + id + "\n" +
		"type_: 1\n" +
		"encryption_applied: 1\n" +
		"encryption_cipher_text: " + encodeEnvelope(keyID, masterKey, payload, chunkSize) + "\n"
	s.writeFile(id+".md", text)
	return id
}

// creds formats Open's credential strings.
func creds(pairs ...[2]string) []string {
	out := make([]string, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, p[0]+","+p[1])
	}
	return out
}

var _ types.Decrypter = stubCipher{}
