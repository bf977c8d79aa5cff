// Shared fixtures for store tests: a reversible stub cipher and writers
// for key and item files in the external formats.
package store

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/satchel/internal/envelope"
	"github.com/mesh-intelligence/satchel/internal/format"
	"github.com/mesh-intelligence/satchel/pkg/types"
)

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

const (
	testKeyID     = "11112222333344445555666677778888"
	testMasterKey = "recovered-master-key-material"
	testPass      = "hunter2"
)

// writeKeyFile writes a master key file: the key material encrypted under
// the passphrase, stored as the content field.
func writeKeyFile(t *testing.T, dir, keyID, masterKey, passphrase string) string {
	t.Helper()
	path := filepath.Join(dir, keyID+".md")
	text := "id: " + keyID + "\ncontent: " + stubEncrypt(masterKey, passphrase) + "\n"
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
	return path
}

// writePlainItem writes an unencrypted item file in the serialized form.
func writePlainItem(t *testing.T, dir, id, title, body string, props map[string]string) string {
	t.Helper()
	merged := map[string]string{
		format.KeyID:         id,
		format.KeyType:       "1",
		format.KeyEncryption: "0",
	}
	for k, v := range props {
		merged[k] = v
	}
	path := filepath.Join(dir, id+".md")
	text := format.Serialize(title, body, merged)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
	return path
}

// writeEncryptedItem writes an item whose serialized content is wrapped in
// the chunk envelope under the given master key, with the plaintext
// metadata prefix alongside.
func writeEncryptedItem(t *testing.T, dir, id, keyID, masterKey, title, body string, props map[string]string) string {
	t.Helper()
	inner := map[string]string{
		format.KeyID:         id,
		format.KeyType:       "1",
		format.KeyEncryption: "0",
	}
	for k, v := range props {
		inner[k] = v
	}
	payload := format.Serialize(title, body, inner)

	cipherText := envelope.NewHeader(types.MethodSJCL1a, keyID).Encode() +
		envelope.EncodeChunk(stubEncrypt(payload, masterKey))

	itemType := inner[format.KeyType]
	text := "id: " + id + "\n" +
		"type_: " + itemType + "\n" +
		"encryption_applied: 1\n" +
		"encryption_cipher_text: " + cipherText + "\n"

	path := filepath.Join(dir, id+".md")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
	return path
}

// manualClock is an adjustable time source for refresh-policy tests.
type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time {
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}
