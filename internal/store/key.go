// Package store implements the note store: master key loading, per-item
// records with their caching policy, and the Notebook that orchestrates
// them.
package store

import (
	"bufio"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/mesh-intelligence/satchel/internal/format"
	"github.com/mesh-intelligence/satchel/pkg/types"
)

// LoadMasterKey reads a key file and unlocks the master key it holds. A
// key file is line-oriented key:value text; id and content are required
// and the last value wins on duplicates. The id must match keyID exactly,
// ErrKeyIDMismatch otherwise; a wrong key file and a wrong passphrase
// are different failure classes. The content decrypts with the
// passphrase through dec; any cipher failure returns ErrDecryption with
// no partial key.
//
// Pure function of its inputs; callers own the returned key material.
func LoadMasterKey(dec types.Decrypter, path, keyID, passphrase string) (types.MasterKey, error) {
	if dec == nil {
		return "", types.ErrNoCipher
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", types.ErrFileRead, path)
	}
	defer f.Close()

	var id, content string
	var hasID, hasContent bool
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		key, value, ok := format.SplitKeyValue(scanner.Text())
		if !ok {
			continue
		}
		switch key {
		case format.KeyID:
			id, hasID = value, true
		case format.KeyContent:
			content, hasContent = value, true
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("%w: %s", types.ErrFileRead, path)
	}

	if !hasID {
		return "", fmt.Errorf("%w: no id specified in key file", types.ErrInvalidFormat)
	}
	if !hasContent {
		return "", fmt.Errorf("%w: no content specified in key file", types.ErrInvalidFormat)
	}
	if id != keyID {
		return "", types.ErrKeyIDMismatch
	}

	plain, err := dec.Decrypt(content, passphrase)
	if err != nil {
		return "", fmt.Errorf("%w: failed to load master key", types.ErrDecryption)
	}
	if !utf8.Valid(plain) {
		return "", fmt.Errorf("%w: master key is not valid UTF-8", types.ErrDecryption)
	}
	return types.MasterKey(plain), nil
}
