package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

// DefaultKeyExtension is the file extension of master key items in a
// store directory.
const DefaultKeyExtension = "md"

// Notebook owns the note and master key tables for one store directory.
// Both tables are read-mostly after construction. Notebook does no
// internal locking: construction must not overlap reads, and callers
// serialize ReadNote calls, which mutate per-record cache state.
type Notebook struct {
	dir    string
	keyExt string
	dec    types.Decrypter
	clock  Clock

	notes map[string]*Record
	keys  map[string]types.MasterKey
}

// Option configures a Notebook before it loads the store.
type Option func(*Notebook)

// WithDecrypter installs the external cipher capability used for key
// unlocking and chunk decryption. Without one, encrypted content is
// unreadable and ErrNoCipher surfaces where it is needed.
func WithDecrypter(dec types.Decrypter) Option {
	return func(n *Notebook) { n.dec = dec }
}

// WithKeyExtension overrides the master key file extension (default
// "md").
func WithKeyExtension(ext string) Option {
	return func(n *Notebook) { n.keyExt = strings.TrimPrefix(ext, ".") }
}

// WithClock overrides the time source used by the per-record refresh
// policy.
func WithClock(clock Clock) Option {
	return func(n *Notebook) { n.clock = clock }
}

// NewNotebook loads a store directory. Master keys load first: each
// credential names a key file <key_id>.<ext> that must exist (key
// material is a mandatory input, so a missing file is a hard
// ErrNoEncryptionKey), while a key that fails to unlock is skipped so
// partially validated passphrases still open the rest of the store. Then
// every regular file whose stem is not a loaded key id is indexed into a
// Record; items that fail to index are skipped rather than aborting the
// load.
func NewNotebook(dir string, creds []types.Credential, opts ...Option) (*Notebook, error) {
	n := &Notebook{
		dir:    dir,
		keyExt: DefaultKeyExtension,
		clock:  time.Now,
		notes:  make(map[string]*Record),
		keys:   make(map[string]types.MasterKey),
	}
	for _, opt := range opts {
		opt(n)
	}

	for _, cred := range creds {
		keyPath := filepath.Join(dir, cred.KeyID+"."+n.keyExt)
		if info, err := os.Stat(keyPath); err != nil || info.IsDir() {
			return nil, fmt.Errorf("%w: key file %s", types.ErrNoEncryptionKey, keyPath)
		}
		mk, err := LoadMasterKey(n.dec, keyPath, cred.KeyID, cred.Passphrase)
		if err != nil {
			continue
		}
		n.keys[cred.KeyID] = mk
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrStoreRead, dir)
	}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		if _, isKey := n.keys[stem]; isKey {
			continue
		}
		rec, err := NewRecord(filepath.Join(dir, name), n.clock)
		if err != nil {
			continue
		}
		n.notes[rec.ID()] = rec
	}

	return n, nil
}

// ReadNote returns the body of a note. Encrypted records resolve their
// master key from the key table first; a referenced key that is not
// loaded is ErrNoEncryptionKey, never a silent skip.
func (n *Notebook) ReadNote(id string) (string, error) {
	rec, ok := n.notes[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", types.ErrNoteNotFound, id)
	}

	var key *types.MasterKey
	if rec.Encrypted() {
		mk, ok := n.keys[rec.EncryptionKeyID()]
		if !ok {
			return "", fmt.Errorf("%w: %s", types.ErrNoEncryptionKey, rec.EncryptionKeyID())
		}
		key = &mk
	}
	return rec.Read(n.dec, key)
}

// GetNote returns the metadata record for a note id.
func (n *Notebook) GetNote(id string) (*Record, error) {
	rec, ok := n.notes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrNoteNotFound, id)
	}
	return rec, nil
}

// NoteIDs returns the indexed note ids in sorted order.
func (n *Notebook) NoteIDs() []string {
	ids := make([]string, 0, len(n.notes))
	for id := range n.notes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// MasterKeyIDs returns the ids of successfully loaded master keys, sorted.
func (n *Notebook) MasterKeyIDs() []string {
	ids := make([]string, 0, len(n.keys))
	for id := range n.keys {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
