// Package notebook provides the public API for reading satchel note
// stores. It wraps the internal store implementation behind a small
// construction surface.
//
// Example:
//
//	nb, err := notebook.Open("./Notes",
//	    []string{"3336eb7a2472d9ae4a690a978fa8a46f,passphrase"},
//	    notebook.WithDecrypter(dec))
//	if err != nil {
//	    return err
//	}
//	body, err := nb.ReadNote("9a20a9e4d336de70cb6d22a58a3e673c")
package notebook

import (
	"github.com/mesh-intelligence/satchel/internal/store"
	"github.com/mesh-intelligence/satchel/pkg/types"
)

// Version is the satchel release version.
const Version = "0.1.0"

// Notebook is a loaded note store. See the store package for the read
// and caching semantics.
type Notebook = store.Notebook

// Record is the metadata view of one indexed item.
type Record = store.Record

// Option configures a Notebook during Open.
type Option = store.Option

// RefreshInterval is how long cached note content stays fresh.
const RefreshInterval = store.RefreshInterval

// WithDecrypter installs the external cipher capability.
func WithDecrypter(dec types.Decrypter) Option { return store.WithDecrypter(dec) }

// WithKeyExtension overrides the master key file extension (default "md").
func WithKeyExtension(ext string) Option { return store.WithKeyExtension(ext) }

// WithClock overrides the refresh-policy time source.
func WithClock(clock store.Clock) Option { return store.WithClock(clock) }

// Open loads a store directory. Each password entry is a
// "<key_id>,<passphrase>" pair; entries without a comma are ignored.
func Open(dir string, passwords []string, opts ...Option) (*Notebook, error) {
	var creds []types.Credential
	for _, p := range passwords {
		if cred, ok := types.ParseCredential(p); ok {
			creds = append(creds, cred)
		}
	}
	return store.NewNotebook(dir, creds, opts...)
}
