// Package types defines the item and encryption enumerations, the typed
// note property record, the external decrypt capability, and standard
// errors for the satchel note-store reader.
package types

import "errors"

// Standard errors returned by the reader. Call sites wrap these with
// fmt.Errorf("%w: ...") so callers can match with errors.Is.
var (
	// ErrStoreRead reports a failure to enumerate the store directory.
	ErrStoreRead = errors.New("failed to read store directory")

	// ErrFileRead reports a failure to open or read an item or key file.
	ErrFileRead = errors.New("failed to read file")

	// ErrInvalidFormat reports a missing or malformed required field,
	// including malformed or short encryption headers.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrKeyIDMismatch reports that a key file's id does not match the id
	// it was requested under. Distinct from a wrong passphrase, which
	// surfaces as ErrDecryption.
	ErrKeyIDMismatch = errors.New("key id mismatch")

	// ErrNoEncryptionKey reports that the master key referenced by an
	// encrypted item is not loaded, or that a mandatory key file is absent.
	ErrNoEncryptionKey = errors.New("encryption key not found")

	// ErrNoEncryptionText reports an encrypted item that carries no
	// encryption_cipher_text field.
	ErrNoEncryptionText = errors.New("no encryption text provided")

	// ErrDecryption reports a cipher failure or a plaintext that is not
	// valid UTF-8.
	ErrDecryption = errors.New("failed to decrypt")

	// ErrUnexpectedEndOfNote reports a ciphertext chunk truncated short of
	// its declared length.
	ErrUnexpectedEndOfNote = errors.New("unexpected end of note")

	// ErrNoteNotFound reports an unknown note id.
	ErrNoteNotFound = errors.New("note not found")

	// ErrNoText reports that decoding succeeded but produced no body
	// property. Legitimate for non-note item types.
	ErrNoText = errors.New("no text found")

	// ErrNoCipher reports that no Decrypter is configured while one is
	// required to proceed.
	ErrNoCipher = errors.New("no decrypt capability configured")
)
