package types

import "strings"

// MasterKey is the opaque key material recovered by decrypting a key file's
// content with a passphrase. It lives only in process memory.
type MasterKey string

// EncryptionMethod identifies the cipher suite named in an encryption
// header. Method 4 is used for key files and method 1a for notes; the
// rest are legacy.
type EncryptionMethod int

// Method codes as written in the envelope header.
const (
	MethodUndefined EncryptionMethod = 0x0
	MethodSJCL      EncryptionMethod = 0x1
	MethodSJCL2     EncryptionMethod = 0x2
	MethodSJCL3     EncryptionMethod = 0x3
	MethodSJCL4     EncryptionMethod = 0x4
	MethodSJCL1a    EncryptionMethod = 0x5
)

// EncryptionMethodFromCode maps a header method code to an
// EncryptionMethod. Unknown codes map to MethodUndefined.
func EncryptionMethodFromCode(code int) EncryptionMethod {
	if code >= int(MethodSJCL) && code <= int(MethodSJCL1a) {
		return EncryptionMethod(code)
	}
	return MethodUndefined
}

// String returns the method name as documented for the wire format.
func (m EncryptionMethod) String() string {
	switch m {
	case MethodSJCL:
		return "sjcl"
	case MethodSJCL2:
		return "sjcl2"
	case MethodSJCL3:
		return "sjcl3"
	case MethodSJCL4:
		return "sjcl4"
	case MethodSJCL1a:
		return "sjcl1a"
	default:
		return "undefined"
	}
}

// Decrypter is the external cipher capability. Implementations take a
// ciphertext unit as produced by the store and the key material it was
// encrypted under, and return the recovered bytes. Failures are generic;
// the reader wraps them in ErrDecryption.
type Decrypter interface {
	Decrypt(ciphertext string, key string) ([]byte, error)
}

// DecryptFunc adapts a plain function to the Decrypter interface.
type DecryptFunc func(ciphertext string, key string) ([]byte, error)

// Decrypt calls f.
func (f DecryptFunc) Decrypt(ciphertext string, key string) ([]byte, error) {
	return f(ciphertext, key)
}

// Credential pairs a master key id with the passphrase that unlocks its
// key file.
type Credential struct {
	KeyID      string
	Passphrase string
}

// ParseCredential parses the "<key_id>,<passphrase>" form used on the
// public surface. Only the first comma splits; passphrases may contain
// commas.
func ParseCredential(s string) (Credential, bool) {
	keyID, passphrase, ok := strings.Cut(s, ",")
	if !ok {
		return Credential{}, false
	}
	return Credential{KeyID: keyID, Passphrase: passphrase}, true
}
