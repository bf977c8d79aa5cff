package store

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mesh-intelligence/satchel/internal/envelope"
	"github.com/mesh-intelligence/satchel/internal/format"
	"github.com/mesh-intelligence/satchel/pkg/types"
)

// RefreshInterval is how long cached decoded content stays fresh before a
// read triggers a full reload.
const RefreshInterval = 12 * time.Hour

// Item files embed whole encrypted payloads on single lines; the scanner
// limit has to accommodate them.
const maxLineBytes = 16 * 1024 * 1024

// Clock supplies the current time. Injectable so the refresh policy is
// testable.
type Clock func() time.Time

// Record holds one item's identity and encryption linkage, parsed eagerly
// from metadata, plus decoded content cached by Read. A record is created
// when the Notebook indexes the store and lives for the Notebook's
// lifetime.
type Record struct {
	path            string
	id              string
	itemType        types.ItemType
	encrypted       bool
	parentID        string
	encryptionKeyID string
	updatedTime     *time.Time

	clock    Clock
	loaded   bool
	lastRead time.Time
	props    types.NoteProperties
}

// NewRecord indexes one item file: metadata only, no content decode. The
// id, type_ and encryption_applied properties are required. For encrypted
// items the envelope header is parsed up front to resolve the master key
// id, so a malformed header fails here rather than on first read.
func NewRecord(path string, clock Clock) (*Record, error) {
	if clock == nil {
		clock = time.Now
	}

	kv, err := scanKeyValues(path)
	if err != nil {
		return nil, err
	}

	id, ok := kv[format.KeyID]
	if !ok {
		return nil, fmt.Errorf("%w: no id specified in item", types.ErrInvalidFormat)
	}
	rawType, ok := kv[format.KeyType]
	if !ok {
		return nil, fmt.Errorf("%w: no type_ specified in item", types.ErrInvalidFormat)
	}
	typeCode, err := strconv.Atoi(rawType)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid value specified for type_", types.ErrInvalidFormat)
	}
	rawApplied, ok := kv[format.KeyEncryption]
	if !ok {
		return nil, fmt.Errorf("%w: no encryption_applied specified in item", types.ErrInvalidFormat)
	}
	applied, err := strconv.ParseInt(rawApplied, 10, 8)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid value specified for encryption_applied", types.ErrInvalidFormat)
	}

	r := &Record{
		path:        path,
		id:          id,
		itemType:    types.ItemTypeFromCode(typeCode),
		encrypted:   applied == 1,
		parentID:    kv[format.KeyParentID],
		updatedTime: format.ParseTime(kv[format.KeyUpdated]),
		clock:       clock,
	}

	if r.encrypted {
		cipherText, ok := kv[format.KeyCipherText]
		if !ok || cipherText == "" {
			return nil, types.ErrNoEncryptionText
		}
		header, err := envelope.ParseHeader(cipherText)
		if err != nil {
			return nil, err
		}
		r.encryptionKeyID = header.MasterKeyID
	}

	return r, nil
}

// ID returns the item id declared inside the file.
func (r *Record) ID() string { return r.id }

// Type returns the item type.
func (r *Record) Type() types.ItemType { return r.itemType }

// Encrypted reports whether the item content is encrypted.
func (r *Record) Encrypted() bool { return r.encrypted }

// ParentID returns the parent item id, empty when absent.
func (r *Record) ParentID() string { return r.parentID }

// EncryptionKeyID returns the master key id an encrypted item references,
// empty for plaintext items.
func (r *Record) EncryptionKeyID() string { return r.encryptionKeyID }

// UpdatedTime returns the item's updated_time, nil when absent or
// malformed.
func (r *Record) UpdatedTime() *time.Time { return r.updatedTime }

// Properties returns the cached decoded properties. Zero-valued until the
// first successful Read.
func (r *Record) Properties() types.NoteProperties { return r.props }

// Read returns the item body. Content is loaded on first use and reloaded
// once RefreshInterval has elapsed since the last successful load;
// otherwise the cache is served unchanged. A reload that fails propagates
// the error without touching previously cached state. A decode that
// produces no body property is ErrNoText, which is the expected outcome
// for non-note item types.
//
// key is the resolved master key for encrypted items, nil for plaintext
// ones. Read mutates the record; callers serialize access.
func (r *Record) Read(dec types.Decrypter, key *types.MasterKey) (string, error) {
	if !r.loaded || r.clock().Sub(r.lastRead) >= RefreshInterval {
		kv, err := r.loadContent(dec, key)
		if err != nil {
			return "", err
		}
		r.props = format.PropertiesFromMap(kv)
		r.loaded = true
		r.lastRead = r.clock()
	}

	if r.props.Body == nil {
		return "", types.ErrNoText
	}
	return *r.props.Body, nil
}

func (r *Record) loadContent(dec types.Decrypter, key *types.MasterKey) (map[string]string, error) {
	if r.encrypted {
		return r.readDecrypted(dec, key)
	}
	return r.readPlaintext()
}

// readPlaintext re-opens the file and runs the full text through the
// reverse deserializer.
func (r *Record) readPlaintext() (map[string]string, error) {
	lines, err := scanLines(r.path)
	if err != nil {
		return nil, err
	}
	return format.Deserialize(lines)
}

// readDecrypted re-opens the file, extracts the ciphertext field, skips
// the envelope header, decrypts the chunk stream and deserializes the
// recovered text.
func (r *Record) readDecrypted(dec types.Decrypter, key *types.MasterKey) (map[string]string, error) {
	if key == nil {
		return nil, types.ErrNoEncryptionKey
	}

	kv, err := scanKeyValues(r.path)
	if err != nil {
		return nil, err
	}
	cipherText, ok := kv[format.KeyCipherText]
	if !ok {
		return nil, types.ErrNoEncryptionText
	}
	if !isASCII(cipherText) {
		return nil, fmt.Errorf("%w: encrypted text is not ascii", types.ErrDecryption)
	}
	if len(cipherText) < envelope.HeaderSize {
		return nil, fmt.Errorf("%w: header has invalid size", types.ErrInvalidFormat)
	}

	plaintext, err := envelope.DecryptChunks(dec, cipherText[envelope.HeaderSize:], *key)
	if err != nil {
		return nil, err
	}
	return format.Deserialize(splitLines(plaintext))
}

// scanKeyValues collects the key:value lines of a file, last value
// winning on duplicates. Lines without a colon are ignored.
func scanKeyValues(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrFileRead, path)
	}
	defer f.Close()

	kv := make(map[string]string)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		if key, value, ok := format.SplitKeyValue(scanner.Text()); ok {
			kv[key] = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrFileRead, path)
	}
	return kv, nil
}

// scanLines materializes a file as a line buffer for the backward pass.
func scanLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrFileRead, path)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrFileRead, path)
	}
	return lines, nil
}

func splitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, text[start:i])
			start = i + 1
		}
	}
	return append(lines, text[start:])
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7f {
			return false
		}
	}
	return true
}
