// Package format implements the flat text item codec: the reverse-order
// deserializer that disambiguates body from properties, the forward
// serializer, and the typed property conversion.
//
// The general item layout is Title\n\nBody\n\nkey: value lines. Because a
// blank line is both the section separator and legal body content, the
// format can only be disambiguated by scanning from the end: everything up
// to the first blank line (reading backwards) is the key:value block, the
// rest is body.
package format

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

// Property keys with structural meaning in the serialized form.
const (
	KeyType       = "type_"
	KeyTitle      = "title"
	KeyBody       = "body"
	KeyID         = "id"
	KeyParentID   = "parent_id"
	KeyEncryption = "encryption_applied"
	KeyCipherText = "encryption_cipher_text"
	KeyUpdated    = "updated_time"
	KeyContent    = "content"
)

// SplitKeyValue splits a line on its first colon and trims both halves.
// ok is false when the line has no colon.
func SplitKeyValue(line string) (key, value string, ok bool) {
	key, value, ok = strings.Cut(line, ":")
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(key), strings.TrimSpace(value), true
}

// Deserialize converts the serialized item text, given as lines in file
// order, into a flat key/value map. The scan runs backwards over the line
// buffer with a two-state machine (props, then body): while in props, a
// blank line switches to body and every other line must be a key:value
// pair; while in body, lines are prepended to restore original order.
// Because the scan is reversed and overwrites on duplicates, the first
// occurrence of a key in reading order wins.
//
// The map must contain an integer type_ property. A non-empty body buffer
// contributes its first line as title (with the following blank separator
// dropped); the remaining lines become the body property for note items
// only.
func Deserialize(lines []string) (map[string]string, error) {
	kv := make(map[string]string)
	var body []string

	const (
		stateProps = iota
		stateBody
	)
	state := stateProps

	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		switch state {
		case stateProps:
			if line == "" {
				state = stateBody
				continue
			}
			key, value, ok := SplitKeyValue(line)
			if !ok {
				return nil, fmt.Errorf("%w: invalid property format", types.ErrInvalidFormat)
			}
			kv[key] = value
		case stateBody:
			body = append([]string{line}, body...)
		}
	}

	rawType, ok := kv[KeyType]
	if !ok {
		return nil, fmt.Errorf("%w: missing required property: %s", types.ErrInvalidFormat, KeyType)
	}
	typeCode, err := strconv.Atoi(rawType)
	if err != nil {
		return nil, fmt.Errorf("%w: missing required property: %s", types.ErrInvalidFormat, KeyType)
	}
	itemType := types.ItemTypeFromCode(typeCode)

	if len(body) > 0 {
		kv[KeyTitle] = body[0]
		body = body[1:]
		// Drop the title/body separator blank.
		if len(body) > 0 {
			body = body[1:]
		}
	}
	if itemType == types.ItemNote {
		kv[KeyBody] = strings.Join(body, "\n")
	}

	return kv, nil
}

// Serialize produces the forward item form: title, blank line, body, blank
// line, then the key:value block. Properties are emitted in sorted key
// order for determinism; title and body keys are ignored in props since
// they are carried positionally.
func Serialize(title, body string, props map[string]string) string {
	keys := make([]string, 0, len(props))
	for k := range props {
		if k == KeyTitle || k == KeyBody {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")
	b.WriteString(body)
	b.WriteString("\n\n")
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(props[k])
	}
	return b.String()
}
