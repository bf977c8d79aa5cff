package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

const noteID = "9a20a9e4d336de70cb6d22a58a3e673c"

func TestNewRecordMetadata(t *testing.T) {
	dir := t.TempDir()
	path := writePlainItem(t, dir, noteID, "Hello", "World body text", map[string]string{
		"parent_id":    "f0f0f0f0f0f0f0f0f0f0f0f0f0f0f0f0",
		"updated_time": "2021-01-02T03:04:05.000Z",
	})

	rec, err := NewRecord(path, nil)
	require.NoError(t, err)

	assert.Equal(t, noteID, rec.ID())
	assert.Equal(t, types.ItemNote, rec.Type())
	assert.False(t, rec.Encrypted())
	assert.Equal(t, "f0f0f0f0f0f0f0f0f0f0f0f0f0f0f0f0", rec.ParentID())
	assert.Empty(t, rec.EncryptionKeyID())
	require.NotNil(t, rec.UpdatedTime())
	assert.Equal(t, time.Date(2021, 1, 2, 3, 4, 5, 0, time.UTC), *rec.UpdatedTime())
}

func TestNewRecordResolvesKeyIDEagerly(t *testing.T) {
	dir := t.TempDir()
	path := writeEncryptedItem(t, dir, noteID, testKeyID, testMasterKey, "T", "B", nil)

	rec, err := NewRecord(path, nil)
	require.NoError(t, err)
	assert.True(t, rec.Encrypted())
	assert.Equal(t, testKeyID, rec.EncryptionKeyID())
}

func TestNewRecordErrors(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr error
	}{
		{
			name:    "missing id",
			text:    "type_: 1\nencryption_applied: 0\n",
			wantErr: types.ErrInvalidFormat,
		},
		{
			name:    "missing type_",
			text:    "id: " + noteID + "\nencryption_applied: 0\n",
			wantErr: types.ErrInvalidFormat,
		},
		{
			name:    "missing encryption_applied",
			text:    "id: " + noteID + "\ntype_: 1\n",
			wantErr: types.ErrInvalidFormat,
		},
		{
			name:    "bad encryption_applied",
			text:    "id: " + noteID + "\ntype_: 1\nencryption_applied: maybe\n",
			wantErr: types.ErrInvalidFormat,
		},
		{
			name:    "encrypted without ciphertext",
			text:    "id: " + noteID + "\ntype_: 1\nencryption_applied: 1\n",
			wantErr: types.ErrNoEncryptionText,
		},
		{
			name:    "encrypted with malformed header",
			text:    "id: " + noteID + "\ntype_: 1\nencryption_applied: 1\nencryption_cipher_text: XYZ01000022\n",
			wantErr: types.ErrInvalidFormat,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), noteID+".md")
			require.NoError(t, os.WriteFile(path, []byte(tt.text), 0o600))

			_, err := NewRecord(path, nil)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestReadPlaintext(t *testing.T) {
	dir := t.TempDir()
	path := writePlainItem(t, dir, noteID, "Hello", "World body text", map[string]string{
		"created_time": "2021-01-01T00:00:00.000Z",
	})

	rec, err := NewRecord(path, nil)
	require.NoError(t, err)

	body, err := rec.Read(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "World body text", body)

	props := rec.Properties()
	require.NotNil(t, props.Title)
	assert.Equal(t, "Hello", *props.Title)
	require.NotNil(t, props.CreatedTime)
	assert.Equal(t, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), *props.CreatedTime)
}

func TestReadEncrypted(t *testing.T) {
	dir := t.TempDir()
	path := writeEncryptedItem(t, dir, noteID, testKeyID, testMasterKey, "Secret", "hidden text", nil)

	rec, err := NewRecord(path, nil)
	require.NoError(t, err)

	key := types.MasterKey(testMasterKey)
	body, err := rec.Read(stubCipher{}, &key)
	require.NoError(t, err)
	assert.Equal(t, "hidden text", body)
}

func TestReadEncryptedWithoutKey(t *testing.T) {
	dir := t.TempDir()
	path := writeEncryptedItem(t, dir, noteID, testKeyID, testMasterKey, "Secret", "hidden", nil)

	rec, err := NewRecord(path, nil)
	require.NoError(t, err)

	_, err = rec.Read(stubCipher{}, nil)
	assert.ErrorIs(t, err, types.ErrNoEncryptionKey)
}

func TestReadEncryptedWrongKey(t *testing.T) {
	dir := t.TempDir()
	path := writeEncryptedItem(t, dir, noteID, testKeyID, testMasterKey, "Secret", "hidden", nil)

	rec, err := NewRecord(path, nil)
	require.NoError(t, err)

	key := types.MasterKey("not-the-master-key")
	_, err = rec.Read(stubCipher{}, &key)
	assert.ErrorIs(t, err, types.ErrDecryption)
}

func TestReadNonNoteIsNoText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folder1.md")
	text := "My folder\n\nid: folder1\ntype_: 2\nencryption_applied: 0"
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))

	rec, err := NewRecord(path, nil)
	require.NoError(t, err)
	require.Equal(t, types.ItemFolder, rec.Type())

	_, err = rec.Read(nil, nil)
	assert.ErrorIs(t, err, types.ErrNoText)

	// The decode itself succeeded; the title is cached.
	props := rec.Properties()
	require.NotNil(t, props.Title)
	assert.Equal(t, "My folder", *props.Title)
}

func TestReadRefreshPolicy(t *testing.T) {
	dir := t.TempDir()
	clock := newManualClock()
	path := writePlainItem(t, dir, noteID, "T", "original body", nil)

	rec, err := NewRecord(path, clock.Now)
	require.NoError(t, err)

	body, err := rec.Read(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "original body", body)

	// Change the file on disk; within the refresh interval the cache is
	// served without reopening.
	writePlainItem(t, dir, noteID, "T", "changed body", nil)
	clock.Advance(RefreshInterval - time.Minute)
	body, err = rec.Read(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "original body", body)

	// Once the interval elapses the read reloads from disk.
	clock.Advance(2 * time.Minute)
	body, err = rec.Read(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "changed body", body)
}

func TestReadFailedReloadKeepsCache(t *testing.T) {
	dir := t.TempDir()
	clock := newManualClock()
	path := writePlainItem(t, dir, noteID, "T", "good body", nil)

	rec, err := NewRecord(path, clock.Now)
	require.NoError(t, err)

	_, err = rec.Read(nil, nil)
	require.NoError(t, err)

	// Corrupt the file, expire the cache: the reload fails and the error
	// propagates, but the previously cached state is untouched.
	require.NoError(t, os.WriteFile(path, []byte("no type here\n\nbody"), 0o600))
	clock.Advance(RefreshInterval)

	_, err = rec.Read(nil, nil)
	require.ErrorIs(t, err, types.ErrInvalidFormat)

	props := rec.Properties()
	require.NotNil(t, props.Body)
	assert.Equal(t, "good body", *props.Body)
}
