package blob

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnex_quiz/internal/common"
)

func zipOf(t *testing.T, entries map[string][]byte, order ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range order {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(entries[name])
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "b.json", []byte("two")))
	require.NoError(t, s.Put(ctx, "a.json", []byte("one")))

	names, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.json", "b.json"}, names)

	data, err := s.Get(ctx, "a.json")
	require.NoError(t, err)
	assert.Equal(t, "one", string(data))

	_, err = s.Get(ctx, "missing.json")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestReadTextPlain(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Put(context.Background(), "match.txt", []byte("India won by 5 wickets")))

	text, err := ReadText(context.Background(), s, "match.txt")
	require.NoError(t, err)
	assert.Equal(t, "India won by 5 wickets", text)
}

func TestReadTextUnpacksZip(t *testing.T) {
	s := NewMemoryStore()
	archive := zipOf(t, map[string][]byte{
		"matches/":         nil,
		"matches/one.json": []byte(`{"id":1}`),
		"matches/logo.png": {0xff, 0xd8, 0xff, 0x00},
	}, "matches/", "matches/one.json", "matches/logo.png")
	require.NoError(t, s.Put(context.Background(), "Data.ZIP", archive))

	text, err := ReadText(context.Background(), s, "Data.ZIP")
	require.NoError(t, err)
	assert.Equal(t,
		"--- File: matches/one.json ---\n{\"id\":1}\n\n--- File: matches/logo.png (Skipped: Binary or non-UTF-8) ---\n",
		text)
}

func TestReadTextEmptyZipIsMalformed(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Put(context.Background(), "empty.zip", zipOf(t, nil)))

	_, err := ReadText(context.Background(), s, "empty.zip")
	var blobErr *Error
	require.ErrorAs(t, err, &blobErr)
	assert.Equal(t, KindMalformed, blobErr.Kind)
	assert.ErrorIs(t, err, common.ErrUpstream)
}

func TestReadTextCorruptZip(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Put(context.Background(), "broken.zip", []byte("not a zip")))

	_, err := ReadText(context.Background(), s, "broken.zip")
	var blobErr *Error
	require.ErrorAs(t, err, &blobErr)
	assert.Equal(t, KindMalformed, blobErr.Kind)
	assert.Contains(t, err.Error(), "not a valid zip file")
}

func TestUnconfiguredStore(t *testing.T) {
	s, err := NewStore(context.Background(), "", "cricket-data")
	require.NoError(t, err)
	assert.False(t, Configured(s))
	assert.True(t, Configured(NewMemoryStore()))

	_, err = s.List(context.Background())
	assert.ErrorIs(t, err, common.ErrServiceUnavailable)

	err = s.Put(context.Background(), "x", []byte("y"))
	var blobErr *Error
	require.ErrorAs(t, err, &blobErr)
	assert.Equal(t, KindNotConfigured, blobErr.Kind)
}
