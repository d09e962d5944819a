package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetline/internal/domain"
)

func TestLocalStore_PutGetDelete(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "blobs/abc", []byte("a,b\n1,2\n")))

	data, err := store.Get(ctx, "blobs/abc")
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(data))

	require.NoError(t, store.Delete(ctx, "blobs/abc"))

	_, err = store.Get(ctx, "blobs/abc")
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestLocalStore_DeleteAbsentIsOK(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, store.Delete(context.Background(), "blobs/never"))
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	var verr *domain.ValidationError
	for _, key := range []string{"", "../etc/passwd", "/abs/path", "a/../../b"} {
		err := store.Put(context.Background(), key, []byte("x"))
		require.ErrorAs(t, err, &verr, "key %q", key)
	}
}

func TestLocalStore_Overwrite(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "k", []byte("one")))
	require.NoError(t, store.Put(ctx, "k", []byte("two")))

	data, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}
