package minio

import (
	"context"
	"os"
	"testing"

	"github.com/hupe1980/vizsync/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateError(t *testing.T) {
	assert.ErrorIs(t, translateError(minio.ErrorResponse{Code: "NoSuchKey"}), blobstore.ErrNotFound)
	assert.ErrorIs(t, translateError(minio.ErrorResponse{Code: "NotFound"}), blobstore.ErrNotFound)

	denied := minio.ErrorResponse{Code: "AccessDenied"}
	assert.Equal(t, denied, translateError(denied))
}

func TestStore_Key(t *testing.T) {
	s := &Store{prefix: "demo/"}
	assert.Equal(t, "demo/energy.json", s.key("energy.json"))
}

// TestStore_Integration requires a running MinIO instance addressed by
// VIZSYNC_MINIO_ENDPOINT.
func TestStore_Integration(t *testing.T) {
	endpoint := os.Getenv("VIZSYNC_MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("VIZSYNC_MINIO_ENDPOINT not set")
	}
	ctx := context.Background()
	bucket := "vizsync-test"

	store, err := New(endpoint, bucket, "test-prefix/", WithCredentials("minioadmin", "minioadmin"))
	require.NoError(t, err)

	exists, err := store.client.BucketExists(ctx, bucket)
	if err != nil {
		t.Skipf("MinIO not available: %v", err)
	}
	if !exists {
		require.NoError(t, store.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	require.NoError(t, store.Put(ctx, "energy.json", []byte(`{"timeLabels":["2020"]}`)))

	data, err := store.Get(ctx, "energy.json")
	require.NoError(t, err)
	assert.Equal(t, `{"timeLabels":["2020"]}`, string(data))

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, names, "energy.json")

	require.NoError(t, store.Delete(ctx, "energy.json"))
	_, err = store.Get(ctx, "energy.json")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
