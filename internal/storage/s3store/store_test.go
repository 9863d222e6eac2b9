package s3store

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/vortex-care/internal/storage"
)

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.Error(t, err)
}

func TestObjectKey(t *testing.T) {
	s := &Store{prefix: "snapshots/"}
	assert.Equal(t, "snapshots/vortex-users.json", s.objectKey("vortex-users"))
}

func TestStore_S3(t *testing.T) {
	bucket := os.Getenv("TEST_S3_BUCKET")
	if bucket == "" {
		t.Skip("TEST_S3_BUCKET not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	s, err := New(ctx, Config{
		Bucket:    bucket,
		Region:    os.Getenv("TEST_S3_REGION"),
		Endpoint:  os.Getenv("TEST_S3_ENDPOINT"),
		PathStyle: strings.EqualFold(os.Getenv("TEST_S3_PATH_STYLE"), "true"),
		Prefix:    "test/",
	})
	require.NoError(t, err)

	key := "test-" + uuid.NewString()
	defer func() { _ = s.Delete(context.Background(), key) }()

	_, err = s.Get(ctx, key)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.Put(ctx, key, []byte(`{"ok":true}`)))
	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(got))
}
