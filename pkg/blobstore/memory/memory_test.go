package memory_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmgrid/filmgrid/pkg/blobstore"
	memorystorage "github.com/filmgrid/filmgrid/pkg/blobstore/memory"
)

func TestMemoryBackend(t *testing.T) {
	backend := memorystorage.New()
	ctx := context.Background()
	testKey := "film/42/720p"
	testData := "not really an mp4"

	t.Run("Upload", func(t *testing.T) {
		err := backend.Upload(ctx, testKey, strings.NewReader(testData), "video/mp4")
		assert.NoError(t, err)
	})

	t.Run("Download", func(t *testing.T) {
		reader, err := backend.Download(ctx, testKey)
		require.NoError(t, err)
		defer reader.Close()

		data, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.Equal(t, testData, string(data))
	})

	t.Run("UploadOverwritesLastWriteWins", func(t *testing.T) {
		err := backend.Upload(ctx, testKey, strings.NewReader("second write"), "video/mp4")
		require.NoError(t, err)

		reader, err := backend.Download(ctx, testKey)
		require.NoError(t, err)
		defer reader.Close()

		data, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.Equal(t, "second write", string(data))
	})

	t.Run("ListByPrefix", func(t *testing.T) {
		require.NoError(t, backend.Upload(ctx, "film/42/360p", strings.NewReader("a"), "video/mp4"))
		require.NoError(t, backend.Upload(ctx, "film/42/480p", strings.NewReader("b"), "video/mp4"))
		require.NoError(t, backend.Upload(ctx, "film/7/360p", strings.NewReader("c"), "video/mp4"))

		infos, err := backend.List(ctx, "film/42/")
		require.NoError(t, err)
		require.Len(t, infos, 3)
		assert.Equal(t, "film/42/360p", infos[0].Key)
		assert.Equal(t, "film/42/480p", infos[1].Key)
		assert.Equal(t, "film/42/720p", infos[2].Key)

		// Listing restarts from current state on every call.
		require.NoError(t, backend.Delete(ctx, "film/42/480p"))
		infos, err = backend.List(ctx, "film/42/")
		require.NoError(t, err)
		assert.Len(t, infos, 2)
	})

	t.Run("DownloadMissingKey", func(t *testing.T) {
		_, err := backend.Download(ctx, "film/999/360p")
		assert.ErrorIs(t, err, blobstore.ErrObjectNotFound)
	})

	t.Run("DeleteIsIdempotent", func(t *testing.T) {
		key := "image/42"
		require.NoError(t, backend.Upload(ctx, key, strings.NewReader("png"), "image/png"))

		assert.NoError(t, backend.Delete(ctx, key))
		// Deleting a key that is already gone still succeeds.
		assert.NoError(t, backend.Delete(ctx, key))
	})

	t.Run("SignedURL", func(t *testing.T) {
		url, err := backend.SignedURL(ctx, testKey, time.Hour)
		require.NoError(t, err)
		assert.Contains(t, url, testKey)
		assert.Contains(t, url, "expires=")
	})

	t.Run("SignedURLMissingKey", func(t *testing.T) {
		_, err := backend.SignedURL(ctx, "film/999/360p", time.Hour)
		assert.ErrorIs(t, err, blobstore.ErrObjectNotFound)
	})
}

func TestMemoryBackendDeleteBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("DeletesAllKeys", func(t *testing.T) {
		backend := memorystorage.New()
		keys := []string{"film/42/360p", "film/42/480p", "image/42"}
		for _, k := range keys {
			require.NoError(t, backend.Upload(ctx, k, strings.NewReader("x"), ""))
		}

		require.NoError(t, backend.DeleteBatch(ctx, keys))
		for _, k := range keys {
			assert.False(t, backend.Exists(k))
		}
	})

	t.Run("ReportsExactlyTheFailedSubset", func(t *testing.T) {
		backend := memorystorage.New()
		keys := []string{"film/42/360p", "film/42/480p", "film/42/720p", "film/42/1080p", "image/42"}
		for _, k := range keys {
			require.NoError(t, backend.Upload(ctx, k, strings.NewReader("x"), ""))
		}
		backend.FailDeletes("film/42/480p", "image/42")

		err := backend.DeleteBatch(ctx, keys)
		require.Error(t, err)

		var partial *blobstore.PartialDeleteError
		require.True(t, errors.As(err, &partial))
		assert.ElementsMatch(t, []string{"film/42/480p", "image/42"}, partial.Failed)

		// The rest of the batch was deleted.
		assert.False(t, backend.Exists("film/42/360p"))
		assert.False(t, backend.Exists("film/42/720p"))
		assert.False(t, backend.Exists("film/42/1080p"))
		assert.True(t, backend.Exists("film/42/480p"))

		// Retrying only the failed subset after the fault clears succeeds.
		backend.ClearFailures()
		require.NoError(t, backend.DeleteBatch(ctx, partial.Failed))
		assert.False(t, backend.Exists("film/42/480p"))
		assert.False(t, backend.Exists("image/42"))
	})
}

func TestMemoryBackendConcurrency(t *testing.T) {
	backend := memorystorage.New()
	ctx := context.Background()

	const numGoroutines = 10
	const numOperations = 50

	done := make(chan bool, numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer func() { done <- true }()
			for j := 0; j < numOperations; j++ {
				key := fmt.Sprintf("film/%d/%d", id, j)
				data := fmt.Sprintf("data %d/%d", id, j)

				require.NoError(t, backend.Upload(ctx, key, strings.NewReader(data), ""))

				reader, err := backend.Download(ctx, key)
				require.NoError(t, err)
				got, err := io.ReadAll(reader)
				require.NoError(t, err)
				reader.Close()
				assert.Equal(t, data, string(got))

				require.NoError(t, backend.Delete(ctx, key))
			}
		}(i)
	}
	for i := 0; i < numGoroutines; i++ {
		<-done
	}
}
