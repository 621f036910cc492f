package files

import (
	"context"
	"encoding/base64"
	"errors"
	"sync"
	"testing"

	"github.com/marmos91/cabinet/pkg/catalog"
	catalogmem "github.com/marmos91/cabinet/pkg/catalog/memory"
	"github.com/marmos91/cabinet/pkg/content"
	contentmem "github.com/marmos91/cabinet/pkg/content/memory"
	"github.com/marmos91/cabinet/pkg/identity"
	"github.com/marmos91/cabinet/pkg/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingQueue captures enqueued jobs for assertions.
type recordingQueue struct {
	mu   sync.Mutex
	jobs []queue.Job
	fail bool
}

func (q *recordingQueue) Enqueue(_ context.Context, job queue.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.fail {
		return errors.New("broker unavailable")
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *recordingQueue) Consume(context.Context, queue.Handler) error { return nil }
func (q *recordingQueue) Close() error                                 { return nil }

func (q *recordingQueue) recorded() []queue.Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]queue.Job(nil), q.jobs...)
}

type fixture struct {
	service *Service
	catalog catalog.Store
	content content.Store
	queue   *recordingQueue
	alice   *identity.Identity
	bob     *identity.Identity
}

func newFixture(t *testing.T) *fixture {
	catalogStore := catalogmem.NewMemoryCatalogStore()
	t.Cleanup(func() { _ = catalogStore.Close() })

	contentStore := contentmem.NewMemoryContentStore()
	q := &recordingQueue{}

	return &fixture{
		service: NewService(catalogStore, contentStore, q),
		catalog: catalogStore,
		content: contentStore,
		queue:   q,
		alice:   &identity.Identity{ID: "alice"},
		bob:     &identity.Identity{ID: "bob"},
	}
}

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func TestUpload_FileAtRoot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	view, err := f.service.Upload(ctx, f.alice, UploadRequest{
		Name: "notes.txt",
		Kind: "file",
		Data: b64("hello"),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, view.ID)
	assert.Equal(t, "alice", view.UserID)
	assert.Equal(t, "notes.txt", view.Name)
	assert.Equal(t, "file", view.Kind)
	assert.Equal(t, "0", view.ParentID)
	assert.False(t, view.IsPublic)

	// The stored blob holds the decoded bytes.
	entry, err := f.catalog.GetByID(ctx, view.ID)
	require.NoError(t, err)
	data, err := f.content.ReadBlob(ctx, entry.ContentRef)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	// Plain files never enqueue derivation jobs.
	assert.Empty(t, f.queue.recorded())
}

func TestUpload_ValidationMatrix(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name    string
		req     UploadRequest
		message string
	}{
		{"MissingName", UploadRequest{Kind: "file", Data: b64("x")}, "Missing name"},
		{"MissingKind", UploadRequest{Name: "a"}, "Missing or invalid type"},
		{"UnknownKind", UploadRequest{Name: "a", Kind: "archive"}, "Missing or invalid type"},
		{"MissingData", UploadRequest{Name: "a", Kind: "file"}, "Missing data"},
		{"MissingDataForImage", UploadRequest{Name: "a", Kind: "image"}, "Missing data"},
		{"BadBase64", UploadRequest{Name: "a", Kind: "file", Data: "%%%"}, "Data is not valid base64"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.Upload(ctx, f.alice, tc.req)
			require.Error(t, err)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tc.message, validationErr.Message)
		})
	}

	// No validation failure may leave a catalog record behind.
	count, err := f.catalog.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestUpload_FolderNeedsNoData(t *testing.T) {
	f := newFixture(t)

	view, err := f.service.Upload(context.Background(), f.alice, UploadRequest{
		Name: "documents",
		Kind: "folder",
	})
	require.NoError(t, err)
	assert.Equal(t, "folder", view.Kind)
	assert.Empty(t, f.queue.recorded())
}

func TestUpload_FileInsideFolder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	folder, err := f.service.Upload(ctx, f.alice, UploadRequest{Name: "docs", Kind: "folder"})
	require.NoError(t, err)

	file, err := f.service.Upload(ctx, f.alice, UploadRequest{
		Name:     "cv.pdf",
		Kind:     "file",
		Data:     b64("pdf bytes"),
		ParentID: folder.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, folder.ID, file.ParentID)
}

func TestUpload_InvalidParents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	file, err := f.service.Upload(ctx, f.alice, UploadRequest{Name: "plain.txt", Kind: "file", Data: b64("x")})
	require.NoError(t, err)

	t.Run("MissingParent", func(t *testing.T) {
		_, err := f.service.Upload(ctx, f.alice, UploadRequest{
			Name: "orphan", Kind: "file", Data: b64("x"), ParentID: "no-such-id",
		})
		require.Error(t, err)
		assert.True(t, catalog.IsInvalidParent(err))
	})

	t.Run("NonFolderParent", func(t *testing.T) {
		_, err := f.service.Upload(ctx, f.alice, UploadRequest{
			Name: "nested", Kind: "file", Data: b64("x"), ParentID: file.ID,
		})
		require.Error(t, err)
		assert.True(t, catalog.IsInvalidParent(err))
	})
}

func TestUpload_ImageEnqueuesDerivationJob(t *testing.T) {
	f := newFixture(t)

	view, err := f.service.Upload(context.Background(), f.alice, UploadRequest{
		Name: "photo.png",
		Kind: "image",
		Data: b64("png bytes"),
	})
	require.NoError(t, err)

	jobs := f.queue.recorded()
	require.Len(t, jobs, 1)
	assert.Equal(t, queue.Job{UserID: "alice", FileID: view.ID}, jobs[0])
}

func TestUpload_EnqueueFailureDoesNotFailUpload(t *testing.T) {
	f := newFixture(t)
	f.queue.fail = true
	ctx := context.Background()

	view, err := f.service.Upload(ctx, f.alice, UploadRequest{
		Name: "photo.png",
		Kind: "image",
		Data: b64("png bytes"),
	})
	require.NoError(t, err)

	// The entry is persisted despite the broker being down.
	_, err = f.catalog.GetByID(ctx, view.ID)
	require.NoError(t, err)
}

// failingContentStore rejects every write.
type failingContentStore struct{}

func (failingContentStore) CreateBlob(context.Context, []byte, string) (string, error) {
	return "", &content.StoreError{Code: content.ErrWrite, Message: "disk full"}
}
func (failingContentStore) CreateDirectory(context.Context, string, string) (string, error) {
	return "", &content.StoreError{Code: content.ErrWrite, Message: "disk full"}
}
func (failingContentStore) ReadBlob(context.Context, string) ([]byte, error) {
	return nil, &content.StoreError{Code: content.ErrNotFound, Message: "blob not found"}
}
func (failingContentStore) WriteSibling(context.Context, string, string, []byte) (string, error) {
	return "", &content.StoreError{Code: content.ErrWrite, Message: "disk full"}
}

func TestUpload_StoreFailureLeavesNoCatalogRecord(t *testing.T) {
	catalogStore := catalogmem.NewMemoryCatalogStore()
	service := NewService(catalogStore, failingContentStore{}, &recordingQueue{})
	ctx := context.Background()

	_, err := service.Upload(ctx, &identity.Identity{ID: "alice"}, UploadRequest{
		Name: "doomed.txt", Kind: "file", Data: b64("x"),
	})
	require.Error(t, err)

	count, err := catalogStore.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestShow_VisibilityRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	private, err := f.service.Upload(ctx, f.alice, UploadRequest{Name: "private.txt", Kind: "file", Data: b64("x")})
	require.NoError(t, err)

	t.Run("OwnerSeesPrivateEntry", func(t *testing.T) {
		view, err := f.service.Show(ctx, f.alice, private.ID)
		require.NoError(t, err)
		assert.Equal(t, private.ID, view.ID)
	})

	t.Run("StrangerGetsNotFound", func(t *testing.T) {
		_, err := f.service.Show(ctx, f.bob, private.ID)
		require.Error(t, err)
		assert.True(t, catalog.IsNotFound(err))
	})

	t.Run("StrangerSeesPublicEntry", func(t *testing.T) {
		_, err := f.service.Publish(ctx, f.alice, private.ID)
		require.NoError(t, err)

		view, err := f.service.Show(ctx, f.bob, private.ID)
		require.NoError(t, err)
		assert.Equal(t, private.ID, view.ID)
	})

	t.Run("MissingEntry", func(t *testing.T) {
		_, err := f.service.Show(ctx, f.alice, "missing")
		require.Error(t, err)
		assert.True(t, catalog.IsNotFound(err))
	})
}

func TestPublishUnpublish_OwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	view, err := f.service.Upload(ctx, f.alice, UploadRequest{Name: "toggle.txt", Kind: "file", Data: b64("x")})
	require.NoError(t, err)

	published, err := f.service.Publish(ctx, f.alice, view.ID)
	require.NoError(t, err)
	assert.True(t, published.IsPublic)

	// Publishing again is a successful no-op.
	published, err = f.service.Publish(ctx, f.alice, view.ID)
	require.NoError(t, err)
	assert.True(t, published.IsPublic)

	_, err = f.service.Publish(ctx, f.bob, view.ID)
	require.Error(t, err)
	assert.True(t, catalog.IsNotFound(err))

	unpublished, err := f.service.Unpublish(ctx, f.alice, view.ID)
	require.NoError(t, err)
	assert.False(t, unpublished.IsPublic)
}

func TestList_NormalizesRootSentinel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Upload(ctx, f.alice, UploadRequest{Name: "at-root.txt", Kind: "file", Data: b64("x")})
	require.NoError(t, err)

	for _, raw := range []string{"", "0"} {
		page, err := f.service.List(ctx, f.alice, raw, 0)
		require.NoError(t, err)
		require.Len(t, page, 1, "raw parent %q", raw)
		assert.Equal(t, "0", page[0].ParentID)
	}
}

func TestDownload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	file, err := f.service.Upload(ctx, f.alice, UploadRequest{Name: "doc.txt", Kind: "file", Data: b64("file body")})
	require.NoError(t, err)
	folder, err := f.service.Upload(ctx, f.alice, UploadRequest{Name: "stuff", Kind: "folder"})
	require.NoError(t, err)

	t.Run("PrivateEntryIsNotFound", func(t *testing.T) {
		_, _, err := f.service.Download(ctx, file.ID)
		require.Error(t, err)
		assert.True(t, catalog.IsNotFound(err))
	})

	t.Run("PublicEntryServesBytes", func(t *testing.T) {
		_, err := f.service.Publish(ctx, f.alice, file.ID)
		require.NoError(t, err)

		data, contentType, err := f.service.Download(ctx, file.ID)
		require.NoError(t, err)
		assert.Equal(t, []byte("file body"), data)
		assert.Contains(t, contentType, "text/plain")
	})

	t.Run("UnpublishedAgainIsNotFound", func(t *testing.T) {
		_, err := f.service.Unpublish(ctx, f.alice, file.ID)
		require.NoError(t, err)

		_, _, err = f.service.Download(ctx, file.ID)
		require.Error(t, err)
		assert.True(t, catalog.IsNotFound(err))
	})

	t.Run("FolderHasNoContent", func(t *testing.T) {
		_, err := f.service.Publish(ctx, f.alice, folder.ID)
		require.NoError(t, err)

		_, _, err = f.service.Download(ctx, folder.ID)
		require.ErrorIs(t, err, ErrFolderHasNoContent)
	})

	t.Run("UnknownExtensionFallsBack", func(t *testing.T) {
		blob, err := f.service.Upload(ctx, f.alice, UploadRequest{Name: "raw-bytes", Kind: "file", Data: b64("x")})
		require.NoError(t, err)
		_, err = f.service.Publish(ctx, f.alice, blob.ID)
		require.NoError(t, err)

		_, contentType, err := f.service.Download(ctx, blob.ID)
		require.NoError(t, err)
		assert.Equal(t, "application/octet-stream", contentType)
	})
}
