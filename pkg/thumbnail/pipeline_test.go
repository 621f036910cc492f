package thumbnail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/cabinet/pkg/catalog"
	catalogmem "github.com/marmos91/cabinet/pkg/catalog/memory"
	"github.com/marmos91/cabinet/pkg/content"
	contentmem "github.com/marmos91/cabinet/pkg/content/memory"
	"github.com/marmos91/cabinet/pkg/queue"
	queuemem "github.com/marmos91/cabinet/pkg/queue/memory"
)

func queueJob(userID, fileID string) queue.Job {
	return queue.Job{UserID: userID, FileID: fileID}
}

// pngBytes renders a w x h gradient and encodes it as PNG.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 64, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type pipelineFixture struct {
	catalog  *catalogmem.MemoryCatalogStore
	content  *contentmem.MemoryContentStore
	pipeline *Pipeline
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	t.Helper()

	f := &pipelineFixture{
		catalog: catalogmem.NewMemoryCatalogStore(),
		content: contentmem.NewMemoryContentStore(),
	}
	f.pipeline = NewPipeline(f.catalog, f.content, nil)
	return f
}

// insertImage stores data as a blob and catalogs it as an image entry.
func (f *pipelineFixture) insertImage(t *testing.T, ownerID string, data []byte) *catalog.Entry {
	t.Helper()

	ref, err := f.content.CreateBlob(context.Background(), data, "")
	require.NoError(t, err)

	entry, err := f.catalog.Insert(context.Background(), &catalog.Entry{
		OwnerID:    ownerID,
		Name:       "photo.png",
		Kind:       catalog.KindImage,
		ParentID:   catalog.RootParent,
		ContentRef: ref,
	})
	require.NoError(t, err)
	return entry
}

// decodeVariant reads the sibling for one width and decodes it.
func (f *pipelineFixture) decodeVariant(t *testing.T, ref string, width int) image.Image {
	t.Helper()

	data, err := f.content.ReadBlob(context.Background(), fmt.Sprintf("%s_%d", ref, width))
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	return img
}

func TestPipeline_DerivesAllWidths(t *testing.T) {
	f := newPipelineFixture(t)
	entry := f.insertImage(t, "alice", pngBytes(t, 800, 600))

	err := f.pipeline.Process(context.Background(), queueJob("alice", entry.ID))
	require.NoError(t, err)

	for _, width := range Widths {
		variant := f.decodeVariant(t, entry.ContentRef, width)
		assert.Equal(t, width, variant.Bounds().Dx(), "variant width")
		// 800x600 scales to 4:3 at every width
		assert.Equal(t, width*3/4, variant.Bounds().Dy(), "aspect ratio preserved")
	}
}

func TestPipeline_RerunOverwritesVariants(t *testing.T) {
	f := newPipelineFixture(t)
	entry := f.insertImage(t, "alice", pngBytes(t, 400, 400))

	require.NoError(t, f.pipeline.Process(context.Background(), queueJob("alice", entry.ID)))
	require.NoError(t, f.pipeline.Process(context.Background(), queueJob("alice", entry.ID)))

	variant := f.decodeVariant(t, entry.ContentRef, 100)
	assert.Equal(t, 100, variant.Bounds().Dx())
}

func TestPipeline_MalformedJobFails(t *testing.T) {
	f := newPipelineFixture(t)

	for _, job := range []struct {
		name   string
		userID string
		fileID string
	}{
		{"missing user", "", "some-file"},
		{"missing file", "alice", ""},
		{"empty", "", ""},
	} {
		t.Run(job.name, func(t *testing.T) {
			err := f.pipeline.Process(context.Background(), queueJob(job.userID, job.fileID))

			var jobErr *JobError
			require.ErrorAs(t, err, &jobErr)
			assert.Equal(t, ErrMalformedJob, jobErr.Code)
		})
	}
}

func TestPipeline_UnknownFileFails(t *testing.T) {
	f := newPipelineFixture(t)

	err := f.pipeline.Process(context.Background(), queueJob("alice", "no-such-entry"))

	var jobErr *JobError
	require.ErrorAs(t, err, &jobErr)
	assert.Equal(t, ErrUnknownFile, jobErr.Code)
}

func TestPipeline_OwnerMismatchFails(t *testing.T) {
	f := newPipelineFixture(t)
	entry := f.insertImage(t, "alice", pngBytes(t, 200, 200))

	err := f.pipeline.Process(context.Background(), queueJob("mallory", entry.ID))

	var jobErr *JobError
	require.ErrorAs(t, err, &jobErr)
	assert.Equal(t, ErrUnknownFile, jobErr.Code)

	_, readErr := f.content.ReadBlob(context.Background(), entry.ContentRef+"_500")
	assert.True(t, content.IsNotFound(readErr), "no variant should be written")
}

func TestPipeline_NonImageIsNoOp(t *testing.T) {
	f := newPipelineFixture(t)

	ref, err := f.content.CreateBlob(context.Background(), []byte("plain text"), "")
	require.NoError(t, err)
	entry, err := f.catalog.Insert(context.Background(), &catalog.Entry{
		OwnerID:    "alice",
		Name:       "notes.txt",
		Kind:       catalog.KindFile,
		ParentID:   catalog.RootParent,
		ContentRef: ref,
	})
	require.NoError(t, err)

	require.NoError(t, f.pipeline.Process(context.Background(), queueJob("alice", entry.ID)))

	_, readErr := f.content.ReadBlob(context.Background(), ref+"_500")
	assert.True(t, content.IsNotFound(readErr), "no variant should be written")
}

func TestPipeline_UndecodableImageFails(t *testing.T) {
	f := newPipelineFixture(t)
	entry := f.insertImage(t, "alice", []byte("this is not a png"))

	err := f.pipeline.Process(context.Background(), queueJob("alice", entry.ID))

	var jobErr *JobError
	require.ErrorAs(t, err, &jobErr)
	assert.Equal(t, ErrAllWidthsFailed, jobErr.Code)
}

// failingSiblingStore rejects sibling writes for a single suffix.
type failingSiblingStore struct {
	content.Store
	failSuffix string
}

func (s *failingSiblingStore) WriteSibling(ctx context.Context, ref, suffix string, data []byte) (string, error) {
	if suffix == s.failSuffix {
		return "", errors.New("disk full")
	}
	return s.Store.WriteSibling(ctx, ref, suffix, data)
}

func TestPipeline_PartialWidthFailureStillSucceeds(t *testing.T) {
	f := newPipelineFixture(t)
	f.pipeline = NewPipeline(f.catalog, &failingSiblingStore{Store: f.content, failSuffix: "_500"}, nil)
	entry := f.insertImage(t, "alice", pngBytes(t, 800, 600))

	err := f.pipeline.Process(context.Background(), queueJob("alice", entry.ID))
	require.NoError(t, err, "one produced variant is enough")

	_, readErr := f.content.ReadBlob(context.Background(), entry.ContentRef+"_500")
	assert.True(t, content.IsNotFound(readErr))
	assert.Equal(t, 250, f.decodeVariant(t, entry.ContentRef, 250).Bounds().Dx())
	assert.Equal(t, 100, f.decodeVariant(t, entry.ContentRef, 100).Bounds().Dx())
}

func TestPipeline_SmallOriginalUpscales(t *testing.T) {
	f := newPipelineFixture(t)
	entry := f.insertImage(t, "alice", pngBytes(t, 50, 50))

	require.NoError(t, f.pipeline.Process(context.Background(), queueJob("alice", entry.ID)))

	// Widths are absolute targets, not caps
	assert.Equal(t, 500, f.decodeVariant(t, entry.ContentRef, 500).Bounds().Dx())
}

func TestPipeline_RunConsumesFromQueue(t *testing.T) {
	f := newPipelineFixture(t)
	entry := f.insertImage(t, "alice", pngBytes(t, 400, 300))

	q := queuemem.NewMemoryQueue(4)
	defer q.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = f.pipeline.Run(ctx, q)
	}()

	require.NoError(t, q.Enqueue(context.Background(), queueJob("alice", entry.ID)))

	require.Eventually(t, func() bool {
		_, err := f.content.ReadBlob(context.Background(), entry.ContentRef+"_100")
		return err == nil
	}, 5*time.Second, 10*time.Millisecond, "variant should appear once the worker picks up the job")

	cancel()
	<-done
}

func TestPipeline_VariantRefsAreSiblings(t *testing.T) {
	f := newPipelineFixture(t)
	entry := f.insertImage(t, "alice", pngBytes(t, 300, 300))

	require.NoError(t, f.pipeline.Process(context.Background(), queueJob("alice", entry.ID)))

	for _, width := range Widths {
		ref := fmt.Sprintf("%s_%d", entry.ContentRef, width)
		assert.True(t, strings.HasPrefix(ref, entry.ContentRef))
		_, err := f.content.ReadBlob(context.Background(), ref)
		assert.NoError(t, err)
	}
}
