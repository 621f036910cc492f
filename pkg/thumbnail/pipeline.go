// Package thumbnail consumes derivation jobs and produces width-bounded
// image variants as sibling blobs of the original.
//
// The pipeline is detached from the upload path: it shares nothing with
// the HTTP request that produced a job except the catalog and content
// store, and no HTTP caller ever observes a job failure. Failures are
// terminal per job and observable through logging and metrics only.
package thumbnail

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/marmos91/cabinet/internal/logger"
	"github.com/marmos91/cabinet/pkg/catalog"
	"github.com/marmos91/cabinet/pkg/content"
	"github.com/marmos91/cabinet/pkg/metrics"
	"github.com/marmos91/cabinet/pkg/queue"
)

// Widths are the thumbnail target widths, processed in descending order.
// Each produces a sibling blob suffixed "_<width>".
var Widths = []int{500, 250, 100}

// JobError is a terminal derivation-job failure.
type JobError struct {
	// Code is the failure category
	Code JobErrorCode

	// Message is a human-readable description
	Message string
}

// Error implements the error interface.
func (e *JobError) Error() string {
	return e.Message
}

// JobErrorCode categorizes terminal job failures.
type JobErrorCode int

const (
	// ErrMalformedJob indicates a payload missing userId or fileId.
	// This is a producer bug, not a transient condition.
	ErrMalformedJob JobErrorCode = iota

	// ErrUnknownFile indicates the entry doesn't exist or is not owned
	// by the job's user (stale or forged job)
	ErrUnknownFile

	// ErrAllWidthsFailed indicates no variant could be produced
	ErrAllWidthsFailed
)

// Pipeline derives thumbnails for image entries.
//
// Process is safe to re-run for the same job: at-least-once delivery
// simply recomputes and overwrites the sibling blobs.
type Pipeline struct {
	catalog catalog.Store
	content content.Store
	metrics *metrics.ThumbnailMetrics
}

// NewPipeline creates a pipeline over the given backends. jobMetrics may
// be a no-op instance.
func NewPipeline(catalogStore catalog.Store, contentStore content.Store, jobMetrics *metrics.ThumbnailMetrics) *Pipeline {
	return &Pipeline{
		catalog: catalogStore,
		content: contentStore,
		metrics: jobMetrics,
	}
}

// Run consumes derivation jobs from q until ctx is cancelled. It is the
// long-running body of a worker goroutine.
func (p *Pipeline) Run(ctx context.Context, q queue.Queue) error {
	return q.Consume(ctx, p.Process)
}

// Process handles one derivation job to completion.
//
// Outcomes:
//   - malformed payload, unknown entry, owner mismatch: terminal failure
//   - entry is a folder or plain file: successful no-op (expected when a
//     producer enqueues indiscriminately; nothing to derive)
//   - image: one variant per width, each width independent. A failed
//     width is logged and the remaining widths still run. At least one
//     produced variant makes the job a success; zero makes it a failure.
func (p *Pipeline) Process(ctx context.Context, job queue.Job) error {
	if job.UserID == "" || job.FileID == "" {
		err := &JobError{Code: ErrMalformedJob, Message: "derivation job is missing userId or fileId"}
		logger.Error("thumbnail: %v", err)
		p.metrics.ObserveJob(metrics.JobOutcomeFailed)
		return err
	}

	entry, err := p.catalog.GetByID(ctx, job.FileID)
	if err != nil || entry.OwnerID != job.UserID {
		jobErr := &JobError{
			Code:    ErrUnknownFile,
			Message: fmt.Sprintf("derivation job references unknown file %s for user %s", job.FileID, job.UserID),
		}
		logger.Error("thumbnail: %v", jobErr)
		p.metrics.ObserveJob(metrics.JobOutcomeFailed)
		return jobErr
	}

	if entry.Kind != catalog.KindImage {
		logger.Debug("thumbnail: entry %s is %s, nothing to derive", entry.ID, entry.Kind)
		p.metrics.ObserveJob(metrics.JobOutcomeSkipped)
		return nil
	}

	produced := p.deriveAll(ctx, entry)
	if produced == 0 {
		err := &JobError{
			Code:    ErrAllWidthsFailed,
			Message: fmt.Sprintf("no thumbnail variant could be produced for %s", entry.ID),
		}
		logger.Error("thumbnail: %v", err)
		p.metrics.ObserveJob(metrics.JobOutcomeFailed)
		return err
	}

	logger.Info("thumbnail: derived %d/%d variants for %s", produced, len(Widths), entry.ID)
	p.metrics.ObserveJob(metrics.JobOutcomeSucceeded)
	return nil
}

// deriveAll produces the width variants and returns how many succeeded.
func (p *Pipeline) deriveAll(ctx context.Context, entry *catalog.Entry) int {
	data, err := p.content.ReadBlob(ctx, entry.ContentRef)
	if err != nil {
		logger.Error("thumbnail: failed to read original for %s: %v", entry.ID, err)
		return 0
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		logger.Error("thumbnail: entry %s does not decode as an image: %v", entry.ID, err)
		return 0
	}

	produced := 0
	for _, width := range Widths {
		if err := p.deriveOne(ctx, entry, img, format, width); err != nil {
			logger.Warn("thumbnail: width %d failed for %s: %v", width, entry.ID, err)
			p.metrics.ObserveWidthFailure()
			continue
		}
		produced++
	}
	return produced
}

// deriveOne resizes to one target width and writes the sibling blob.
// Height 0 preserves the aspect ratio.
func (p *Pipeline) deriveOne(ctx context.Context, entry *catalog.Entry, img image.Image, format string, width int) error {
	resized := imaging.Resize(img, width, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, encodingFor(format)); err != nil {
		return fmt.Errorf("failed to encode variant: %w", err)
	}

	suffix := fmt.Sprintf("_%d", width)
	if _, err := p.content.WriteSibling(ctx, entry.ContentRef, suffix, buf.Bytes()); err != nil {
		return err
	}
	return nil
}

// encodingFor maps the decoded format name to an output encoding.
// Variants keep the original's format where supported; everything else
// falls back to PNG.
func encodingFor(format string) imaging.Format {
	if f, err := imaging.FormatFromExtension("." + format); err == nil {
		return f
	}
	return imaging.PNG
}
