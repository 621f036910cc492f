// Package queue defines the derivation-job queue abstraction decoupling
// the upload path (producer) from the thumbnail pipeline (consumer).
//
// Delivery is at-least-once: a consumer crash between processing and ack
// redelivers the job, so handlers must be safe to re-run. The pipeline
// satisfies this by overwriting sibling blobs on re-derivation.
package queue

import "context"

// Job is one unit of asynchronous derivation work. It carries no payload
// bytes; the consumer re-reads the original via the content store.
//
// The JSON field names are the wire schema shared with any external
// producer or consumer of the derivation queue.
type Job struct {
	UserID string `json:"userId"`
	FileID string `json:"fileId"`
}

// Handler processes a single dequeued job.
//
// A nil return acknowledges the job. A non-nil return reports terminal
// failure: the transport discards the job without requeueing, because
// retry policy belongs to the queue transport's configuration, not to
// this core.
type Handler func(ctx context.Context, job Job) error

// Queue is the transport contract for derivation jobs.
//
// Implementations must be safe for one producer and multiple concurrent
// consumers.
type Queue interface {
	// Enqueue publishes a job. The job is only enqueued after the
	// corresponding catalog entry is durably inserted, so consumers can
	// rely on the entry existing (absent external data loss).
	Enqueue(ctx context.Context, job Job) error

	// Consume delivers jobs to handler until ctx is cancelled or the
	// transport fails. Handler errors are terminal per job and must not
	// stop the consumer loop.
	Consume(ctx context.Context, handler Handler) error

	// Close releases transport resources.
	Close() error
}
