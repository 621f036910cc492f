// Package memory implements queue.Queue in process memory.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/marmos91/cabinet/pkg/queue"
)

// ErrClosed is returned by Enqueue after the queue has been closed.
var ErrClosed = errors.New("queue is closed")

// MemoryQueue implements queue.Queue with a buffered channel.
//
// It is the default transport for single-process deployments and the
// transport used by tests. Jobs are lost on process exit; deployments
// that need durability select the amqp transport instead.
type MemoryQueue struct {
	jobs chan queue.Job
	done chan struct{}
	once sync.Once
}

// NewMemoryQueue creates a queue buffering up to capacity jobs. A zero or
// negative capacity falls back to a default of 128.
func NewMemoryQueue(capacity int) *MemoryQueue {
	if capacity <= 0 {
		capacity = 128
	}
	return &MemoryQueue{
		jobs: make(chan queue.Job, capacity),
		done: make(chan struct{}),
	}
}

// Enqueue publishes a job, blocking if the buffer is full. A producer
// blocked on a full buffer is released with ErrClosed when the queue is
// closed; the jobs channel itself is never closed, so the send cannot
// panic.
func (q *MemoryQueue) Enqueue(ctx context.Context, job queue.Job) error {
	select {
	case <-q.done:
		return ErrClosed
	default:
	}

	select {
	case q.jobs <- job:
		return nil
	case <-q.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume delivers jobs to handler until ctx is cancelled or the queue is
// closed and the buffer drained. The memory transport has no dead-letter
// destination, so a handler error leaves nothing to do beyond what the
// handler itself logged; the loop continues either way.
func (q *MemoryQueue) Consume(ctx context.Context, handler queue.Handler) error {
	for {
		select {
		case job := <-q.jobs:
			_ = handler(ctx, job)
		case <-ctx.Done():
			return ctx.Err()
		case <-q.done:
			for {
				select {
				case job := <-q.jobs:
					_ = handler(ctx, job)
				case <-ctx.Done():
					return ctx.Err()
				default:
					return nil
				}
			}
		}
	}
}

// Close stops accepting jobs. Already-buffered jobs are still delivered
// to consumers.
func (q *MemoryQueue) Close() error {
	q.once.Do(func() { close(q.done) })
	return nil
}
