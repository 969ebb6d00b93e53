// Package loop provides the single-threaded task queue that every page
// handler runs on, plus a virtual clock with the same scheduling interface
// for deterministic replays and tests.
package loop

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var ErrClosed = errors.New("queue closed")

type Task func()

// Queue serializes tasks onto whichever goroutine consumes C. Delayed tasks
// are queued when their timer fires and run on the consumer, never on the
// timer goroutine.
type Queue struct {
	tasks  chan Task
	done   chan struct{}
	closer sync.Once
}

func NewQueue(size int) *Queue {
	if size <= 0 {
		size = 64
	}
	return &Queue{
		tasks: make(chan Task, size),
		done:  make(chan struct{}),
	}
}

// C is read by the consumer's select loop.
func (q *Queue) C() <-chan Task {
	return q.tasks
}

// Post queues fn, blocking while the queue is full.
func (q *Queue) Post(fn func()) error {
	select {
	case <-q.done:
		return ErrClosed
	default:
	}
	select {
	case q.tasks <- fn:
		return nil
	case <-q.done:
		return ErrClosed
	}
}

// Schedule queues fn once after delay. There is no cancellation: the task is
// queued unless the queue has been closed by then.
func (q *Queue) Schedule(fn func(), delay time.Duration) {
	time.AfterFunc(delay, func() {
		if err := q.Post(fn); err != nil {
			log.Debug().Err(err).Dur("delay", delay).Msg("dropping scheduled task")
		}
	})
}

// Do queues fn and waits until it has run.
func (q *Queue) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if err := q.Post(func() {
		fn()
		close(finished)
	}); err != nil {
		return err
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-q.done:
		return ErrClosed
	}
}

// Run consumes tasks until ctx ends or the queue is closed. Use it when
// nothing else needs to share the consumer goroutine.
func (q *Queue) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-q.done:
			return nil
		case t := <-q.tasks:
			t()
		}
	}
}

func (q *Queue) Close() {
	q.closer.Do(func() {
		close(q.done)
	})
}
