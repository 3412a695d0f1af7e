// Package writequeue bounds the number of in-flight file writes.
//
// Index generation emits tens of thousands of small files; letting every
// write run concurrently exhausts file descriptors. The queue dispatches
// tasks in FIFO submission order with at most N running at once. A failing
// task never cancels or blocks the others; failures are collected and
// returned from Wait.
package writequeue

import (
	"errors"
	"sync"
)

// Task is one unit of deferred write work.
type Task func() error

// Queue dispatches tasks with bounded concurrency.
type Queue struct {
	sem chan struct{}
	wg  sync.WaitGroup

	mu        sync.Mutex
	errs      []error
	submitted int
}

// New creates a queue allowing at most limit concurrent tasks.
// A limit below 1 is treated as 1.
func New(limit int) *Queue {
	if limit < 1 {
		limit = 1
	}
	return &Queue{sem: make(chan struct{}, limit)}
}

// Enqueue submits a task. It blocks until a slot is free, which is what
// guarantees both the concurrency bound and FIFO dispatch order for a
// single producer. The task itself runs on its own goroutine.
func (q *Queue) Enqueue(fn Task) {
	q.mu.Lock()
	q.submitted++
	q.mu.Unlock()

	q.sem <- struct{}{}
	q.wg.Add(1)
	go func() {
		defer func() {
			<-q.sem
			q.wg.Done()
		}()
		if err := fn(); err != nil {
			q.mu.Lock()
			q.errs = append(q.errs, err)
			q.mu.Unlock()
		}
	}()
}

// Wait blocks until every enqueued task has finished and returns the
// joined task errors, or nil if all succeeded.
func (q *Queue) Wait() error {
	q.wg.Wait()
	q.mu.Lock()
	defer q.mu.Unlock()
	return errors.Join(q.errs...)
}

// Submitted returns how many tasks have been enqueued so far.
func (q *Queue) Submitted() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.submitted
}

// Failed returns how many tasks have failed so far.
func (q *Queue) Failed() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.errs)
}
