// Package queue implements a blocking priority queue. Enqueue never
// blocks; Dequeue suspends the caller until an item is available. Items
// drain in descending priority order, FIFO among equal priorities, and a
// waiting consumer is always served before the backlog grows: an enqueued
// item is handed directly to the oldest waiter when one exists.
package queue

import (
	"container/list"
	"context"
	"errors"
	"sync"
)

var (
	// ErrClosed is returned by Dequeue once the queue is closed and the
	// backlog has drained, and by Enqueue after Close.
	ErrClosed = errors.New("queue: closed")

	// ErrFull is returned by Enqueue when a capacity bound is configured
	// and the backlog is at capacity.
	ErrFull = errors.New("queue: at capacity")
)

type entry[T any] struct {
	item     T
	priority int
}

// Queue is a blocking priority queue. The zero value is not usable; use New.
type Queue[T any] struct {
	mu       sync.Mutex
	backlog  []entry[T]
	waiters  *list.List // of chan T, oldest at front
	capacity int        // 0 means unbounded
	closed   bool
}

// New creates a queue. capacity bounds the backlog; 0 means unbounded.
// Hand-offs to waiting consumers never count against capacity.
func New[T any](capacity int) *Queue[T] {
	return &Queue[T]{waiters: list.New(), capacity: capacity}
}

// Enqueue inserts item without blocking. If a consumer is suspended in
// Dequeue, the item bypasses the backlog and is handed to the oldest
// waiter. Otherwise it is inserted before the first backlog entry with a
// strictly lower priority, which keeps equal-priority items in arrival
// order.
func (q *Queue[T]) Enqueue(item T, priority int) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}

	if front := q.waiters.Front(); front != nil {
		q.waiters.Remove(front)
		// Buffered with capacity 1, so this never blocks even if the
		// waiter has already abandoned the hand-off.
		front.Value.(chan T) <- item
		return nil
	}

	if q.capacity > 0 && len(q.backlog) >= q.capacity {
		return ErrFull
	}

	i := len(q.backlog)
	for j, e := range q.backlog {
		if e.priority < priority {
			i = j
			break
		}
	}
	q.backlog = append(q.backlog, entry[T]{})
	copy(q.backlog[i+1:], q.backlog[i:])
	q.backlog[i] = entry[T]{item: item, priority: priority}
	return nil
}

// Dequeue returns the highest-priority item, suspending until one is
// available. It returns ErrClosed once the queue is closed and empty, or
// ctx.Err() if the context ends first.
func (q *Queue[T]) Dequeue(ctx context.Context) (T, error) {
	var zero T

	q.mu.Lock()
	if len(q.backlog) > 0 {
		e := q.backlog[0]
		q.backlog = q.backlog[1:]
		q.mu.Unlock()
		return e.item, nil
	}
	if q.closed {
		q.mu.Unlock()
		return zero, ErrClosed
	}

	hand := make(chan T, 1)
	elem := q.waiters.PushBack(hand)
	q.mu.Unlock()

	select {
	case item, ok := <-hand:
		if !ok {
			return zero, ErrClosed
		}
		return item, nil
	case <-ctx.Done():
	}

	// Context ended. The producer may have raced us and completed the
	// hand-off already; prefer the item so it is not lost.
	q.mu.Lock()
	q.remove(elem)
	q.mu.Unlock()
	select {
	case item, ok := <-hand:
		if ok {
			return item, nil
		}
		return zero, ErrClosed
	default:
		return zero, ctx.Err()
	}
}

// remove detaches a waiter if it is still registered. Called with mu held.
func (q *Queue[T]) remove(elem *list.Element) {
	for e := q.waiters.Front(); e != nil; e = e.Next() {
		if e == elem {
			q.waiters.Remove(e)
			return
		}
	}
}

// Close stops accepting new items. Suspended consumers are woken and, once
// the backlog drains, Dequeue returns ErrClosed.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	for e := q.waiters.Front(); e != nil; e = e.Next() {
		close(e.Value.(chan T))
	}
	q.waiters.Init()
}

// Len reports the current backlog depth.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.backlog)
}
