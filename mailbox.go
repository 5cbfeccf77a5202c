// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package evsim

import (
	"sync"
	"time"
)

// mailbox is an unbounded single-producer single-consumer FIFO. put never
// blocks; get blocks until a message is available or the mailbox is closed
// and empty.
type mailbox[T any] struct {
	mu     sync.Mutex
	q      []T
	closed bool
	ready  chan struct{}
}

func newMailbox[T any]() *mailbox[T] {
	return &mailbox[T]{ready: make(chan struct{}, 1)}
}

func (m *mailbox[T]) signal() {
	select {
	case m.ready <- struct{}{}:
	default:
	}
}

func (m *mailbox[T]) put(v T) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	m.q = append(m.q, v)
	m.mu.Unlock()
	m.signal()
	return nil
}

// close marks the mailbox closed. Queued messages can still be read.
func (m *mailbox[T]) close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.signal()
}

// get returns the next message. A timeout <= 0 waits forever.
func (m *mailbox[T]) get(timeout time.Duration) (T, error) {
	var (
		zero T
		tc   <-chan time.Time
	)
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		tc = t.C
	}
	for {
		m.mu.Lock()
		if len(m.q) > 0 {
			v := m.q[0]
			m.q[0] = zero
			m.q = m.q[1:]
			m.mu.Unlock()
			return v, nil
		}
		if m.closed {
			m.mu.Unlock()
			return zero, ErrClosed
		}
		m.mu.Unlock()
		select {
		case <-m.ready:
		case <-tc:
			return zero, ErrTimeout
		}
	}
}

// poll returns the next message without waiting.
func (m *mailbox[T]) poll() (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero T
	if len(m.q) == 0 {
		return zero, false
	}
	v := m.q[0]
	m.q[0] = zero
	m.q = m.q[1:]
	return v, true
}

// len returns the number of queued messages.
func (m *mailbox[T]) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.q)
}
