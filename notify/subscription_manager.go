// Package notify fans values out to any number of channel subscribers
// without ever blocking the publisher.
package notify

import (
	"sync"
)

const defaultBuffer = 16

type SubscriptionManager[T any] struct {
	mu          sync.Mutex
	buffer      int
	subscribers map[*Subscription[T]]struct{}
}

func NewSubscriptionManager[T any]() *SubscriptionManager[T] {
	return NewSubscriptionManagerSize[T](defaultBuffer)
}

// NewSubscriptionManagerSize creates a manager whose subscriptions buffer
// size values.
func NewSubscriptionManagerSize[T any](size int) *SubscriptionManager[T] {
	if size <= 0 {
		size = defaultBuffer
	}
	return &SubscriptionManager[T]{
		buffer:      size,
		subscribers: make(map[*Subscription[T]]struct{}),
	}
}

func (m *SubscriptionManager[T]) closeSubscription(s *Subscription[T]) {
	m.mu.Lock()
	delete(m.subscribers, s)
	m.mu.Unlock()
}

// Publish delivers t to every subscriber with room in its buffer. A nil
// manager publishes nothing.
func (m *SubscriptionManager[T]) Publish(t T) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for sub := range m.subscribers {
		select {
		case sub.C <- t:
		default:
			sub.dropped++
		}
	}
}

func (m *SubscriptionManager[T]) Subscribe() *Subscription[T] {
	sub := &Subscription[T]{
		C:       make(chan T, m.buffer),
		manager: m,
	}
	m.mu.Lock()
	m.subscribers[sub] = struct{}{}
	m.mu.Unlock()
	return sub
}

func (m *SubscriptionManager[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subscribers)
}
