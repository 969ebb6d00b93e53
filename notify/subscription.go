package notify

import (
	"sync"
)

// Subscription receives published values on C until Close.
type Subscription[T any] struct {
	C       chan T
	closer  sync.Once
	dropped int
	manager *SubscriptionManager[T]
}

func (s *Subscription[T]) Close() {
	s.closer.Do(func() {
		s.manager.closeSubscription(s)
		close(s.C)
	})
}

// Dropped counts values discarded because C was full.
func (s *Subscription[T]) Dropped() int {
	s.manager.mu.Lock()
	defer s.manager.mu.Unlock()
	return s.dropped
}
