package main

import (
	"context"
	"sync"
	"time"
)

type debouncedFunc func()
type debouncerFunc func(debouncedFunc)

// newDebounce runs the first function it is given d after it was given,
// ignoring every other call in between.
func newDebounce(ctx context.Context, d time.Duration) debouncerFunc {
	var mu sync.Mutex
	var timer *time.Timer
	return func(f debouncedFunc) {
		mu.Lock()
		if timer != nil {
			// Already waiting, so this is a 'bounce'
			mu.Unlock()
			return
		}
		timer = time.NewTimer(d)
		t := timer
		mu.Unlock()
		go func() {
			select {
			case <-t.C:
				mu.Lock()
				timer = nil
				mu.Unlock()
				f()
			case <-ctx.Done():
				t.Stop()
			}
		}()
	}
}
