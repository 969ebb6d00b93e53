package loop

import (
	"container/heap"
	"time"
)

type pending struct {
	due time.Duration
	seq uint64
	fn  func()
}

type pendingHeap []pending

func (h pendingHeap) Len() int { return len(h) }
func (h pendingHeap) Less(i, j int) bool {
	if h[i].due != h[j].due {
		return h[i].due < h[j].due
	}
	return h[i].seq < h[j].seq
}
func (h pendingHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *pendingHeap) Push(x any)   { *h = append(*h, x.(pending)) }
func (h *pendingHeap) Pop() any {
	old := *h
	n := len(old)
	p := old[n-1]
	*h = old[:n-1]
	return p
}

// Virtual is a manually advanced clock. Scheduled tasks run inside Advance,
// on the caller's goroutine, in due order with ties broken by scheduling
// order. It is not safe for concurrent use.
type Virtual struct {
	now   time.Duration
	seq   uint64
	tasks pendingHeap
}

func NewVirtual() *Virtual {
	return &Virtual{}
}

// Now is the time elapsed since the clock was created.
func (v *Virtual) Now() time.Duration {
	return v.now
}

func (v *Virtual) Schedule(fn func(), delay time.Duration) {
	if delay < 0 {
		delay = 0
	}
	v.seq++
	heap.Push(&v.tasks, pending{due: v.now + delay, seq: v.seq, fn: fn})
}

// Advance moves the clock forward by d, running every task due at or before
// the new time.
func (v *Virtual) Advance(d time.Duration) {
	v.AdvanceTo(v.now + d)
}

// AdvanceTo moves the clock to t. A t in the past only runs overdue tasks.
func (v *Virtual) AdvanceTo(t time.Duration) {
	for v.tasks.Len() > 0 && v.tasks[0].due <= t {
		p := heap.Pop(&v.tasks).(pending)
		if p.due > v.now {
			v.now = p.due
		}
		p.fn()
	}
	if t > v.now {
		v.now = t
	}
}

func (v *Virtual) Pending() int {
	return v.tasks.Len()
}
