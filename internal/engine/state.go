package engine

import (
	"fmt"
	"sync"
)

// State is the lifecycle of one invocation: Idle → Running → {Completed, Cancelled, Failed}.
type State int32

const (
	Idle State = iota
	Running
	Completed
	Cancelled
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// tracker turns row checkpoints into percentages. 100 is held back until finish so that a
// cancelled run never reports completion.
type tracker struct {
	mu    sync.Mutex
	total int
	done  int
	last  int
	fn    ProgressFunc
}

func newTracker(total int, fn ProgressFunc) *tracker {
	return &tracker{total: total, last: -1, fn: fn}
}

func (t *tracker) start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.emit(0)
}

func (t *tracker) step() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.done++
	percent := 99
	if t.total > 0 {
		percent = min(t.done*100/t.total, 99)
	}
	t.emit(percent)
}

func (t *tracker) finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.emit(100)
}

func (t *tracker) emit(percent int) {
	if percent < t.last {
		return
	}
	t.last = percent
	if t.fn != nil {
		t.fn(percent)
	}
}
