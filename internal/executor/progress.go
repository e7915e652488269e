package executor

import "sync"

// Progress is a point-in-time view of a run.
type Progress struct {
	Phase     string `json:"phase"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Current   string `json:"current,omitempty"`
	Failures  int    `json:"failures"`
}

// Tracker holds the progress of a run and is safe for concurrent readers.
type Tracker struct {
	mu        sync.Mutex
	p         Progress
	observers []func(Progress)
}

// NewTracker returns a tracker in the "idle" phase.
func NewTracker() *Tracker {
	return &Tracker{p: Progress{Phase: "idle"}}
}

// Snapshot returns a copy of the current progress.
func (t *Tracker) Snapshot() Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.p
}

// SetPhase switches to a new phase and resets the counters.
func (t *Tracker) SetPhase(phase string, total int) {
	t.update(func(p *Progress) {
		*p = Progress{Phase: phase, Total: total}
	})
}

// OnChange registers fn to receive a snapshot after every change. Observers
// run on the goroutine making the change, outside the tracker's lock.
func (t *Tracker) OnChange(fn func(Progress)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, fn)
}

func (t *Tracker) update(fn func(p *Progress)) {
	t.mu.Lock()
	fn(&t.p)
	snapshot := t.p
	observers := t.observers
	t.mu.Unlock()

	for _, o := range observers {
		o(snapshot)
	}
}
