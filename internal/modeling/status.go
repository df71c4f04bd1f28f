package modeling

import (
	"sort"
	"sync"
	"time"
)

// State of a model run
type State string

const (
	StatePending   State = "pending"
	StateRunning   State = "running"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// Status is the progress of one model run
type Status struct {
	Model      Model     `json:"model"`
	State      State     `json:"state"`
	ExitCode   int       `json:"exit_code"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at,omitempty"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
}

// Duration of the run so far, zero before it starts
func (s Status) Duration() time.Duration {
	switch {
	case s.StartedAt.IsZero():
		return 0
	case s.FinishedAt.IsZero():
		return time.Since(s.StartedAt)
	default:
		return s.FinishedAt.Sub(s.StartedAt)
	}
}

// Tracker records model statuses, safe for concurrent use
type Tracker struct {
	mu       sync.RWMutex
	statuses map[string]*Status
}

// NewTracker creates a tracker with every model pending
func NewTracker(models []Model) *Tracker {
	t := &Tracker{statuses: make(map[string]*Status, len(models))}
	for _, m := range models {
		t.statuses[m.Name] = &Status{Model: m, State: StatePending, ExitCode: -1}
	}
	return t
}

func (t *Tracker) update(name string, fn func(*Status)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.statuses[name]; ok {
		fn(s)
	}
}

func (t *Tracker) started(name string) {
	t.update(name, func(s *Status) {
		s.State = StateRunning
		s.StartedAt = time.Now()
	})
}

func (t *Tracker) finished(name string, code int, err error) {
	t.update(name, func(s *Status) {
		s.FinishedAt = time.Now()
		s.ExitCode = code
		if code == 0 && err == nil {
			s.State = StateSucceeded
			return
		}
		s.State = StateFailed
		if err != nil {
			s.Error = err.Error()
		}
	})
}

// Get returns the status of a model
func (t *Tracker) Get(name string) (Status, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.statuses[name]
	if !ok {
		return Status{}, false
	}
	return *s, true
}

// List returns every status sorted by model name
func (t *Tracker) List() []Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Status, 0, len(t.statuses))
	for _, s := range t.statuses {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Model.Name < out[j].Model.Name })
	return out
}

// Counts returns the number of models in each state
func (t *Tracker) Counts() map[State]int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	counts := make(map[State]int, 4)
	for _, s := range t.statuses {
		counts[s.State]++
	}
	return counts
}
