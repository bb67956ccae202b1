package search

import (
	"sync"
	"sync/atomic"

	"moviecatalog/catalogservice/internal/metrics"
)

type ActivityState struct {
	Busy     bool  `json:"busy"`
	InFlight int64 `json:"inFlight"`
}

// Activity counts running aggregations and reports idle/busy transitions.
type Activity struct {
	inFlight  atomic.Int64
	mu        sync.Mutex
	listeners []func(ActivityState)
}

func NewActivity() *Activity {
	return &Activity{}
}

// Subscribe registers fn for idle->busy and busy->idle transitions. Listeners
// run synchronously and must not call Begin.
func (a *Activity) Subscribe(fn func(ActivityState)) {
	if fn == nil {
		return
	}
	a.mu.Lock()
	a.listeners = append(a.listeners, fn)
	a.mu.Unlock()
}

// Begin marks one aggregation as started. The returned func marks it
// finished and is safe to call more than once.
func (a *Activity) Begin() func() {
	a.mu.Lock()
	n := a.inFlight.Add(1)
	metrics.SearchesInFlight.Inc()
	if n == 1 {
		a.notifyLocked(ActivityState{Busy: true, InFlight: n})
	}
	a.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			a.mu.Lock()
			n := a.inFlight.Add(-1)
			metrics.SearchesInFlight.Dec()
			if n == 0 {
				a.notifyLocked(ActivityState{Busy: false, InFlight: 0})
			}
			a.mu.Unlock()
		})
	}
}

func (a *Activity) Busy() bool {
	return a.inFlight.Load() > 0
}

func (a *Activity) State() ActivityState {
	n := a.inFlight.Load()
	return ActivityState{Busy: n > 0, InFlight: n}
}

func (a *Activity) notifyLocked(state ActivityState) {
	for _, fn := range a.listeners {
		fn(state)
	}
}
