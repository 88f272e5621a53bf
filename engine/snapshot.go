package engine

import "time"

// Snapshot is a read-only view of the engine's status and the metrics of
// the current or most recent sculpt. Metric fields are nil while unknown.
type Snapshot struct {
	Status   Status
	ID       string
	Provider string
	Model    string

	Elapsed         time.Duration
	OutputTokens    *int
	TokensPerSecond *float64
	Err             error
}

// Snapshot returns the latest published snapshot.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snap
}

// Subscribe registers fn to receive every published snapshot. Callbacks run
// synchronously on the sculpting goroutine and must not block. The returned
// function removes the subscription.
func (e *Engine) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.subs, id)
	}
}

func (e *Engine) publish(s Snapshot) {
	e.mu.Lock()
	e.snap = s
	fns := make([]func(Snapshot), 0, len(e.subs))
	for _, fn := range e.subs {
		fns = append(fns, fn)
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}

func resultSnapshot(res Result) Snapshot {
	return Snapshot{
		Status:          StatusIdle,
		ID:              res.ID,
		Provider:        res.Config.Provider,
		Model:           res.Config.ResolvedModel(),
		Elapsed:         res.Elapsed,
		OutputTokens:    res.OutputTokens,
		TokensPerSecond: res.TokensPerSecond,
		Err:             res.Err,
	}
}
