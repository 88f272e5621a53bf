// Package buffer models the editable text surfaces the sculpt engine reads
// from and writes to.
//
// A host (the TUI, the headless runner, a test) owns the surfaces. The engine
// only sees the View interface: it reads the live value at call start and
// overwrites it on every streamed chunk.
package buffer

import "sync"

// View is an editable text surface.
type View interface {
	// Value returns the current content.
	Value() string

	// SetValue replaces the entire content and notifies listeners.
	SetValue(string)

	// OnChange registers fn to be called after every SetValue. The returned
	// function removes the listener.
	OnChange(fn func(string)) (remove func())
}

// Text is an in-memory View. It is safe for concurrent use. Listeners run
// on the goroutine that called SetValue, after the internal lock is
// released, in registration order.
type Text struct {
	mu        sync.RWMutex
	value     string
	listeners []listener
	nextID    int
}

type listener struct {
	id int
	fn func(string)
}

// NewText creates a Text holding initial.
func NewText(initial string) *Text {
	return &Text{value: initial}
}

// Value implements View.
func (t *Text) Value() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.value
}

// SetValue implements View.
func (t *Text) SetValue(v string) {
	t.mu.Lock()
	t.value = v
	fns := make([]func(string), len(t.listeners))
	for i, l := range t.listeners {
		fns[i] = l.fn
	}
	t.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Set replaces the content without notifying listeners. Hosts use it to
// mirror edits that originated in the listener itself.
func (t *Text) Set(v string) {
	t.mu.Lock()
	t.value = v
	t.mu.Unlock()
}

// OnChange implements View.
func (t *Text) OnChange(fn func(string)) func() {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextID
	t.nextID++
	t.listeners = append(t.listeners, listener{id: id, fn: fn})

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		for i, l := range t.listeners {
			if l.id == id {
				t.listeners = append(t.listeners[:i], t.listeners[i+1:]...)
				return
			}
		}
	}
}

// Recorder collects every value passed to a View's listeners, in order.
// It is meant for tests and for hosts that need the write history.
type Recorder struct {
	mu     sync.Mutex
	values []string
}

// Record subscribes the recorder to v and returns the removal function.
func (r *Recorder) Record(v View) func() {
	return v.OnChange(func(s string) {
		r.mu.Lock()
		r.values = append(r.values, s)
		r.mu.Unlock()
	})
}

// Values returns a copy of the recorded values.
func (r *Recorder) Values() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.values))
	copy(out, r.values)
	return out
}
