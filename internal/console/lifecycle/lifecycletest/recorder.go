// Package lifecycletest provides a recording Dispatcher for tests.
package lifecycletest

import (
	"sync"

	"github.com/aussiebroadwan/console/internal/console/lifecycle"
)

// Recorder records every dispatched intent and optionally forwards it.
type Recorder struct {
	mu      sync.Mutex
	intents []lifecycle.Intent
	next    lifecycle.Dispatcher
}

// NewRecorder returns a Recorder forwarding to next, which may be nil.
func NewRecorder(next lifecycle.Dispatcher) *Recorder {
	return &Recorder{next: next}
}

func (r *Recorder) Dispatch(in lifecycle.Intent) {
	r.mu.Lock()
	r.intents = append(r.intents, in)
	r.mu.Unlock()

	if r.next != nil {
		r.next.Dispatch(in)
	}
}

// Intents returns a copy of everything dispatched so far.
func (r *Recorder) Intents() []lifecycle.Intent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]lifecycle.Intent(nil), r.intents...)
}

// Types returns the Type() of every dispatched intent, in order.
func (r *Recorder) Types() []string {
	intents := r.Intents()
	out := make([]string, len(intents))
	for i, in := range intents {
		out[i] = in.Type()
	}
	return out
}

// Count returns how many notifications of op in phase were dispatched.
func (r *Recorder) Count(op lifecycle.Op, phase lifecycle.Phase) int {
	n := 0
	for _, in := range r.Intents() {
		if note, ok := in.(lifecycle.Notification); ok && note.Is(op, phase) {
			n++
		}
	}
	return n
}

// Notifications returns the recorded notifications of op.
func (r *Recorder) Notifications(op lifecycle.Op) []lifecycle.Notification {
	var out []lifecycle.Notification
	for _, in := range r.Intents() {
		if note, ok := in.(lifecycle.Notification); ok && note.Op == op {
			out = append(out, note)
		}
	}
	return out
}
