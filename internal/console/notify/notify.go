// Package notify surfaces operation outcomes to the user as toasts. It sits
// in the store's middleware chain and never changes what is dispatched.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/aussiebroadwan/console/internal/console/lifecycle"
	"github.com/aussiebroadwan/console/internal/console/store"
)

// Level of a toast.
type Level string

const (
	Success Level = "success"
	Error   Level = "error"
)

// Toast is one message for the user.
type Toast struct {
	Level   Level
	Op      lifecycle.Op
	Message string
}

// Notifier shows toasts.
type Notifier interface {
	Notify(Toast)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Toast)

func (f NotifierFunc) Notify(t Toast) { f(t) }

type alerter interface {
	Alert() string
}

// Middleware toasts every rejected operation and every fulfilled one whose
// response carries an alert header. Rejections of ops in quiet are not
// toasted; the session probe at startup fails routinely when nobody is
// logged in.
func Middleware(n Notifier, quiet lifecycle.OpSet) store.Middleware {
	return func(next lifecycle.DispatchFunc) lifecycle.DispatchFunc {
		return func(in lifecycle.Intent) {
			next(in)

			note, ok := in.(lifecycle.Notification)
			if !ok {
				return
			}
			switch note.Phase {
			case lifecycle.Rejected:
				if quiet.Has(note.Op) {
					return
				}
				n.Notify(Toast{Level: Error, Op: note.Op, Message: note.ErrorMessage()})
			case lifecycle.Fulfilled:
				if a, ok := note.Payload.(alerter); ok {
					if msg := a.Alert(); msg != "" {
						n.Notify(Toast{Level: Success, Op: note.Op, Message: msg})
					}
				}
			}
		}
	}
}

// Writer prints toasts as lines, "error: <message>".
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

func (w *Writer) Notify(t Toast) {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, _ = fmt.Fprintf(w.w, "%s: %s\n", t.Level, t.Message)
}
