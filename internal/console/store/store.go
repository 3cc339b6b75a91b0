// Package store composes the slices into one state tree that intents are
// dispatched to and listeners subscribe to.
//
// A Store is constructed explicitly and handed to whatever needs it. Intents
// are reduced one at a time. Listeners receive the state after every
// reduction, in reduction order and one delivery at a time, outside the
// lock and in subscription order. A listener may dispatch; its intent is
// reduced at once and delivered after the current delivery.
package store

import (
	"slices"
	"sync"

	"github.com/aussiebroadwan/console/internal/console/lifecycle"
	"github.com/aussiebroadwan/console/internal/console/usermgmt"
)

// Listener is called with the state after every reduced intent.
type Listener func(State)

// Middleware wraps dispatch. It runs in the dispatching goroutine, before
// the intent reaches the reducers, and may drop, delay or add intents.
type Middleware func(next lifecycle.DispatchFunc) lifecycle.DispatchFunc

type Option func(*Store)

// WithMiddleware adds middleware. The first one given sees intents first.
func WithMiddleware(mw ...Middleware) Option {
	return func(s *Store) { s.middleware = append(s.middleware, mw...) }
}

// WithState starts the store from state instead of Initial().
func WithState(state State) Option {
	return func(s *Store) { s.state = state }
}

type subscription struct {
	fn Listener
}

// Store holds the state tree. The zero value is not usable; call New.
type Store struct {
	middleware []Middleware
	dispatch   lifecycle.DispatchFunc

	mu        sync.Mutex
	state     State
	listeners []*subscription
	// pending holds snapshots not yet delivered to listeners.
	pending    []State
	delivering bool
}

// New builds a store with its middleware chain.
func New(opts ...Option) *Store {
	s := &Store{state: Initial()}
	for _, opt := range opts {
		opt(s)
	}

	s.dispatch = s.reduce
	for i := len(s.middleware) - 1; i >= 0; i-- {
		s.dispatch = s.middleware[i](s.dispatch)
	}
	return s
}

// State returns a snapshot of the state tree.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// UserManagement returns the user-management slice.
func (s *Store) UserManagement() usermgmt.State {
	return s.State().UserManagement
}

func (s *Store) Dispatch(in lifecycle.Intent) {
	s.dispatch(in)
}

// Subscribe registers fn and returns a function that removes it again.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	sub := &subscription{fn: fn}

	s.mu.Lock()
	s.listeners = append(s.listeners, sub)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.listeners = slices.DeleteFunc(s.listeners, func(l *subscription) bool { return l == sub })
		})
	}
}

// reduce applies in under the lock, so a dispatch is visible to State as
// soon as Dispatch returns. The resulting snapshot is queued for the
// listeners; whichever call finds nobody delivering drains the queue.
func (s *Store) reduce(in lifecycle.Intent) {
	s.mu.Lock()
	s.state = Reduce(s.state, in)
	s.pending = append(s.pending, s.state)
	if s.delivering {
		s.mu.Unlock()
		return
	}
	s.delivering = true
	s.mu.Unlock()

	s.deliver()
}

// deliver drains the queue. A panicking listener unwinds through Dispatch;
// the snapshots still queued go out with the next dispatch.
func (s *Store) deliver() {
	drained := false
	defer func() {
		if !drained {
			s.mu.Lock()
			s.delivering = false
			s.mu.Unlock()
		}
	}()

	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.pending = nil
			s.delivering = false
			drained = true
			s.mu.Unlock()
			return
		}
		state := s.pending[0]
		s.pending = s.pending[1:]
		listeners := slices.Clone(s.listeners)
		s.mu.Unlock()

		for _, l := range listeners {
			l.fn(state)
		}
	}
}
