// Package tokens holds the bearer credential between invocations.
//
// There are two persistence scopes. Local survives restarts; Session lives
// as long as the process. A token sits in exactly one of them: setting it
// in one scope removes it from the other. Nothing here tracks expiry; the
// API decides how long a token is good for.
package tokens

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

// Key is the fixed name the token is stored under in either scope.
const Key = "jhi-authenticationToken"

// Scope selects where a token is persisted.
type Scope string

const (
	// Local is the durable scope, chosen by "remember me".
	Local Scope = "local"
	// Session is cleared when the process exits.
	Session Scope = "session"
)

// ErrUnknownScope is returned for a Scope other than Local or Session.
var ErrUnknownScope = errors.New("tokens: unknown scope")

// Backend is a key/value persistence scope.
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Holder keeps the bearer token in one of two scopes.
type Holder struct {
	local   Backend
	session Backend
}

// NewHolder returns a Holder over the durable and session backends.
func NewHolder(local, session Backend) *Holder {
	return &Holder{local: local, session: session}
}

func (h *Holder) backends(scope Scope) (target, other Backend, err error) {
	switch scope {
	case Local:
		return h.local, h.session, nil
	case Session:
		return h.session, h.local, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownScope, scope)
	}
}

// Set stores token in scope and removes any copy from the other scope.
func (h *Holder) Set(ctx context.Context, scope Scope, token string) error {
	target, other, err := h.backends(scope)
	if err != nil {
		return err
	}
	if err := other.Remove(ctx, Key); err != nil {
		return fmt.Errorf("tokens: remove stale copy: %w", err)
	}
	if err := target.Set(ctx, Key, token); err != nil {
		return fmt.Errorf("tokens: set %s: %w", scope, err)
	}
	return nil
}

// Get returns the token held in scope. ok is false when the scope is empty.
func (h *Holder) Get(ctx context.Context, scope Scope) (token string, ok bool, err error) {
	target, _, err := h.backends(scope)
	if err != nil {
		return "", false, err
	}
	return target.Get(ctx, Key)
}

// Clear removes the token from both scopes, whichever held it.
func (h *Holder) Clear(ctx context.Context) error {
	return errors.Join(
		h.local.Remove(ctx, Key),
		h.session.Remove(ctx, Key),
	)
}

// Token returns the current bearer token, preferring the durable scope.
// It returns "" when neither scope holds one.
func (h *Holder) Token(ctx context.Context) (string, error) {
	for _, scope := range []Scope{Local, Session} {
		tok, ok, err := h.Get(ctx, scope)
		if err != nil {
			return "", err
		}
		if ok && tok != "" {
			return tok, nil
		}
	}
	return "", nil
}

// Subject returns the unverified "sub" claim of a JWT, or "" if the token
// does not parse. Use it for log attribution only: the signature is not
// checked.
func Subject(token string) string {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return ""
	}
	return claims.Subject
}

// Memory is an in-process Backend. It backs the Session scope.
type Memory struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewMemory returns an empty Memory backend.
func NewMemory() *Memory {
	return &Memory{m: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.m[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.m[key] = value
	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.m, key)
	return nil
}
