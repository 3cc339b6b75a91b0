// Package auth holds the authentication slice: who is logged in, whether
// the login modal should be shown, and the login/logout workflows that
// drive it.
package auth

import (
	"github.com/aussiebroadwan/console/internal/console/lifecycle"
	"github.com/aussiebroadwan/console/pkg/apiclient"
)

// Operations owned by this slice.
const (
	OpLogin      lifecycle.Op = "authentication/login"
	OpGetAccount lifecycle.Op = "authentication/get_account"
)

// State is the authentication slice.
type State struct {
	Loading         bool
	IsAuthenticated bool
	LoginSuccess    bool
	// LoginError is set when the server rejected the credentials.
	LoginError     bool
	ShowModalLogin bool
	// Account is nil until the current account has been fetched.
	Account         *apiclient.Account
	ErrorMessage    string
	RedirectMessage string
	// SessionHasBeenFetched is set once the first account fetch settles,
	// successfully or not.
	SessionHasBeenFetched bool
}

// Initial returns the state the slice starts in and resets to.
func Initial() State { return State{} }

// LogoutSession resets the slice and asks for the login modal.
type LogoutSession struct{}

func (LogoutSession) Type() string { return "authentication/logoutSession" }

// AuthError shows the login modal with a redirect message, keeping
// everything else.
type AuthError struct {
	Message string
}

func (AuthError) Type() string { return "authentication/authError" }

// ClearAuth drops the authenticated flag without a full reset.
type ClearAuth struct{}

func (ClearAuth) Type() string { return "authentication/clearAuth" }

// Reduce applies in to s.
func Reduce(s State, in lifecycle.Intent) State {
	switch in := in.(type) {
	case LogoutSession:
		next := Initial()
		next.ShowModalLogin = true
		return next

	case AuthError:
		s.ShowModalLogin = true
		s.RedirectMessage = in.Message
		return s

	case ClearAuth:
		s.Loading = false
		s.ShowModalLogin = true
		s.IsAuthenticated = false
		return s

	case lifecycle.Notification:
		return reduceNotification(s, in)
	}
	return s
}

func reduceNotification(s State, n lifecycle.Notification) State {
	switch {
	case n.Is(OpLogin, lifecycle.Pending), n.Is(OpGetAccount, lifecycle.Pending):
		s.Loading = true

	case n.Is(OpLogin, lifecycle.Rejected):
		next := Initial()
		next.ErrorMessage = n.ErrorMessage()
		next.ShowModalLogin = true
		next.LoginError = true
		return next

	case n.Is(OpLogin, lifecycle.Fulfilled):
		s.Loading = false
		s.LoginError = false
		s.ShowModalLogin = false
		s.LoginSuccess = true

	case n.Is(OpGetAccount, lifecycle.Rejected):
		s.Loading = false
		s.IsAuthenticated = false
		s.SessionHasBeenFetched = true
		s.ShowModalLogin = true
		s.ErrorMessage = n.ErrorMessage()

	case n.Is(OpGetAccount, lifecycle.Fulfilled):
		var account *apiclient.Account
		if resp, ok := lifecycle.PayloadAs[*apiclient.Response[apiclient.Account]](n); ok && resp != nil {
			fetched := resp.Data
			account = &fetched
		}
		s.IsAuthenticated = account != nil && account.Activated
		s.Loading = false
		s.SessionHasBeenFetched = true
		s.Account = account
	}
	return s
}
