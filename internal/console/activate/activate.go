// Package activate holds the slice for activating a registered account
// with the key from its confirmation mail.
package activate

import (
	"context"

	"github.com/aussiebroadwan/console/internal/console/lifecycle"
	"github.com/aussiebroadwan/console/pkg/apiclient"
)

const OpActivateAccount lifecycle.Op = "activate/activate_account"

// State is the activation page slice.
type State struct {
	Loading           bool
	ActivationSuccess bool
	ActivationFailure bool
	ErrorMessage      string
}

// Initial returns the state the slice starts in and resets to.
func Initial() State { return State{} }

// Reset returns the slice to Initial.
type Reset struct{}

func (Reset) Type() string { return "activate/reset" }

// Reduce applies in to s. Notifications of other slices leave s as is.
func Reduce(s State, in lifecycle.Intent) State {
	switch in := in.(type) {
	case Reset:
		return Initial()
	case lifecycle.Notification:
		if in.Op != OpActivateAccount {
			return s
		}
		switch in.Phase {
		case lifecycle.Pending:
			s = Initial()
			s.Loading = true
		case lifecycle.Rejected:
			s.Loading = false
			s.ActivationFailure = true
			s.ErrorMessage = in.ErrorMessage()
		case lifecycle.Fulfilled:
			s.Loading = false
			s.ActivationSuccess = true
		}
	}
	return s
}

// API is the activation endpoint, as implemented by *apiclient.Client.
type API interface {
	Activate(ctx context.Context, key string) (*apiclient.Response[struct{}], error)
}

// Service runs the workflows of the slice against API and dispatches
// their lifecycle to Dispatcher.
type Service struct {
	Dispatcher lifecycle.Dispatcher
	API        API
}

// Activate activates the account the key was issued for.
func (s *Service) Activate(ctx context.Context, key string) error {
	_, err := lifecycle.Run(ctx, s.Dispatcher, OpActivateAccount, key, s.API.Activate)
	return err
}

// Reset dispatches Reset.
func (s *Service) Reset() { s.Dispatcher.Dispatch(Reset{}) }
