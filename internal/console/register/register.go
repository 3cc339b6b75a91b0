// Package register holds the registration slice.
package register

import (
	"context"

	"github.com/aussiebroadwan/console/internal/console/lifecycle"
	"github.com/aussiebroadwan/console/pkg/apiclient"
)

const OpCreateAccount lifecycle.Op = "register/create_account"

// SuccessMessage is shown once a registration has been accepted.
const SuccessMessage = "Registration saved! Please check your email for confirmation."

// DefaultLangKey is sent when the registration names no language.
const DefaultLangKey = "en"

// State is the registration form slice.
type State struct {
	Loading             bool
	RegistrationSuccess bool
	RegistrationFailure bool
	ErrorMessage        string
	SuccessMessage      string
}

// Initial returns the state the slice starts in and resets to.
func Initial() State { return State{} }

// Reset discards the outcome of the last registration.
type Reset struct{}

func (Reset) Type() string { return "register/reset" }

// Reduce applies in to s. Notifications of other slices leave s as is.
func Reduce(s State, in lifecycle.Intent) State {
	switch in := in.(type) {
	case Reset:
		return Initial()
	case lifecycle.Notification:
		if in.Op != OpCreateAccount {
			return s
		}
		switch in.Phase {
		case lifecycle.Pending:
			s.Loading = true
		case lifecycle.Rejected:
			s = Initial()
			s.RegistrationFailure = true
			s.ErrorMessage = in.ErrorMessage()
		case lifecycle.Fulfilled:
			s = Initial()
			s.RegistrationSuccess = true
			s.SuccessMessage = SuccessMessage
		}
	}
	return s
}

// API is the register endpoint, as implemented by *apiclient.Client.
type API interface {
	Register(ctx context.Context, reg apiclient.Registration) (*apiclient.Response[struct{}], error)
}

// Service runs the workflows of the slice against API and dispatches
// their lifecycle to Dispatcher.
type Service struct {
	Dispatcher lifecycle.Dispatcher
	API        API
}

// Register submits a new account.
func (s *Service) Register(ctx context.Context, reg apiclient.Registration) error {
	if reg.LangKey == "" {
		reg.LangKey = DefaultLangKey
	}
	_, err := lifecycle.Run(ctx, s.Dispatcher, OpCreateAccount, reg, s.API.Register)
	return err
}

// Reset dispatches Reset.
func (s *Service) Reset() { s.Dispatcher.Dispatch(Reset{}) }
