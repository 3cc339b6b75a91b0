// Package password holds the slice for changing the current account's
// password.
package password

import (
	"context"

	"github.com/aussiebroadwan/console/internal/console/lifecycle"
	"github.com/aussiebroadwan/console/pkg/apiclient"
)

const OpUpdatePassword lifecycle.Op = "password/update_password"

const (
	SuccessMessage = "Password changed!"
	FailureMessage = "An error has occurred! The password could not be changed."
)

// State is the password-change form slice.
type State struct {
	Loading        bool
	ErrorMessage   string
	SuccessMessage string
	UpdateSuccess  bool
	UpdateFailure  bool
}

// Initial returns the state the slice starts in and resets to.
func Initial() State { return State{} }

// Reset returns the slice to Initial.
type Reset struct{}

func (Reset) Type() string { return "password/reset" }

// Reduce applies in to s. Notifications of other slices leave s as is.
func Reduce(s State, in lifecycle.Intent) State {
	switch in := in.(type) {
	case Reset:
		return Initial()
	case lifecycle.Notification:
		if in.Op != OpUpdatePassword {
			return s
		}
		switch in.Phase {
		case lifecycle.Pending:
			s.ErrorMessage = ""
			s.UpdateSuccess = false
			s.Loading = true
		case lifecycle.Rejected:
			s.Loading = false
			s.UpdateSuccess = false
			s.UpdateFailure = true
			s.ErrorMessage = FailureMessage
		case lifecycle.Fulfilled:
			s.Loading = false
			s.UpdateSuccess = true
			s.UpdateFailure = false
			s.SuccessMessage = SuccessMessage
		}
	}
	return s
}

// API is the change-password endpoint, as implemented by *apiclient.Client.
type API interface {
	ChangePassword(ctx context.Context, pc apiclient.PasswordChange) (*apiclient.Response[struct{}], error)
}

// Service runs the workflows of the slice against API and dispatches
// their lifecycle to Dispatcher.
type Service struct {
	Dispatcher lifecycle.Dispatcher
	API        API
}

// Save changes the password of the logged in account.
func (s *Service) Save(ctx context.Context, currentPassword, newPassword string) error {
	_, err := lifecycle.Run(ctx, s.Dispatcher, OpUpdatePassword,
		apiclient.PasswordChange{CurrentPassword: currentPassword, NewPassword: newPassword},
		s.API.ChangePassword,
	)
	return err
}

// Reset dispatches Reset.
func (s *Service) Reset() { s.Dispatcher.Dispatch(Reset{}) }
