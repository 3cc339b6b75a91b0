// Package settings holds the slice for editing the current account.
//
// The slice never stores the saved account. Save re-fetches the session
// after the update so the authentication slice picks up the change.
package settings

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/console/internal/console/lifecycle"
	"github.com/aussiebroadwan/console/pkg/apiclient"
)

const OpUpdateAccount lifecycle.Op = "settings/update_account"

const SuccessMessage = "Settings saved!"

// State is the account-settings form slice.
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

func (Reset) Type() string { return "settings/reset" }

// Reduce applies in to s. Notifications of other slices leave s as is.
func Reduce(s State, in lifecycle.Intent) State {
	switch in := in.(type) {
	case Reset:
		return Initial()
	case lifecycle.Notification:
		if in.Op != OpUpdateAccount {
			return s
		}
		switch in.Phase {
		case lifecycle.Pending:
			s.Loading = true
			s.ErrorMessage = ""
			s.UpdateSuccess = false
		case lifecycle.Rejected:
			s.Loading = false
			s.UpdateSuccess = false
			s.UpdateFailure = true
		case lifecycle.Fulfilled:
			s.Loading = false
			s.UpdateSuccess = true
			s.UpdateFailure = false
			s.SuccessMessage = SuccessMessage
		}
	}
	return s
}

// API is the account update endpoint, as implemented by *apiclient.Client.
type API interface {
	SaveAccount(ctx context.Context, account apiclient.Account) (*apiclient.Response[struct{}], error)
}

// Session re-fetches the current account.
type Session interface {
	GetSession(ctx context.Context) error
}

// Service runs the workflows of the slice against API and dispatches
// their lifecycle to Dispatcher.
type Service struct {
	Dispatcher lifecycle.Dispatcher
	API        API
	Session    Session
}

// UpdateAccount saves account without touching the session.
func (s *Service) UpdateAccount(ctx context.Context, account apiclient.Account) error {
	_, err := lifecycle.Run(ctx, s.Dispatcher, OpUpdateAccount, account, s.API.SaveAccount)
	return err
}

// Save updates the account and then re-fetches the session, whether or
// not the update went through.
func (s *Service) Save(ctx context.Context, account apiclient.Account) error {
	err := s.UpdateAccount(ctx, account)
	return errors.Join(err, s.Session.GetSession(ctx))
}

// Reset dispatches Reset.
func (s *Service) Reset() { s.Dispatcher.Dispatch(Reset{}) }
