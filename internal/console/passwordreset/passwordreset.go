// Package passwordreset holds the slice shared by both halves of the
// forgotten-password flow: asking for a reset mail and setting the new
// password with the mailed key.
package passwordreset

import (
	"context"

	"github.com/aussiebroadwan/console/internal/console/lifecycle"
	"github.com/aussiebroadwan/console/pkg/apiclient"
)

const (
	OpInit   lifecycle.Op = "passwordReset/reset_password_init"
	OpFinish lifecycle.Op = "passwordReset/reset_password_finish"
)

var ops = lifecycle.OpSet{OpInit, OpFinish}

// Messages set on success.
const (
	InitMessage   = "Check your emails for details on how to reset your password."
	FinishMessage = "Your password has been reset."
)

// State is the forgotten-password flow slice.
type State struct {
	Loading              bool
	ResetPasswordSuccess bool
	ResetPasswordFailure bool
	SuccessMessage       string
}

// Initial returns the state the slice starts in and resets to.
func Initial() State { return State{} }

// Reset clears any message left from an earlier visit.
type Reset struct{}

func (Reset) Type() string { return "passwordReset/reset" }

// Reduce applies in to s. Notifications of other slices leave s as is.
func Reduce(s State, in lifecycle.Intent) State {
	switch in := in.(type) {
	case Reset:
		return Initial()
	case lifecycle.Notification:
		if !ops.Has(in.Op) {
			return s
		}
		switch in.Phase {
		case lifecycle.Pending:
			s.Loading = true
		case lifecycle.Rejected:
			s = Initial()
			s.ResetPasswordFailure = true
		case lifecycle.Fulfilled:
			s = Initial()
			s.ResetPasswordSuccess = true
			s.SuccessMessage = InitMessage
			if in.Op == OpFinish {
				s.SuccessMessage = FinishMessage
			}
		}
	}
	return s
}

// API covers the reset-password endpoints, as implemented by *apiclient.Client.
type API interface {
	ResetPasswordInit(ctx context.Context, email string) (*apiclient.Response[struct{}], error)
	ResetPasswordFinish(ctx context.Context, kp apiclient.KeyAndPassword) (*apiclient.Response[struct{}], error)
}

// Service runs the workflows of the slice against API and dispatches
// their lifecycle to Dispatcher.
type Service struct {
	Dispatcher lifecycle.Dispatcher
	API        API
}

// Init requests a reset mail for email.
func (s *Service) Init(ctx context.Context, email string) error {
	_, err := lifecycle.Run(ctx, s.Dispatcher, OpInit, email, s.API.ResetPasswordInit)
	return err
}

// Finish sets newPassword using the mailed key.
func (s *Service) Finish(ctx context.Context, key, newPassword string) error {
	_, err := lifecycle.Run(ctx, s.Dispatcher, OpFinish,
		apiclient.KeyAndPassword{Key: key, NewPassword: newPassword},
		s.API.ResetPasswordFinish,
	)
	return err
}

// Reset dispatches Reset.
func (s *Service) Reset() { s.Dispatcher.Dispatch(Reset{}) }
