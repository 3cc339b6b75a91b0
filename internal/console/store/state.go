package store

import (
	"github.com/aussiebroadwan/console/internal/console/activate"
	"github.com/aussiebroadwan/console/internal/console/auth"
	"github.com/aussiebroadwan/console/internal/console/lifecycle"
	"github.com/aussiebroadwan/console/internal/console/password"
	"github.com/aussiebroadwan/console/internal/console/passwordreset"
	"github.com/aussiebroadwan/console/internal/console/register"
	"github.com/aussiebroadwan/console/internal/console/settings"
	"github.com/aussiebroadwan/console/internal/console/usermgmt"
)

// State is the whole state tree, one field per slice.
type State struct {
	Authentication auth.State
	Register       register.State
	Activate       activate.State
	PasswordReset  passwordreset.State
	Password       password.State
	Settings       settings.State
	UserManagement usermgmt.State
}

// Initial returns every slice in its initial state.
func Initial() State {
	return State{
		Authentication: auth.Initial(),
		Register:       register.Initial(),
		Activate:       activate.Initial(),
		PasswordReset:  passwordreset.Initial(),
		Password:       password.Initial(),
		Settings:       settings.Initial(),
		UserManagement: usermgmt.Initial(),
	}
}

// Reduce offers in to every slice.
func Reduce(s State, in lifecycle.Intent) State {
	return State{
		Authentication: auth.Reduce(s.Authentication, in),
		Register:       register.Reduce(s.Register, in),
		Activate:       activate.Reduce(s.Activate, in),
		PasswordReset:  passwordreset.Reduce(s.PasswordReset, in),
		Password:       password.Reduce(s.Password, in),
		Settings:       settings.Reduce(s.Settings, in),
		UserManagement: usermgmt.Reduce(s.UserManagement, in),
	}
}
