package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/pflag"

	"github.com/aussiebroadwan/console/internal/console/validate"
	"github.com/aussiebroadwan/console/pkg/apiclient"
)

func newFlags(name string, c *cli) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(c.errOut)
	return fs
}

func loginCmd(ctx context.Context, c *cli, args []string) error {
	fs := newFlags("login", c)
	username := fs.StringP("username", "u", "", "login name")
	remember := fs.Bool("remember-me", false, "keep the login across runs")
	if err := fs.Parse(args); err != nil {
		return err
	}

	form := validate.LoginForm{Username: *username}
	var err error
	if form.Username == "" {
		if form.Username, err = c.line("Username"); err != nil {
			return err
		}
	}
	if form.Password, err = c.secret("Password"); err != nil {
		return err
	}
	if err := validate.Form(form); err != nil {
		return err
	}

	if err := c.app.Auth.Login(ctx, form.Username, form.Password, *remember); err != nil {
		return err
	}
	return printAccount(c)
}

func logoutCmd(ctx context.Context, c *cli, _ []string) error {
	return c.app.Auth.Logout(ctx)
}

func accountCmd(ctx context.Context, c *cli, _ []string) error {
	if err := c.app.Auth.GetSession(ctx); err != nil {
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return errors.New("not logged in")
		}
		return err
	}
	return printAccount(c)
}

func printAccount(c *cli) error {
	st := c.app.Store.State().Authentication
	if st.Account == nil {
		return errors.New("no account loaded")
	}
	a := st.Account
	fmt.Fprintf(c.out, "login:       %s\n", a.Login)
	fmt.Fprintf(c.out, "name:        %s\n", strings.TrimSpace(a.FirstName+" "+a.LastName))
	fmt.Fprintf(c.out, "email:       %s\n", a.Email)
	fmt.Fprintf(c.out, "activated:   %t\n", a.Activated)
	fmt.Fprintf(c.out, "authorities: %s\n", strings.Join(a.Authorities, ", "))
	return nil
}

func registerCmd(ctx context.Context, c *cli, args []string) error {
	fs := newFlags("register", c)
	login := fs.String("login", "", "login name")
	email := fs.String("email", "", "email address")
	lang := fs.String("lang", "", "language key")
	if err := fs.Parse(args); err != nil {
		return err
	}

	form := validate.RegisterForm{Login: *login, Email: *email}
	var err error
	if form.Password, form.Confirmation, err = c.newSecret("New password"); err != nil {
		return err
	}
	if err := validate.Form(form); err != nil {
		return err
	}

	if err := c.app.Register.Register(ctx, apiclient.Registration{
		Login:    form.Login,
		Email:    form.Email,
		Password: form.Password,
		LangKey:  *lang,
	}); err != nil {
		return err
	}
	fmt.Fprintln(c.out, c.app.Store.State().Register.SuccessMessage)
	return nil
}

func activateCmd(ctx context.Context, c *cli, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: console activate <key>")
	}
	if err := c.app.Activate.Activate(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "account activated")
	return nil
}

func resetPasswordCmd(ctx context.Context, c *cli, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: console reset-password init <email> | finish <key>")
	}

	switch args[0] {
	case "init":
		form := validate.ResetInitForm{Email: args[1]}
		if err := validate.Form(form); err != nil {
			return err
		}
		if err := c.app.PasswordReset.Init(ctx, form.Email); err != nil {
			return err
		}
	case "finish":
		form := validate.ResetFinishForm{Key: args[1]}
		var err error
		if form.NewPassword, form.Confirmation, err = c.newSecret("New password"); err != nil {
			return err
		}
		if err := validate.Form(form); err != nil {
			return err
		}
		if err := c.app.PasswordReset.Finish(ctx, form.Key, form.NewPassword); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown reset-password step %q", args[0])
	}

	fmt.Fprintln(c.out, c.app.Store.State().PasswordReset.SuccessMessage)
	return nil
}

func changePasswordCmd(ctx context.Context, c *cli, _ []string) error {
	var form validate.PasswordForm
	var err error
	if form.CurrentPassword, err = c.secret("Current password"); err != nil {
		return err
	}
	if form.NewPassword, form.Confirmation, err = c.newSecret("New password"); err != nil {
		return err
	}
	if err := validate.Form(form); err != nil {
		return err
	}
	return c.app.Password.Save(ctx, form.CurrentPassword, form.NewPassword)
}

// settingsCmd edits the current account. Flags left unset keep their
// current value.
func settingsCmd(ctx context.Context, c *cli, args []string) error {
	fs := newFlags("settings", c)
	first := fs.String("first-name", "", "first name")
	last := fs.String("last-name", "", "last name")
	email := fs.String("email", "", "email address")
	lang := fs.String("lang", "", "language key")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := c.app.Auth.GetSession(ctx); err != nil {
		return err
	}
	current := c.app.Store.State().Authentication.Account
	if current == nil {
		return errors.New("no account loaded")
	}
	account := *current

	if fs.Changed("first-name") {
		account.FirstName = *first
	}
	if fs.Changed("last-name") {
		account.LastName = *last
	}
	if fs.Changed("email") {
		account.Email = *email
	}
	if fs.Changed("lang") {
		account.LangKey = *lang
	}

	if err := validate.Form(validate.SettingsForm{
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Email:     account.Email,
	}); err != nil {
		return err
	}

	if err := c.app.Settings.Save(ctx, account); err != nil {
		return err
	}
	return printAccount(c)
}
