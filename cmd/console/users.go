package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/aussiebroadwan/console/internal/console/pagination"
	"github.com/aussiebroadwan/console/internal/console/validate"
	"github.com/aussiebroadwan/console/pkg/apiclient"
)

func usersCmd(ctx context.Context, c *cli, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: console users list | get <login> | create | update <login> | delete <login> | toggle <login> | roles")
	}

	sub, args := args[0], args[1:]
	switch sub {
	case "list":
		return usersListCmd(ctx, c, args)
	case "get":
		return usersGetCmd(ctx, c, args)
	case "create":
		return usersSaveCmd(ctx, c, "", args)
	case "update":
		if len(args) == 0 {
			return errors.New("usage: console users update <login> [flags]")
		}
		return usersSaveCmd(ctx, c, args[0], args[1:])
	case "delete":
		return usersDeleteCmd(ctx, c, args)
	case "toggle":
		return usersToggleCmd(ctx, c, args)
	case "roles":
		return usersRolesCmd(ctx, c)
	default:
		return fmt.Errorf("unknown users command %q", sub)
	}
}

func usersListCmd(ctx context.Context, c *cli, args []string) error {
	fs := newFlags("users list", c)
	page := fs.Int("page", 0, "1-based page to show")
	sortBy := fs.String("sort", "", "column to sort by; repeating the current column flips the order")
	location := fs.String("location", "", `jump to a query such as "?page=3&sort=email,desc"`)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.Changed("location") {
		_, _ = c.app.Pages.Navigated(*location)
		c.location = *location
	}
	if fs.Changed("sort") {
		c.app.Pages.Update(func(q pagination.Query) pagination.Query { return q.SortBy(*sortBy) })
	}
	if fs.Changed("page") {
		c.app.Pages.Update(func(q pagination.Query) pagination.Query { return q.GoTo(*page) })
	}

	if _, err := c.app.Users.List(ctx); err != nil {
		return err
	}

	st := c.app.Store.State().UserManagement
	printUsers(c, st.Users)

	q := c.app.Pages.Query()
	fmt.Fprintf(c.out, "\npage %d of %d, %d users\n", q.Page, q.LastPage(st.TotalCount), st.TotalCount)
	if target, navigate := c.app.Pages.Sync(c.location); navigate {
		fmt.Fprintf(c.errOut, "location: %s\n", target)
	}
	return nil
}

func printUsers(c *cli, users []apiclient.Account) {
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLOGIN\tEMAIL\tACTIVATED\tAUTHORITIES")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%t\t%s\n", u.ID, u.Login, u.Email, u.Activated, strings.Join(u.Authorities, ","))
	}
	_ = tw.Flush()
}

func usersGetCmd(ctx context.Context, c *cli, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: console users get <login>")
	}
	resp, err := c.app.Users.GetUser(ctx, args[0])
	if err != nil {
		return err
	}
	printUsers(c, []apiclient.Account{resp.Data})
	return nil
}

// usersSaveCmd creates a user when login is empty and updates it
// otherwise. An update starts from the stored user so unset flags keep
// their value.
func usersSaveCmd(ctx context.Context, c *cli, login string, args []string) error {
	fs := newFlags("users save", c)
	newLogin := fs.String("login", "", "login name")
	first := fs.String("first-name", "", "first name")
	last := fs.String("last-name", "", "last name")
	email := fs.String("email", "", "email address")
	lang := fs.String("lang", "", "language key")
	roles := fs.StringSlice("authorities", nil, "granted roles, comma separated")
	activated := fs.Bool("activated", false, "whether the account is active")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var user apiclient.Account
	if login != "" {
		resp, err := c.app.Users.GetUser(ctx, login)
		if err != nil {
			return err
		}
		user = resp.Data
	} else {
		user.Authorities = []string{apiclient.RoleUser}
	}

	if fs.Changed("login") || login == "" {
		user.Login = *newLogin
	}
	if fs.Changed("first-name") {
		user.FirstName = *first
	}
	if fs.Changed("last-name") {
		user.LastName = *last
	}
	if fs.Changed("email") {
		user.Email = *email
	}
	if fs.Changed("lang") {
		user.LangKey = *lang
	}
	if fs.Changed("authorities") {
		user.Authorities = *roles
	}
	if fs.Changed("activated") {
		user.Activated = *activated
	}

	if err := validate.Form(validate.UserForm{
		Login:       user.Login,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Email:       user.Email,
		Authorities: user.Authorities,
	}); err != nil {
		return err
	}

	var resp *apiclient.Response[apiclient.Account]
	var err error
	if login == "" {
		resp, err = c.app.Users.Create(ctx, user)
	} else {
		resp, err = c.app.Users.Update(ctx, user)
	}
	if err != nil {
		return err
	}
	printUsers(c, []apiclient.Account{resp.Data})
	return nil
}

func usersDeleteCmd(ctx context.Context, c *cli, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: console users delete <login>")
	}
	if err := c.app.Users.Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "deleted %s\n", args[0])
	return nil
}

func usersToggleCmd(ctx context.Context, c *cli, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: console users toggle <login>")
	}
	current, err := c.app.Users.GetUser(ctx, args[0])
	if err != nil {
		return err
	}
	resp, err := c.app.Users.ToggleActivated(ctx, current.Data)
	if err != nil {
		return err
	}
	printUsers(c, []apiclient.Account{resp.Data})
	return nil
}

func usersRolesCmd(ctx context.Context, c *cli) error {
	resp, err := c.app.Users.GetRoles(ctx)
	if err != nil {
		return err
	}
	for _, r := range resp.Data {
		fmt.Fprintln(c.out, r)
	}
	return nil
}
