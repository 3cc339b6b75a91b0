// console is a command line front end for the account and user
// administration API.
//
// Usage:
//
//	console [global flags] <command> [flags] [args]
//
// Run "console help" for the list of commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/aussiebroadwan/console/internal/console/app"
	"github.com/aussiebroadwan/console/internal/console/notify"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type command struct {
	summary string
	run     func(ctx context.Context, c *cli, args []string) error
}

var commands = map[string]command{
	"login":           {"log in, --remember-me keeps the login across runs", loginCmd},
	"logout":          {"forget the stored login", logoutCmd},
	"account":         {"show the logged in account", accountCmd},
	"register":        {"register a new account", registerCmd},
	"activate":        {"activate an account with its mailed key", activateCmd},
	"reset-password":  {"reset a forgotten password: init <email> | finish <key>", resetPasswordCmd},
	"change-password": {"change the password of the logged in account", changePasswordCmd},
	"settings":        {"edit the logged in account", settingsCmd},
	"users":           {"administer users: list | get | create | update | delete | toggle | roles", usersCmd},
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}

	var location string
	fs := pflag.NewFlagSet("console", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SetInterspersed(false)
	cfg.BindFlags(fs)
	fs.StringVar(&location, "location", "", `user list query to start from, e.g. "?page=2&sort=login,asc"`)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printUsage(stderr, fs)
			return nil
		}
		return err
	}

	rest := fs.Args()
	if len(rest) == 0 || rest[0] == "help" {
		printUsage(stderr, fs)
		return nil
	}

	cmd, ok := commands[rest[0]]
	if !ok {
		return fmt.Errorf("unknown command %q, see \"console help\"", rest[0])
	}

	application, err := app.New(cfg,
		app.WithNotifier(notify.NewWriter(stderr)),
		app.WithLocation(location),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer application.Close()

	c := newCLI(application, stdin, stdout, stderr)
	c.location = location
	return cmd.run(application.Context(ctx), c, rest[1:])
}

func printUsage(w io.Writer, fs *pflag.FlagSet) {
	fmt.Fprintln(w, "Usage: console [global flags] <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-16s %s\n", name, commands[name].summary)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global flags:")
	fmt.Fprint(w, fs.FlagUsages())
}
