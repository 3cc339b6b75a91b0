package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/aussiebroadwan/console/internal/console/app"
)

type cli struct {
	app *app.Application

	// location is the user list query the run started from.
	location string

	in     *bufio.Reader
	stdin  io.Reader
	out    io.Writer
	errOut io.Writer
}

func newCLI(a *app.Application, stdin io.Reader, stdout, stderr io.Writer) *cli {
	return &cli{app: a, in: bufio.NewReader(stdin), stdin: stdin, out: stdout, errOut: stderr}
}

// line prompts on stderr and reads one line.
func (c *cli) line(prompt string) (string, error) {
	fmt.Fprint(c.errOut, prompt+": ")
	s, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

// secret reads a password without echo when stdin is a terminal, and as a
// plain line otherwise.
func (c *cli) secret(prompt string) (string, error) {
	f, ok := c.stdin.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return c.line(prompt)
	}

	fmt.Fprint(c.errOut, prompt+": ")
	pw, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(c.errOut)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// newSecret asks for a password twice.
func (c *cli) newSecret(prompt string) (password, confirmation string, err error) {
	if password, err = c.secret(prompt); err != nil {
		return "", "", err
	}
	if confirmation, err = c.secret("Confirm " + strings.ToLower(prompt)); err != nil {
		return "", "", err
	}
	return password, confirmation, nil
}
