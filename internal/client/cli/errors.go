package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AlibekovAA/user-profile/internal/client/session"
)

var errNotLoggedIn = errors.New("not logged in: run 'profilectl login' first")

// describe turns a session error into one line per problem for the terminal.
func describe(err error) error {
	ae, ok := session.AsActionError(err)
	if !ok || len(ae.Fields) < 2 {
		return err
	}

	lines := make([]string, 0, len(ae.Fields))
	for _, f := range ae.Fields {
		lines = append(lines, "  "+f.Message)
	}
	return fmt.Errorf("%s\n%s", ae.Message, strings.Join(lines, "\n"))
}
