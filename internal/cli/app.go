// Package cli implements the lockbox command line client.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dimitrije/lockbox-api/internal/client"
	"github.com/dimitrije/lockbox-api/internal/fieldcrypt"
	"github.com/dimitrije/lockbox-api/pkg/dto"
	"github.com/spf13/cobra"
)

const defaultServer = "http://localhost:8080"

type App struct {
	in  *bufio.Reader
	out io.Writer

	server      string
	sessionPath string

	// forceLineInput disables no-echo terminal reads. Tests set it.
	forceLineInput bool
}

func NewApp(in io.Reader, out io.Writer) *App {
	return &App{in: newReader(in), out: out}
}

// NewRootCmd builds the lockbox command tree.
func NewRootCmd(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "lockbox",
		Short:         "Lockbox - a command line password manager",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.sessionPath == "" {
				path, err := client.DefaultSessionPath()
				if err != nil {
					return err
				}
				a.sessionPath = path
			}
			return nil
		},
	}

	server := os.Getenv("LOCKBOX_SERVER")
	if server == "" {
		server = defaultServer
	}
	root.PersistentFlags().StringVar(&a.server, "server", server, "lockbox API base URL")
	root.PersistentFlags().StringVar(&a.sessionPath, "session", a.sessionPath, "session file path")

	root.AddCommand(
		a.signupCmd(),
		a.loginCmd(),
		a.logoutCmd(),
		a.meCmd(),
		a.twoFactorCmd(),
		a.listCmd(),
		a.addCmd(),
		a.updateCmd(),
		a.deleteCmd(),
		a.exportCmd(),
		a.importCmd(),
		a.generateCmd(),
	)
	return root
}

// Execute runs the CLI and prints any error.
func Execute(ctx context.Context, a *App, args []string) int {
	root := NewRootCmd(a)
	root.SetArgs(args)
	root.SetOut(a.out)
	root.SetErr(a.out)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(a.out, Failure.Sprint("Error: ")+describe(err))
		return 1
	}
	return 0
}

func describe(err error) string {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrNoSession):
		return "not logged in, run 'lockbox login' first"
	case errors.Is(err, fieldcrypt.ErrWrongKey):
		return "wrong account password"
	case errors.Is(err, fieldcrypt.ErrNoKeyCheck):
		return "saved session predates key checks, run 'lockbox login' again"
	case errors.Is(err, fieldcrypt.ErrDecryptFailed):
		return "could not decrypt vault items, check your account password"
	case errors.As(err, &apiErr):
		return apiErr.Error()
	default:
		return err.Error()
	}
}

// session returns a client for the saved session.
func (a *App) session() (*client.Client, *client.Session, error) {
	s, err := client.LoadSession(a.sessionPath)
	if err != nil {
		return nil, nil, err
	}
	return client.New(s.Server, s.Token), s, nil
}

// fieldKey asks for the account password, derives the field key and
// rejects it unless it matches the account's key check.
func (a *App) fieldKey(s *client.Session) (fieldcrypt.Key, error) {
	password, err := a.promptSecret("Account password")
	if err != nil {
		return fieldcrypt.Key{}, err
	}
	key, err := fieldcrypt.DeriveKey(password, s.KeySalt)
	if err != nil {
		return fieldcrypt.Key{}, err
	}
	if err := key.Verify(s.KeyCheck); err != nil {
		return fieldcrypt.Key{}, err
	}
	return key, nil
}

func (a *App) saveSession(c *client.Client, user *dto.UserResponse) error {
	return client.SaveSession(a.sessionPath, &client.Session{
		Server:   a.server,
		Email:    user.Email,
		Token:    c.Token(),
		KeySalt:  user.KeySalt,
		KeyCheck: user.KeyCheck,
	})
}
