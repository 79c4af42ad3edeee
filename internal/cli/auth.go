package cli

import (
	"errors"
	"fmt"

	"github.com/dimitrije/lockbox-api/internal/client"
	"github.com/spf13/cobra"
)

func (a *App) signupCmd() *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if name, err = a.orPrompt(name, "Name", false); err != nil {
				return err
			}
			if email, err = a.orPrompt(email, "Email", false); err != nil {
				return err
			}
			password, err := a.promptSecret("Password")
			if err != nil {
				return err
			}
			confirm, err := a.promptSecret("Confirm password")
			if err != nil {
				return err
			}
			if password != confirm {
				return errors.New("passwords do not match")
			}

			c := client.New(a.server, "")
			user, err := c.Signup(cmd.Context(), name, email, password)
			if err != nil {
				return err
			}
			if err := a.saveSession(c, user); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "%s Account created for %s\n", Success.Sprint("✓"), Highlight.Sprint(user.Email))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

func (a *App) loginCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in, prompting for a 2FA code when the account requires one",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if email, err = a.orPrompt(email, "Email", false); err != nil {
				return err
			}
			password, err := a.promptSecret("Password")
			if err != nil {
				return err
			}

			c := client.New(a.server, "")
			user, err := c.Login(cmd.Context(), email, password, "")
			if errors.Is(err, client.ErrTwoFactorRequired) {
				code, perr := a.prompt("2FA code")
				if perr != nil {
					return perr
				}
				user, err = c.Login(cmd.Context(), email, password, code)
			}
			if err != nil {
				return err
			}
			if err := a.saveSession(c, user); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "%s Logged in as %s\n", Success.Sprint("✓"), Highlight.Sprint(user.Email))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

func (a *App) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := a.session()
			if errors.Is(err, client.ErrNoSession) {
				fmt.Fprintln(a.out, Muted.Sprint("already logged out"))
				return nil
			}
			if err != nil {
				return err
			}

			logoutErr := c.Logout(cmd.Context())
			if err := client.ClearSession(a.sessionPath); err != nil {
				return err
			}
			if logoutErr != nil {
				fmt.Fprintf(a.out, "%s server did not confirm logout: %v\n", Warning.Sprint("!"), logoutErr)
			}

			fmt.Fprintf(a.out, "%s Logged out\n", Success.Sprint("✓"))
			return nil
		},
	}
}

func (a *App) meCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the logged in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := a.session()
			if err != nil {
				return err
			}
			user, err := c.Me(cmd.Context())
			if err != nil {
				return err
			}

			twoFactor := "disabled"
			if user.TwoFactorEnabled {
				twoFactor = "enabled"
			}
			fmt.Fprintf(a.out, "%s <%s>\n2FA: %s\n", user.Name, Highlight.Sprint(user.Email), twoFactor)
			return nil
		},
	}
}
