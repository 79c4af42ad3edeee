package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) twoFactorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "2fa",
		Short: "Manage two-factor authentication",
	}

	setup := &cobra.Command{
		Use:   "setup",
		Short: "Generate a TOTP secret; confirm it with '2fa verify'",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := a.session()
			if err != nil {
				return err
			}
			resp, err := c.SetupTwoFactor(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Add this key to your authenticator app:\n\n  %s\n\n", Highlight.Sprint(resp.ManualEntryKey))
			fmt.Fprintf(a.out, "%s\n", Muted.Sprint(resp.OTPAuthURL))
			fmt.Fprintln(a.out, "Then run 'lockbox 2fa verify <code>' to enable it.")
			return nil
		},
	}

	verify := &cobra.Command{
		Use:   "verify [code]",
		Short: "Enable 2FA with a code from your authenticator",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := a.session()
			if err != nil {
				return err
			}
			var code string
			if len(args) == 1 {
				code = args[0]
			}
			if code, err = a.orPrompt(code, "2FA code", false); err != nil {
				return err
			}
			if err := c.VerifyTwoFactor(cmd.Context(), code); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "%s Two-factor authentication enabled\n", Success.Sprint("✓"))
			return nil
		},
	}

	disable := &cobra.Command{
		Use:   "disable",
		Short: "Turn off 2FA",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := a.session()
			if err != nil {
				return err
			}
			if err := c.DisableTwoFactor(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "%s Two-factor authentication disabled\n", Success.Sprint("✓"))
			return nil
		},
	}

	cmd.AddCommand(setup, verify, disable)
	return cmd
}
