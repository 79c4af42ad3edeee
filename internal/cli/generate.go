package cli

import (
	"fmt"

	"github.com/dimitrije/lockbox-api/internal/passgen"
	"github.com/spf13/cobra"
)

func (a *App) generateCmd() *cobra.Command {
	opts := passgen.DefaultOptions()
	var noNumbers, noLetters, noSymbols bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print a random password",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.IncludeNumbers = !noNumbers
			opts.IncludeLetters = !noLetters
			opts.IncludeSymbols = !noSymbols

			pw, err := passgen.Generate(opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, pw)
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.Length, "length", "l", passgen.DefaultLength, "password length (4-50)")
	cmd.Flags().BoolVar(&noNumbers, "no-numbers", false, "exclude digits")
	cmd.Flags().BoolVar(&noLetters, "no-letters", false, "exclude letters")
	cmd.Flags().BoolVar(&noSymbols, "no-symbols", false, "exclude symbols")
	cmd.Flags().BoolVar(&opts.ExcludeLookAlikes, "exclude-look-alikes", false, "exclude characters like l, 1, O and 0")
	return cmd
}
