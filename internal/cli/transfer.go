package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dimitrije/lockbox-api/pkg/dto"
	"github.com/spf13/cobra"
)

func (a *App) exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write an encrypted export of the vault to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := a.session()
			if err != nil {
				return err
			}
			passphrase, err := a.promptSecret("Export passphrase")
			if err != nil {
				return err
			}
			if passphrase == "" {
				return errors.New("export passphrase is required")
			}

			resp, err := c.Export(cmd.Context(), passphrase)
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(resp.ExportData, "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0o600); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "%s Exported %d items to %s\n", Success.Sprint("✓"), resp.ItemCount, Highlight.Sprint(output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "lockbox-export.json", "export file path")
	return cmd
}

func (a *App) importCmd() *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import items from an export file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var env dto.ExportEnvelope
			if err := json.Unmarshal(data, &env); err != nil {
				return fmt.Errorf("%s is not an export file", args[0])
			}

			c, _, err := a.session()
			if err != nil {
				return err
			}
			passphrase, err := a.promptSecret("Export passphrase")
			if err != nil {
				return err
			}

			resp, err := c.Import(cmd.Context(), env, passphrase, replace)
			if err != nil {
				return err
			}

			for _, r := range resp.Results {
				if !r.Imported {
					fmt.Fprintf(a.out, "%s item %d %s: %s\n", Warning.Sprint("!"), r.Index, Highlight.Sprint(r.Title), r.Reason)
				}
			}
			fmt.Fprintf(a.out, "%s Imported %d of %d items\n", Success.Sprint("✓"), resp.Imported, resp.Total)
			return nil
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "delete existing items first")
	return cmd
}
