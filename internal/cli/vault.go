package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/dimitrije/lockbox-api/internal/client"
	"github.com/dimitrije/lockbox-api/internal/fieldcrypt"
	"github.com/dimitrije/lockbox-api/internal/passgen"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const (
	hiddenPassword     = "********"
	unreadablePassword = "<unreadable>"
)

func (a *App) listCmd() *cobra.Command {
	var show bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List vault items, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, s, err := a.session()
			if err != nil {
				return err
			}
			key, err := a.fieldKey(s)
			if err != nil {
				return err
			}
			items, err := c.ListItems(cmd.Context(), key)
			if err != nil {
				return err
			}

			if len(items) == 0 {
				fmt.Fprintln(a.out, Muted.Sprint("vault is empty"))
				return nil
			}

			unreadable := 0
			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tUSERNAME\tPASSWORD\tURL")
			for _, item := range items {
				password := hiddenPassword
				switch {
				case item.Unreadable:
					password = unreadablePassword
					unreadable++
				case show:
					password = item.Password
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", item.ID, item.Title, item.Username, password, item.URL)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if unreadable > 0 {
				fmt.Fprintf(a.out, "%s %d item(s) were sealed with a different key and cannot be opened\n", Warning.Sprint("!"), unreadable)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&show, "show", false, "print passwords in clear text")
	return cmd
}

type itemFlags struct {
	title    string
	username string
	password string
	url      string
	notes    string
	generate bool
	length   int
}

func (f *itemFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "item title")
	cmd.Flags().StringVar(&f.username, "username", "", "login username")
	cmd.Flags().StringVar(&f.password, "password", "", "login password (prompted when omitted)")
	cmd.Flags().StringVar(&f.url, "url", "", "site URL")
	cmd.Flags().StringVar(&f.notes, "notes", "", "free-form notes")
	cmd.Flags().BoolVar(&f.generate, "generate", false, "generate a random password")
	cmd.Flags().IntVar(&f.length, "length", passgen.DefaultLength, "generated password length")
}

// resolvePassword fills the password from --generate or a prompt.
func (a *App) resolvePassword(f *itemFlags) error {
	if f.generate {
		opts := passgen.DefaultOptions()
		opts.Length = f.length
		pw, err := passgen.Generate(opts)
		if err != nil {
			return err
		}
		f.password = pw
		return nil
	}
	pw, err := a.orPrompt(f.password, "Item password", true)
	if err != nil {
		return err
	}
	f.password = pw
	return nil
}

func (a *App) addCmd() *cobra.Command {
	var f itemFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a vault item",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, s, err := a.session()
			if err != nil {
				return err
			}
			if f.title, err = a.orPrompt(f.title, "Title", false); err != nil {
				return err
			}
			if f.username, err = a.orPrompt(f.username, "Username", false); err != nil {
				return err
			}
			if err := a.resolvePassword(&f); err != nil {
				return err
			}
			key, err := a.fieldKey(s)
			if err != nil {
				return err
			}

			item, err := c.AddItem(cmd.Context(), key, fieldcrypt.Item{
				Title:    f.title,
				Username: f.username,
				Password: f.password,
				URL:      f.url,
				Notes:    f.notes,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "%s Added %s %s\n", Success.Sprint("✓"), Highlight.Sprint(item.Title), Muted.Sprint(item.ID))
			return nil
		},
	}

	f.register(cmd)
	return cmd
}

// updateCmd replaces an item. Fields without a flag keep their current value.
func (a *App) updateCmd() *cobra.Command {
	var f itemFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a vault item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid item id %q", args[0])
			}
			c, s, err := a.session()
			if err != nil {
				return err
			}
			key, err := a.fieldKey(s)
			if err != nil {
				return err
			}

			current, err := findItem(cmd, c, key, id)
			if err != nil {
				return err
			}
			passwordChanged := cmd.Flags().Changed("password") || f.generate
			if current.Unreadable && !passwordChanged {
				return fmt.Errorf("item %s cannot be opened with this key, pass --password or --generate to replace it", id)
			}

			next := fieldcrypt.Item{
				Title:    current.Title,
				Username: current.Username,
				Password: current.Password,
				URL:      current.URL,
				Notes:    current.Notes,
			}
			flags := cmd.Flags()
			if flags.Changed("title") {
				next.Title = f.title
			}
			if flags.Changed("username") {
				next.Username = f.username
			}
			if flags.Changed("url") {
				next.URL = f.url
			}
			if flags.Changed("notes") {
				next.Notes = f.notes
			}
			if passwordChanged {
				if err := a.resolvePassword(&f); err != nil {
					return err
				}
				next.Password = f.password
			}

			item, err := c.UpdateItem(cmd.Context(), key, id, next)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "%s Updated %s\n", Success.Sprint("✓"), Highlight.Sprint(item.Title))
			return nil
		},
	}

	f.register(cmd)
	return cmd
}

func findItem(cmd *cobra.Command, c *client.Client, key fieldcrypt.Key, id uuid.UUID) (*client.Item, error) {
	items, err := c.ListItems(cmd.Context(), key)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, fmt.Errorf("vault item %s not found", id)
}

func (a *App) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a vault item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid item id %q", args[0])
			}
			c, _, err := a.session()
			if err != nil {
				return err
			}
			if err := c.DeleteItem(cmd.Context(), id); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "%s Deleted %s\n", Success.Sprint("✓"), Muted.Sprint(id))
			return nil
		},
	}
}
