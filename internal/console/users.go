package console

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vyrodovalexey/restadmin/internal/model"
	"github.com/vyrodovalexey/restadmin/internal/store"
)

// userFields lists the field flags of users add and edit.
var userFields = []string{"first-name", "last-name", "email", "username", "phone"}

// userFlags holds the field flags of users add and edit.
type userFlags struct {
	firstName string
	lastName  string
	email     string
	username  string
	phone     string
}

func (f *userFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.firstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&f.lastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&f.email, "email", "", "Email address")
	cmd.Flags().StringVar(&f.username, "username", "", "Username")
	cmd.Flags().StringVar(&f.phone, "phone", "", "Phone number")
}

// apply copies the flags the user set onto draft and reports whether every
// field was given.
func (f *userFlags) apply(cmd *cobra.Command, draft *model.UserDraft) (complete bool) {
	targets := map[string]struct {
		dst *string
		src string
	}{
		"first-name": {&draft.FirstName, f.firstName},
		"last-name":  {&draft.LastName, f.lastName},
		"email":      {&draft.Email, f.email},
		"username":   {&draft.Username, f.username},
		"phone":      {&draft.Phone, f.phone},
	}

	complete = true
	for _, name := range userFields {
		if !cmd.Flags().Changed(name) {
			complete = false
			continue
		}
		t := targets[name]
		*t.dst = t.src
	}
	return complete
}

func (a *App) usersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user"},
		Short:   "List and manage users",
	}
	cmd.AddCommand(
		a.usersListCommand(),
		a.usersAddCommand(),
		a.usersEditCommand(),
		a.usersDeleteCommand(),
	)
	return cmd
}

func (a *App) usersListCommand() *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.connect(cmd); err != nil {
				return err
			}
			return a.showUsers(cmd.Context(), page)
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 1, "Page to show")
	return cmd
}

func (a *App) usersAddCommand() *cobra.Command {
	var (
		f    userFlags
		page int
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a user",
		Long: `Add a user. Fields not given as flags are asked for interactively when
stdin is a terminal.`,
		Example: `  restadmin users add --first-name Ada --last-name Lovelace \
    --email ada@example.com --username ada --phone "+44 20 7946 0000"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.connect(cmd); err != nil {
				return err
			}
			ctx := cmd.Context()

			var draft model.UserDraft
			if complete := f.apply(cmd, &draft); !complete && a.interactive() {
				if err := a.prompter.UserForm(ctx, "New user", &draft); err != nil {
					return err
				}
			}
			if err := draft.Validate(); err != nil {
				return fmt.Errorf("invalid user: %w", err)
			}

			if _, err := a.users.Create(ctx, draft); err != nil {
				return fmt.Errorf("failed to add user: %w", err)
			}
			a.notify("User added")
			return a.showUsers(ctx, page)
		},
	}
	f.register(cmd)
	cmd.Flags().IntVarP(&page, "page", "p", 1, "Page to show afterwards")
	return cmd
}

func (a *App) usersEditCommand() *cobra.Command {
	var (
		f    userFlags
		page int
	)
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a user",
		Long: `Edit a user. Flags replace single fields; without field flags the
current values are opened in a form when stdin is a terminal.`,
		Example: `  restadmin users edit 7 --email ada@example.org`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("user", args[0])
			if err != nil {
				return err
			}
			if err := a.connect(cmd); err != nil {
				return err
			}
			ctx := cmd.Context()

			current, err := a.api.Users().Get(ctx, id)
			if err != nil {
				return fmt.Errorf("loading user %d: %w", id, err)
			}

			draft := current.Draft()
			f.apply(cmd, &draft)
			if !anyChanged(cmd, userFields...) && a.interactive() {
				if err := a.prompter.UserForm(ctx, fmt.Sprintf("Edit user %d", id), &draft); err != nil {
					return err
				}
			}
			if err := draft.Validate(); err != nil {
				return fmt.Errorf("invalid user: %w", err)
			}

			if _, err := a.users.Update(ctx, draft.WithID(id)); err != nil {
				return fmt.Errorf("failed to update user: %w", err)
			}
			a.notify("User updated")
			return a.showUsers(ctx, page)
		},
	}
	f.register(cmd)
	cmd.Flags().IntVarP(&page, "page", "p", 1, "Page to show afterwards")
	return cmd
}

func (a *App) usersDeleteCommand() *cobra.Command {
	var (
		yes  bool
		page int
	)
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a user",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("user", args[0])
			if err != nil {
				return err
			}
			if err := a.connect(cmd); err != nil {
				return err
			}
			ctx := cmd.Context()

			ok, err := a.confirmDelete(ctx, "user", id, yes)
			if err != nil || !ok {
				return err
			}

			if err := a.users.Delete(ctx, id); err != nil {
				return fmt.Errorf("failed to delete user: %w", err)
			}
			a.notify("User deleted")
			return a.showUsers(ctx, page)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking for confirmation")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "Page to show afterwards")
	return cmd
}

// showUsers loads page and prints it. A failed read is printed as an error.
func (a *App) showUsers(ctx context.Context, page int) error {
	var err error
	if page == a.users.State().Page {
		err = a.users.FetchPage(ctx)
	} else {
		err = a.users.SetPage(ctx, page)
	}
	if errors.Is(err, store.ErrInvalidPage) {
		return err
	}
	state := a.users.State()

	if a.flags.json {
		if err := writeJSON(a.out, state); err != nil {
			return err
		}
	} else if state.Status != store.StatusFailed {
		if err := renderUsers(a.out, state); err != nil {
			return err
		}
	}

	if state.Status == store.StatusFailed {
		return errors.New(state.Error)
	}
	return nil
}
