package console

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vyrodovalexey/restadmin/internal/model"
	"github.com/vyrodovalexey/restadmin/internal/store"
)

// productFlags holds the field flags of products add and edit.
type productFlags struct {
	title  string
	images string
	price  float64
}

func (f *productFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "Product title")
	cmd.Flags().StringVar(&f.images, "images", "", "Product image URL")
	cmd.Flags().Float64Var(&f.price, "price", 0, "Product price")
}

// apply copies the flags the user set onto draft and reports whether every
// field was given.
func (f *productFlags) apply(cmd *cobra.Command, draft *model.ProductDraft) (complete bool) {
	flags := cmd.Flags()
	complete = true
	if flags.Changed("title") {
		draft.Title = f.title
	} else {
		complete = false
	}
	if flags.Changed("images") {
		draft.Images = f.images
	} else {
		complete = false
	}
	if flags.Changed("price") {
		draft.Price = f.price
	} else {
		complete = false
	}
	return complete
}

func (a *App) productsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product"},
		Short:   "List and manage products",
	}
	cmd.AddCommand(
		a.productsListCommand(),
		a.productsAddCommand(),
		a.productsEditCommand(),
		a.productsDeleteCommand(),
	)
	return cmd
}

func (a *App) productsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.connect(cmd); err != nil {
				return err
			}
			return a.showProducts(cmd.Context())
		},
	}
}

func (a *App) productsAddCommand() *cobra.Command {
	var f productFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product",
		Long: `Add a product. Fields not given as flags are asked for interactively
when stdin is a terminal.`,
		Example: `  restadmin products add --title "Runner" --images https://img.example/runner.png --price 49.90`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.connect(cmd); err != nil {
				return err
			}
			ctx := cmd.Context()

			var draft model.ProductDraft
			if complete := f.apply(cmd, &draft); !complete && a.interactive() {
				if err := a.prompter.ProductForm(ctx, "New product", &draft); err != nil {
					return err
				}
			}
			if err := draft.Validate(); err != nil {
				return fmt.Errorf("invalid product: %w", err)
			}

			if _, err := a.products.Create(ctx, draft); err != nil {
				return fmt.Errorf("failed to add product: %w", err)
			}
			a.notify("Product added")
			return a.showProducts(ctx)
		},
	}
	f.register(cmd)
	return cmd
}

func (a *App) productsEditCommand() *cobra.Command {
	var f productFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a product",
		Long: `Edit a product. Flags replace single fields; without field flags the
current values are opened in a form when stdin is a terminal.`,
		Example: `  restadmin products edit 3 --price 39.90`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("product", args[0])
			if err != nil {
				return err
			}
			if err := a.connect(cmd); err != nil {
				return err
			}
			ctx := cmd.Context()

			current, err := a.api.Products().Get(ctx, id)
			if err != nil {
				return fmt.Errorf("loading product %d: %w", id, err)
			}

			draft := current.Draft()
			f.apply(cmd, &draft)
			if !anyChanged(cmd, "title", "images", "price") && a.interactive() {
				if err := a.prompter.ProductForm(ctx, fmt.Sprintf("Edit product %d", id), &draft); err != nil {
					return err
				}
			}
			if err := draft.Validate(); err != nil {
				return fmt.Errorf("invalid product: %w", err)
			}

			if _, err := a.products.Update(ctx, draft.WithID(id)); err != nil {
				return fmt.Errorf("failed to update product: %w", err)
			}
			a.notify("Product updated")
			return a.showProducts(ctx)
		},
	}
	f.register(cmd)
	return cmd
}

func (a *App) productsDeleteCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a product",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("product", args[0])
			if err != nil {
				return err
			}
			if err := a.connect(cmd); err != nil {
				return err
			}
			ctx := cmd.Context()

			ok, err := a.confirmDelete(ctx, "product", id, yes)
			if err != nil || !ok {
				return err
			}

			if err := a.products.Delete(ctx, id); err != nil {
				return fmt.Errorf("failed to delete product: %w", err)
			}
			a.notify("Product deleted")
			return a.showProducts(ctx)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking for confirmation")
	return cmd
}

// showProducts reloads the products and prints them. A failed read is
// printed as an error.
func (a *App) showProducts(ctx context.Context) error {
	_ = a.products.Fetch(ctx)
	state := a.products.State()

	if a.flags.json {
		if err := writeJSON(a.out, state); err != nil {
			return err
		}
	} else if state.Status != store.StatusFailed {
		if err := renderProducts(a.out, state); err != nil {
			return err
		}
	}

	if state.Status == store.StatusFailed {
		return errors.New(state.Error)
	}
	return nil
}
