package console

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/vyrodovalexey/restadmin/internal/model"
)

// deleteWarning is shown before a record is deleted.
const deleteWarning = "Once deleted, this %s cannot be recovered."

// Prompter collects input the user did not pass as flags.
type Prompter interface {
	// ProductForm lets the user complete draft. Current values prefill the
	// form.
	ProductForm(ctx context.Context, title string, draft *model.ProductDraft) error

	// UserForm lets the user complete draft.
	UserForm(ctx context.Context, title string, draft *model.UserDraft) error

	// Confirm asks a yes/no question.
	Confirm(ctx context.Context, title, description string) (bool, error)
}

// formPrompter implements Prompter with terminal forms.
type formPrompter struct{}

func newFormPrompter() formPrompter {
	return formPrompter{}
}

func (formPrompter) ProductForm(ctx context.Context, title string, draft *model.ProductDraft) error {
	price := ""
	if draft.Price != 0 {
		price = strconv.FormatFloat(draft.Price, 'f', -1, 64)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&draft.Title).
				Validate(required(model.ErrTitleRequired)),
			huh.NewInput().
				Title("Image URL").
				Placeholder("https://").
				Value(&draft.Images).
				Validate(required(model.ErrImagesRequired)),
			huh.NewInput().
				Title("Price").
				Placeholder("0.00").
				Value(&price).
				Validate(func(s string) error {
					_, err := parsePrice(s)
					return err
				}),
		).Title(title),
	)

	if err := runForm(ctx, form); err != nil {
		return err
	}

	p, err := parsePrice(price)
	if err != nil {
		return err
	}
	draft.Price = p
	return nil
}

func (formPrompter) UserForm(ctx context.Context, title string, draft *model.UserDraft) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("First name").
				Value(&draft.FirstName).
				Validate(required(model.ErrFirstNameRequired)),
			huh.NewInput().
				Title("Last name").
				Value(&draft.LastName).
				Validate(required(model.ErrLastNameRequired)),
			huh.NewInput().
				Title("Email").
				Value(&draft.Email).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return model.ErrEmailRequired
					}
					return model.ValidateEmail(s)
				}),
			huh.NewInput().
				Title("Username").
				Value(&draft.Username).
				Validate(required(model.ErrUsernameRequired)),
			huh.NewInput().
				Title("Phone").
				Value(&draft.Phone).
				Validate(required(model.ErrPhoneRequired)),
		).Title(title),
	)

	return runForm(ctx, form)
}

func (formPrompter) Confirm(ctx context.Context, title, description string) (bool, error) {
	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&confirmed),
		),
	)

	if err := runForm(ctx, form); err != nil {
		return false, err
	}
	return confirmed, nil
}

// runForm runs form and maps a user abort to errCancelled.
func runForm(ctx context.Context, form *huh.Form) error {
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return errCancelled
		}
		return fmt.Errorf("running form: %w", err)
	}
	return nil
}

// required returns a validator rejecting blank input with err.
func required(err error) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return err
		}
		return nil
	}
}

// parsePrice parses a non-negative decimal price.
func parsePrice(s string) (float64, error) {
	p, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errors.New("price must be a number")
	}
	if p < 0 {
		return 0, model.ErrNegativePrice
	}
	return p, nil
}

// stdinIsTerminal reports whether stdin is attached to a terminal.
func stdinIsTerminal() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
