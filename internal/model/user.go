package model

import (
	"errors"
	"net/mail"
	"strings"
)

// Validation errors for User.
var (
	ErrFirstNameRequired = errors.New("first name is required")
	ErrLastNameRequired  = errors.New("last name is required")
	ErrEmailRequired     = errors.New("email is required")
	ErrEmailInvalid      = errors.New("email is not a valid address")
	ErrUsernameRequired  = errors.New("username is required")
	ErrPhoneRequired     = errors.New("phone is required")
)

// User is an account row in the users table.
type User struct {
	ID        int    `json:"id" yaml:"id"`
	FirstName string `json:"firstName" yaml:"firstName"`
	LastName  string `json:"lastName" yaml:"lastName"`
	Email     string `json:"email" yaml:"email"`
	Username  string `json:"username" yaml:"username"`
	Phone     string `json:"phone" yaml:"phone"`
}

// EntityID returns the user ID.
func (u User) EntityID() int {
	return u.ID
}

// Draft returns the user fields without its identity.
func (u User) Draft() UserDraft {
	return UserDraft{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Username:  u.Username,
		Phone:     u.Phone,
	}
}

// Validate checks if the User has valid field values.
func (u *User) Validate() error {
	d := u.Draft()
	return d.Validate()
}

// UserDraft is a user payload before the backend assigns an ID.
type UserDraft struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Phone     string `json:"phone"`
}

// Validate checks the required-field contract of a user form.
func (d *UserDraft) Validate() error {
	if strings.TrimSpace(d.FirstName) == "" {
		return ErrFirstNameRequired
	}

	if strings.TrimSpace(d.LastName) == "" {
		return ErrLastNameRequired
	}

	if strings.TrimSpace(d.Email) == "" {
		return ErrEmailRequired
	}

	if err := ValidateEmail(d.Email); err != nil {
		return err
	}

	if strings.TrimSpace(d.Username) == "" {
		return ErrUsernameRequired
	}

	if strings.TrimSpace(d.Phone) == "" {
		return ErrPhoneRequired
	}

	return nil
}

// WithID attaches a backend identity to the draft.
func (d UserDraft) WithID(id int) User {
	return User{
		ID:        id,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Email:     d.Email,
		Username:  d.Username,
		Phone:     d.Phone,
	}
}

// ValidateEmail reports whether s is a bare e-mail address.
// Display-name forms such as "Ann <ann@example.com>" are rejected.
func ValidateEmail(s string) error {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return ErrEmailInvalid
	}
	return nil
}
