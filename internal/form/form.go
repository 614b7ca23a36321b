// Package form checks user-entered contact fields before they reach the store.
// It is shared by the terminal UI and the command-line commands.
package form

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/smileynet/contactbook/internal/contact"
)

// MaxFieldLen is the longest accepted field, in characters.
const MaxFieldLen = 256

// User-facing input errors. Their messages are shown verbatim.
var (
	ErrEmptyField  = errors.New("Please fill all fields")
	ErrTooLong     = fmt.Errorf("Please keep each field to %d characters", MaxFieldLen)
	ErrInvalidText = errors.New("Please use valid UTF-8 text")
	ErrNoSelection = errors.New("Please select a contact")
)

// Input is the raw text of the three contact fields.
type Input struct {
	Name  string `validate:"required,utf8,max=256"`
	Phone string `validate:"required,utf8,max=256"`
	Email string `validate:"required,utf8,max=256"`
}

// Checker validates Input values.
type Checker struct {
	validate *validator.Validate
}

// NewChecker returns a Checker ready for use.
func NewChecker() *Checker {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("utf8", validUTF8); err != nil {
		panic(err)
	}
	return &Checker{validate: v}
}

func validUTF8(fl validator.FieldLevel) bool {
	return utf8.ValidString(fl.Field().String())
}

// Record validates in and converts it to a contact.Record.
// An empty field returns ErrEmptyField, which wins over ErrInvalidText
// and ErrTooLong when several fields fail.
func (c *Checker) Record(in Input) (contact.Record, error) {
	err := c.validate.Struct(in)
	if err == nil {
		return contact.New(in.Name, in.Phone, in.Email), nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return contact.Record{}, err
	}
	result := ErrTooLong
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			return contact.Record{}, ErrEmptyField
		case "utf8":
			result = ErrInvalidText
		}
	}
	return contact.Record{}, result
}

// MissingFields returns the names of the empty fields in in, in form order.
func (c *Checker) MissingFields(in Input) []string {
	return c.failing(in, "required")
}

// InvalidFields returns the names of the fields in in that are too long or
// not valid UTF-8, in form order.
func (c *Checker) InvalidFields(in Input) []string {
	return c.failing(in, "utf8", "max")
}

func (c *Checker) failing(in Input, tags ...string) []string {
	err := c.validate.Struct(in)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	var fields []string
	for _, fe := range verrs {
		for _, tag := range tags {
			if fe.Tag() == tag {
				fields = append(fields, fe.Field())
				break
			}
		}
	}
	return fields
}

// SelectionError describes a missing selection for the named action,
// e.g. "Please select a contact to edit". It wraps ErrNoSelection.
type SelectionError struct {
	Action string
}

func (e *SelectionError) Error() string {
	return ErrNoSelection.Error() + " to " + e.Action
}

func (e *SelectionError) Unwrap() error {
	return ErrNoSelection
}

// Selection returns a SelectionError for action when index is not a valid
// position in a list of length n.
func Selection(action string, index, n int) error {
	if index < 0 || index >= n {
		return &SelectionError{Action: action}
	}
	return nil
}
