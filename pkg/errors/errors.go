// Package errors defines the categorized error type shared by the editor
// core and its collaborators.
package errors

import (
	"errors"
	"fmt"
)

// Category classifies errors so the driver can decide how to report them.
type Category string

const (
	CategoryValidation Category = "validation"
	CategoryLoad       Category = "load"
	CategorySave       Category = "save"
	CategoryHistory    Category = "history"
	CategoryInput      Category = "input"
)

// ProcessingError is the structured error returned at package boundaries.
type ProcessingError struct {
	Category Category
	Op       string // operation name, e.g. "brightness" or "load"
	Err      error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("[%s] %s: %v", e.Category, e.Op, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// New creates a ProcessingError.
func New(category Category, op string, err error) *ProcessingError {
	return &ProcessingError{Category: category, Op: op, Err: err}
}

// Wrap wraps err with a category and operation. A nil err stays nil.
func Wrap(category Category, op string, err error) error {
	if err == nil {
		return nil
	}
	return New(category, op, err)
}

// Validation reports a parameter outside its contractual range.
func Validation(op, param string, value any, reason error) error {
	return New(CategoryValidation, op, fmt.Errorf("%s=%v: %w", param, value, reason))
}

// IsCategory reports whether err belongs to the given category.
func IsCategory(err error, cat Category) bool {
	var pe *ProcessingError
	if errors.As(err, &pe) {
		return pe.Category == cat
	}
	return false
}

// Sentinel errors for common failure modes.
var (
	ErrOutOfRange    = errors.New("value out of range")
	ErrUnknownValue  = errors.New("unrecognized value")
	ErrNilBuffer     = errors.New("nil pixel buffer")
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrEmptyHistory  = errors.New("history is empty")
)
