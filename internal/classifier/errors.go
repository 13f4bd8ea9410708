package classifier

import (
	"errors"
	"fmt"
	"strings"
)

// FailureKind labels the classification failure taxonomy.
type FailureKind string

// Failure kinds.
const (
	// FailureFormat covers malformed front matter in a detected format.
	// Front matter is all-or-nothing.
	FailureFormat FailureKind = "format"

	// FailureValidation covers size, disallowed markup, and nesting guards.
	// Validation runs before extraction; any issue fails the document.
	FailureValidation FailureKind = "validation"

	// FailureField covers required metadata ending up empty or inconsistent.
	FailureField FailureKind = "field"
)

// ErrContentTooLarge is the resource-limit error for oversized documents.
var ErrContentTooLarge = errors.New("content exceeds size limit")

// Error is a classification failure carrying the failure kind and the
// accumulated issue list.
type Error struct {
	Kind   FailureKind
	Format FrontmatterFormat
	Issues []string
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "classification failed (%s)", e.Kind)

	if e.Format != "" && e.Format != FrontmatterNone {
		fmt.Fprintf(&b, " [%s front matter]", e.Format)
	}

	if len(e.Issues) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Issues, "; "))
	}

	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}

	return b.String()
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

func formatError(format FrontmatterFormat, err error) *Error {
	return &Error{Kind: FailureFormat, Format: format, Err: err}
}

func validationError(issues []string, err error) *Error {
	return &Error{Kind: FailureValidation, Issues: issues, Err: err}
}

func fieldError(field, problem string) *Error {
	return &Error{Kind: FailureField, Issues: []string{field + ": " + problem}}
}
