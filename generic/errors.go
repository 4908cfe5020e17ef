/*
errors.go - Centralized error types for the projection engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers wrap these errors with additional context.

ERROR CATEGORIES:
  1. Validation errors - Malformed scheme or market input, raised before
     any computation starts
  2. Store errors - Scheme catalogue lookups and persistence failures

  Degenerate-but-valid inputs (zero grants, zero-weight schedules) are not
  errors: they resolve to 0 inside the engine.

USAGE:
  projection, err := engine.Calculate(ctx, scheme, market)
  var verr *generic.ValidationError
  if errors.As(err, &verr) {
      for _, issue := range verr.Issues {
          fmt.Println(issue.Field, issue.Message)
      }
  }
  if errors.Is(err, generic.ErrInvalidScheme) { ... }
*/
package generic

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidScheme is returned when a compensation scheme is malformed.
	ErrInvalidScheme = errors.New("invalid scheme")

	// ErrInvalidMarket is returned when market assumptions are unusable.
	ErrInvalidMarket = errors.New("invalid market assumptions")

	// ErrSchemeNotFound is returned when a referenced scheme doesn't exist.
	ErrSchemeNotFound = errors.New("scheme not found")

	// ErrDuplicateScheme is returned when creating a scheme whose id is taken.
	ErrDuplicateScheme = errors.New("scheme already exists")
)

// =============================================================================
// VALIDATION ERROR - Carries every field issue found
// =============================================================================

// Issue codes.
const (
	CodeRequired     = "required"
	CodeEmpty        = "empty"
	CodeNegative     = "negative"
	CodeOutOfRange   = "out_of_range"
	CodeDecreasing   = "decreasing"
	CodeMissingZero  = "missing_month_zero"
	CodeUnitMismatch = "unit_mismatch"
)

// FieldIssue describes one invalid field.
type FieldIssue struct {
	Field   string
	Code    string
	Message string
}

// ValidationError is returned before computation when input is invalid.
// Kind is ErrInvalidScheme or ErrInvalidMarket.
type ValidationError struct {
	Kind   error
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = fmt.Sprintf("%s: %s", issue.Field, issue.Message)
	}
	return fmt.Sprintf("%v: %s", e.Kind, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

// HasCode reports whether any issue carries the given code.
func (e *ValidationError) HasCode(code string) bool {
	for _, issue := range e.Issues {
		if issue.Code == code {
			return true
		}
	}
	return false
}

// issues accumulates field problems and converts them to an error.
type issues struct {
	kind error
	list []FieldIssue
}

func (is *issues) add(field, code, format string, args ...any) {
	is.list = append(is.list, FieldIssue{Field: field, Code: code, Message: fmt.Sprintf(format, args...)})
}

func (is *issues) err() error {
	if len(is.list) == 0 {
		return nil
	}
	return &ValidationError{Kind: is.kind, Issues: is.list}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsValidation returns true if err was raised by input validation.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidScheme) || errors.Is(err, ErrInvalidMarket)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return IsValidation(err) || errors.Is(err, ErrDuplicateScheme)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSchemeNotFound)
}
