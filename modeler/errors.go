package modeler

import (
	"errors"
	"fmt"

	"supermodeler/fieldpath"
)

var (
	// ErrConfiguration is matched by every *ConfigError.
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFound is matched by every *NotFoundError.
	ErrNotFound = errors.New("not found")
	// ErrValidation is matched by every failed property constraint, including
	// errors built by a custom ValidationErrorFunc.
	ErrValidation = errors.New("validation failed")
	// ErrReadOnly is matched by every *ReadOnlyError.
	ErrReadOnly = errors.New("write to read-only field")
	// ErrUnknownField is matched by every *UnknownFieldError.
	ErrUnknownField = errors.New("unknown field")
	// ErrPathTraversal is returned (wrapped) when a source path cannot be read.
	ErrPathTraversal = fieldpath.ErrTraversal
)

// ConfigError reports an invalid schema or map declaration.
type ConfigError struct {
	Subject string
	Reason  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Subject, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}

func configErrorf(subject, format string, args ...any) *ConfigError {
	return &ConfigError{Subject: subject, Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an unregistered model, mapper or method.
type NotFoundError struct {
	Kind string // "model", "mapper" or "method"
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s defined for %s", e.Kind, e.Name)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ValidationError carries the first failing field and its message.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ValidationErrorFunc builds the error returned by a failed validation.
// Errors that do not already match ErrValidation are wrapped so that they do;
// their message and type stay reachable.
type ValidationErrorFunc func(field, message string) error

type validationFailure struct {
	err error
}

func (e *validationFailure) Error() string {
	return e.err.Error()
}

func (e *validationFailure) Unwrap() []error {
	return []error{e.err, ErrValidation}
}

func markValidation(err error) error {
	if err == nil || errors.Is(err, ErrValidation) {
		return err
	}

	return &validationFailure{err: err}
}

func defaultValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// ReadOnlyError reports a write to a locked or computed field.
type ReadOnlyError struct {
	Model string
	Field string
}

func (e *ReadOnlyError) Error() string {
	return fmt.Sprintf("%s.%s: cannot assign to read-only field", e.Model, e.Field)
}

func (e *ReadOnlyError) Unwrap() error {
	return ErrReadOnly
}

// UnknownFieldError reports access to a field outside the declared shape.
type UnknownFieldError struct {
	Model string
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("%s has no field %q", e.Model, e.Field)
}

func (e *UnknownFieldError) Unwrap() error {
	return ErrUnknownField
}
