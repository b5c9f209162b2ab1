package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// The store's error taxonomy. Handlers map these to transport status codes;
// the store itself only decides the kind.

// ValidationError - malformed or missing input. The caller can recover by
// correcting the request.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NotFoundError - a lookup by id (or unique name) matched nothing.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// DuplicateError - a uniqueness constraint was violated.
type DuplicateError struct {
	Msg string
}

func (e *DuplicateError) Error() string { return e.Msg }

// StoreError - any other underlying storage failure, wrapped with the
// operation and entity kind for context.
type StoreError struct {
	Op   string
	Kind string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func duplicatef(format string, args ...any) error {
	return &DuplicateError{Msg: fmt.Sprintf(format, args...)}
}

// wrap classifies an underlying gorm error. Taxonomy errors pass through
// unchanged; unique-index violations become DuplicateError; everything else is
// wrapped as a StoreError.
func wrap(op, kind string, err error) error {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	var nf *NotFoundError
	var de *DuplicateError
	if errors.As(err, &ve) || errors.As(err, &nf) || errors.As(err, &de) {
		return err
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return duplicatef("%s %s: duplicate record", op, kind)
	}
	return &StoreError{Op: op, Kind: kind, Err: err}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsDuplicate reports whether err is a DuplicateError.
func IsDuplicate(err error) bool {
	var de *DuplicateError
	return errors.As(err, &de)
}
