package model

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidState      = errors.New("invalid state")
)

// Error is a domain error of a given kind with a caller-facing message.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Validationf returns an ErrValidation error.
func Validationf(format string, args ...any) error {
	return newError(ErrValidation, format, args...)
}

// NotFoundf returns an ErrNotFound error.
func NotFoundf(format string, args ...any) error {
	return newError(ErrNotFound, format, args...)
}

// InsufficientStockf returns an ErrInsufficientStock error.
func InsufficientStockf(format string, args ...any) error {
	return newError(ErrInsufficientStock, format, args...)
}

// InvalidStatef returns an ErrInvalidState error.
func InvalidStatef(format string, args ...any) error {
	return newError(ErrInvalidState, format, args...)
}
