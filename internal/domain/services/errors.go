package services

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Services wrap their failures with one of these so
// controllers can map them to distinct business codes instead of collapsing
// everything into a 500.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation")
)

// NotFoundf builds a not-found error with context.
func NotFoundf(format string, v ...interface{}) error {
	return fmt.Errorf(format+": %w", append(v, ErrNotFound)...)
}

// Conflictf builds a conflict error with context.
func Conflictf(format string, v ...interface{}) error {
	return fmt.Errorf(format+": %w", append(v, ErrConflict)...)
}

// Validationf builds a validation error with context.
func Validationf(format string, v ...interface{}) error {
	return fmt.Errorf(format+": %w", append(v, ErrValidation)...)
}
