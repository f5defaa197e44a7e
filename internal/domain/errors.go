package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNotFound        = errors.New("not found")
	ErrInvalidID       = errors.New("invalid review id")
	ErrValidation      = errors.New("validation failed")
	ErrProcessing      = errors.New("processing failed")
	ErrPayloadTooLarge = errors.New("payload too large")
)

// ValidationError tells the caller which part of the request to fix.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func Invalid(field, reason string) error { return &ValidationError{Field: field, Reason: reason} }

// Processing wraps a transient-file failure so it classifies as ErrProcessing.
func Processing(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(ErrProcessing, err))
}
