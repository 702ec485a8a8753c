package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrConfig           = errors.New("provider is not configured")
	ErrUpstream         = errors.New("payment provider request failed")
	ErrSignature        = errors.New("invalid signature")
	ErrMalformedPayload = errors.New("malformed notification payload")
	ErrAmountMismatch   = errors.New("amount mismatch")
	ErrRecordNotFound   = errors.New("record not found")
	ErrConflict         = errors.New("payment reference already exists")
	ErrEditConflict     = errors.New("edit conflict")
	ErrPaymentFinalized = errors.New("payment is already finalized")
)

// FieldError describes why a single input field was rejected.
type FieldError struct {
	Field string
	Issue string
}

// ValidationError groups field issues and matches ErrValidation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}

	return fmt.Sprintf("%s: %s %s", ErrValidation, e.Fields[0].Field, e.Fields[0].Issue)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Add(field, issue string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Issue: issue})
}

func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}
