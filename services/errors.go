package services

import (
	"errors"
	"fmt"
)

// Lifecycle precondition errors. Each transition rejects before any
// field is mutated, and controllers map these to specific responses.
var (
	ErrNotFound            = errors.New("submission not found")
	ErrPermissionDenied    = errors.New("actor is not allowed to perform this action")
	ErrWrongState          = errors.New("submission is not in a state that allows this action")
	ErrSelfWitness         = errors.New("a member cannot witness their own submission")
	ErrWitnessNotConfirmed = errors.New("witness confirmation is still pending or was declined")
	ErrWaitingPeriod       = errors.New("the mandatory waiting period has not elapsed")
	ErrAlreadyApproved     = errors.New("submission is already approved")
	ErrApprovalConflict    = errors.New("submission was approved by a concurrent request")
)

// FieldError is a validation failure tied to a single input field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newFieldError(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message}
}
