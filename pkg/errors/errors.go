package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrNotFound               = errors.New("entity not found")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidAmount          = errors.New("amount is not an allowed denomination")
	ErrInvalidStateTransition = errors.New("entity is not in the required state")
	ErrIneligibleBorrower     = errors.New("borrower is deactivated")
	ErrAlreadyDecided         = errors.New("payment has already been decided")
	ErrNoOp                   = errors.New("no fields to update")
	ErrBusy                   = errors.New("row is locked by a concurrent operation")
	ErrStoreFailure           = errors.New("store operation failed")
)

// Error codes
const (
	CodeValidation             = "VALIDATION_ERROR"
	CodeInvalidAmount          = "INVALID_AMOUNT"
	CodeInvalidStateTransition = "INVALID_STATE_TRANSITION"
	CodeIneligibleBorrower     = "INELIGIBLE_BORROWER"
	CodeAlreadyDecided         = "ALREADY_DECIDED"
	CodeNotFound               = "NOT_FOUND"
	CodeNoOp                   = "NO_OP"
	CodeBusy                   = "BUSY"
	CodeStoreFailure           = "STORE_FAILURE"
)

// BusinessError represents a business logic error with a stable code
// and a human-readable message. Internal details stay in Err and are
// never rendered outward.
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// CodeOf returns the business code of err, or STORE_FAILURE when err is
// not a BusinessError.
func CodeOf(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return CodeStoreFailure
}

// Wrap common errors with business context

func WrapValidation(message string) *BusinessError {
	return NewBusinessError(CodeValidation, message, ErrInvalidInput)
}

func WrapInvalidAmount(amount string) *BusinessError {
	return NewBusinessError(
		CodeInvalidAmount,
		fmt.Sprintf("Loan amount %s is not an allowed denomination", amount),
		ErrInvalidAmount,
	)
}

func WrapInvalidStateTransition(entity, current string) *BusinessError {
	return NewBusinessError(
		CodeInvalidStateTransition,
		fmt.Sprintf("%s is already %s", entity, current),
		ErrInvalidStateTransition,
	)
}

func WrapIneligibleBorrower() *BusinessError {
	return NewBusinessError(
		CodeIneligibleBorrower,
		"Cannot approve loan for a deactivated borrower",
		ErrIneligibleBorrower,
	)
}

func WrapAlreadyDecided(current string) *BusinessError {
	return NewBusinessError(
		CodeAlreadyDecided,
		fmt.Sprintf("Payment is already %s", current),
		ErrAlreadyDecided,
	)
}

func WrapNotFound(entity string) *BusinessError {
	return NewBusinessError(
		CodeNotFound,
		fmt.Sprintf("%s not found", entity),
		ErrNotFound,
	)
}

func WrapNoOp() *BusinessError {
	return NewBusinessError(CodeNoOp, "No fields to update", ErrNoOp)
}

func WrapBusy(entity string) *BusinessError {
	return NewBusinessError(
		CodeBusy,
		fmt.Sprintf("%s is being modified by another operation, retry later", entity),
		ErrBusy,
	)
}

func WrapStoreFailure(err error) *BusinessError {
	return NewBusinessError(CodeStoreFailure, "store operation failed", err)
}
