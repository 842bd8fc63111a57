package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus is the closed set of payment states. The Pending →
// {Verified, Rejected} transition is terminal.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "Pending"
	PaymentStatusVerified PaymentStatus = "Verified"
	PaymentStatusRejected PaymentStatus = "Rejected"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusVerified, PaymentStatusRejected:
		return true
	}
	return false
}

// Payment is a borrower-submitted payment awaiting staff verification.
type Payment struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	LoanID        uuid.UUID       `json:"loan_id" db:"loan_id"`
	AmountPaid    decimal.Decimal `json:"amount_paid" db:"amount_paid"`
	PaymentMethod string          `json:"payment_method" db:"payment_method"`
	Status        PaymentStatus   `json:"status" db:"status"`
	TransactionID *string         `json:"transaction_id,omitempty" db:"transaction_id"`
	Remarks       *string         `json:"remarks,omitempty" db:"remarks"`
	VerifiedBy    *uuid.UUID      `json:"verified_by,omitempty" db:"verified_by"`
	PaymentDate   time.Time       `json:"payment_date" db:"payment_date"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

type SubmitPaymentRequest struct {
	LoanID        uuid.UUID       `json:"loan_id" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	PaymentMethod string          `json:"payment_method" validate:"required"`
	TransactionID string          `json:"transaction_id"`
	Remarks       string          `json:"remarks"`
}

type SubmitPaymentResponse struct {
	PaymentID uuid.UUID     `json:"payment_id"`
	Status    PaymentStatus `json:"status"`
}

// VerificationAction selects the VerifyPayment branch.
type VerificationAction string

const (
	ActionVerifyPayment VerificationAction = "verify"
	ActionRejectPayment VerificationAction = "reject"
)

type VerifyPaymentRequest struct {
	Action VerificationAction `json:"action" validate:"required,oneof=verify reject"`
}

type VerifyPaymentResponse struct {
	PaymentID uuid.UUID     `json:"payment_id"`
	NewStatus PaymentStatus `json:"new_status"`
}
