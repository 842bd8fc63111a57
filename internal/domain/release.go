package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReleaseRecord is the audit record of principal disbursement, written
// exactly once inside the activation transaction.
type ReleaseRecord struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	LoanID         uuid.UUID       `json:"loan_id" db:"loan_id"`
	AmountReleased decimal.Decimal `json:"amount_released" db:"amount_released"`
	ReferenceNo    string          `json:"reference_no" db:"reference_no"`
	ReleasedBy     uuid.UUID       `json:"released_by" db:"released_by"`
	ReleaseDate    time.Time       `json:"release_date" db:"release_date"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

// RejectionRecord holds the denial reason for a loan. Upserted, so a
// retried denial keeps a single row per loan.
type RejectionRecord struct {
	LoanID       uuid.UUID `json:"loan_id" db:"loan_id"`
	Reason       string    `json:"reason" db:"reason"`
	DateRejected time.Time `json:"date_rejected" db:"date_rejected"`
}
