package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ScheduleStatus is the closed set of installment states.
type ScheduleStatus string

const (
	ScheduleStatusUnpaid  ScheduleStatus = "Unpaid"
	ScheduleStatusPartial ScheduleStatus = "Partial"
	ScheduleStatusPaid    ScheduleStatus = "Paid"
	ScheduleStatusOverdue ScheduleStatus = "Overdue"
)

func (s ScheduleStatus) Valid() bool {
	switch s {
	case ScheduleStatusUnpaid, ScheduleStatusPartial, ScheduleStatusPaid, ScheduleStatusOverdue:
		return true
	}
	return false
}

// ScheduleEntry is one expected installment of an activated loan.
// Entries are created in bulk inside the activation transaction and
// are never created through any other path.
type ScheduleEntry struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	LoanID          uuid.UUID       `json:"loan_id" db:"loan_id"`
	DueDate         time.Time       `json:"due_date" db:"due_date"`
	ScheduledAmount decimal.Decimal `json:"scheduled_amount" db:"scheduled_amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount" db:"paid_amount"`
	Status          ScheduleStatus  `json:"status" db:"status"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

type ScheduleResponse struct {
	LoanID   uuid.UUID        `json:"loan_id"`
	Schedule []*ScheduleEntry `json:"schedule"`
}
