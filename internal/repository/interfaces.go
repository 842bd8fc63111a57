package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mycredit/lending-engine/internal/domain"
)

// Store bundles the repositories and the transaction boundary. WithinTx
// runs fn against repositories bound to a single database transaction:
// fn returning an error rolls the whole unit back. Nested WithinTx is
// not supported.
type Store interface {
	Loans() LoanRepository
	Payments() PaymentRepository
	Users() UserRepository
	Options() OptionRepository

	WithinTx(ctx context.Context, fn func(tx Store) error) error
}

// LoanRepository defines the interface for loan, schedule, release and
// rejection data operations.
type LoanRepository interface {
	// Create inserts a new pending loan
	Create(ctx context.Context, loan *domain.Loan) error

	// GetByID retrieves a loan by id
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error)

	// GetByIDForUpdate retrieves a loan holding an exclusive row lock.
	// A concurrently locked row fails fast with a lock error.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Loan, error)

	// ListByUser retrieves all loans owned by a borrower
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Loan, error)

	// Activate persists the approval write: status, decision fields and
	// the computed amortization/fees/profit
	Activate(ctx context.Context, loan *domain.Loan) error

	// Deny marks a loan denied
	Deny(ctx context.Context, id, staffID uuid.UUID, at time.Time) error

	// Patch applies a partial fees/profit/amortization/rate update
	Patch(ctx context.Context, id uuid.UUID, overrides domain.DecisionOverrides) error

	// UpdateBalance persists a new balance and status after verification
	UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal, status domain.LoanStatus) error

	// BulkSetStatusForUser moves every loan of a user whose status is in
	// from to the to status, returning the number of rows changed
	BulkSetStatusForUser(ctx context.Context, userID uuid.UUID, from []domain.LoanStatus, to domain.LoanStatus) (int64, error)

	// CreateSchedule inserts schedule entries in one batch
	CreateSchedule(ctx context.Context, entries []*domain.ScheduleEntry) error

	// ListScheduleByLoan retrieves a loan's schedule ordered by due date
	ListScheduleByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.ScheduleEntry, error)

	// MarkOverdue flips Unpaid entries past their due date to Overdue
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)

	// CreateRelease inserts the disbursement audit record
	CreateRelease(ctx context.Context, release *domain.ReleaseRecord) error

	// ListReleasesByLoan retrieves release records for a loan
	ListReleasesByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.ReleaseRecord, error)

	// UpsertRejection inserts or refreshes the denial record for a loan
	UpsertRejection(ctx context.Context, rejection *domain.RejectionRecord) error

	// GetRejection retrieves the denial record for a loan, if any
	GetRejection(ctx context.Context, loanID uuid.UUID) (*domain.RejectionRecord, error)
}

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	// Create inserts a new pending payment
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByID retrieves a payment by id
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error)

	// GetByIDForUpdate retrieves a payment holding an exclusive row lock
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Payment, error)

	// Decide records the terminal verification outcome
	Decide(ctx context.Context, id uuid.UUID, status domain.PaymentStatus, verifiedBy uuid.UUID, at time.Time) error

	// ListByLoan retrieves all payments for a loan, newest first
	ListByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.Payment, error)

	// ListPending retrieves the staff verification queue
	ListPending(ctx context.Context) ([]*domain.Payment, error)
}

// UserRepository exposes the borrower flag the engine reads and writes
type UserRepository interface {
	// GetByID retrieves a user by id
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// SetInactive flips the deactivation flag
	SetInactive(ctx context.Context, id uuid.UUID, inactive bool) error
}

// OptionRepository lists the loan application reference tables
type OptionRepository interface {
	ListTypes(ctx context.Context) ([]*domain.LoanType, error)
	ListPurposes(ctx context.Context) ([]*domain.LoanPurpose, error)
}
