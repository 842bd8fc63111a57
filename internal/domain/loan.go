package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoanStatus is the closed set of loan lifecycle states.
type LoanStatus string

const (
	LoanStatusPending   LoanStatus = "Pending"
	LoanStatusApproved  LoanStatus = "Approved"
	LoanStatusActive    LoanStatus = "Active"
	LoanStatusPaid      LoanStatus = "Paid"
	LoanStatusDenied    LoanStatus = "Denied"
	LoanStatusDefaulted LoanStatus = "Defaulted"
	LoanStatusFrozen    LoanStatus = "Frozen"
)

func (s LoanStatus) Valid() bool {
	switch s {
	case LoanStatusPending, LoanStatusApproved, LoanStatusActive,
		LoanStatusPaid, LoanStatusDenied, LoanStatusDefaulted, LoanStatusFrozen:
		return true
	}
	return false
}

// Terminal reports whether no further transition may leave this status.
func (s LoanStatus) Terminal() bool {
	switch s {
	case LoanStatusPaid, LoanStatusDenied, LoanStatusDefaulted:
		return true
	}
	return false
}

// ReleaseFrequency controls installment cadence.
type ReleaseFrequency string

const (
	FrequencyMonthly   ReleaseFrequency = "monthly"
	FrequencyBiMonthly ReleaseFrequency = "bi-monthly"
)

func (f ReleaseFrequency) Valid() bool {
	return f == FrequencyMonthly || f == FrequencyBiMonthly
}

// Loan represents a loan entity
type Loan struct {
	ID               uuid.UUID        `json:"id" db:"id"`
	UserID           uuid.UUID        `json:"user_id" db:"user_id"`
	LoanTypeID       uuid.UUID        `json:"loan_type_id" db:"loan_type_id"`
	LoanPurposeID    uuid.UUID        `json:"loan_purpose_id" db:"loan_purpose_id"`
	Principal        decimal.Decimal  `json:"principal" db:"principal"`
	TermMonths       int              `json:"term_months" db:"term_months"`
	InterestRate     decimal.Decimal  `json:"interest_rate" db:"interest_rate"`
	ReleaseFrequency ReleaseFrequency `json:"release_frequency" db:"release_frequency"`
	Amortization     decimal.Decimal  `json:"amortization" db:"amortization"`
	Fees             decimal.Decimal  `json:"fees" db:"fees"`
	Profit           decimal.Decimal  `json:"profit" db:"profit"`
	CurrentBalance   decimal.Decimal  `json:"current_balance" db:"current_balance"`
	Status           LoanStatus       `json:"status" db:"status"`
	Remarks          *string          `json:"remarks,omitempty" db:"remarks"`
	DecisionDate     *time.Time       `json:"decision_date,omitempty" db:"decision_date"`
	DateReleased     *time.Time       `json:"date_released,omitempty" db:"date_released"`
	TermDue          *time.Time       `json:"term_due,omitempty" db:"term_due"`
	ProcessedBy      *uuid.UUID       `json:"processed_by,omitempty" db:"processed_by"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at" db:"updated_at"`
}

// DTOs for requests and responses

type ApplyLoanRequest struct {
	LoanTypeID       uuid.UUID        `json:"loan_type_id" validate:"required"`
	LoanPurposeID    uuid.UUID        `json:"loan_purpose_id" validate:"required"`
	Principal        decimal.Decimal  `json:"principal" validate:"required"`
	TermMonths       int              `json:"term_months" validate:"required,gt=0"`
	ReleaseFrequency ReleaseFrequency `json:"release_frequency"`
	CustomPurpose    string           `json:"custom_purpose"`
}

type ApplyLoanResponse struct {
	LoanID uuid.UUID  `json:"loan_id"`
	Status LoanStatus `json:"status"`
}

// DecisionAction selects the DecideLoan branch.
type DecisionAction string

const (
	ActionApprove DecisionAction = "approve"
	ActionDeny    DecisionAction = "deny"
	ActionUpdate  DecisionAction = "update"
)

// DecisionOverrides carries optional staff-supplied values honored at
// approval (or patched by the update action) instead of the computed defaults.
type DecisionOverrides struct {
	Fees         *decimal.Decimal `json:"fees,omitempty"`
	Profit       *decimal.Decimal `json:"profit,omitempty"`
	Amortization *decimal.Decimal `json:"amortization,omitempty"`
	InterestRate *decimal.Decimal `json:"interest_rate,omitempty"`
}

func (o DecisionOverrides) Empty() bool {
	return o.Fees == nil && o.Profit == nil && o.Amortization == nil && o.InterestRate == nil
}

type DecideLoanRequest struct {
	Action DecisionAction `json:"action" validate:"required,oneof=approve deny update"`
	Reason string         `json:"reason"`
	DecisionOverrides
}

type DecideLoanResponse struct {
	LoanID    uuid.UUID  `json:"loan_id"`
	NewStatus LoanStatus `json:"new_status"`
}

// LoanDetail bundles a loan with its related records for the staff view.
type LoanDetail struct {
	Loan      *Loan            `json:"loan"`
	Payments  []*Payment       `json:"payments"`
	Schedule  []*ScheduleEntry `json:"schedule"`
	Releases  []*ReleaseRecord `json:"releases"`
	Rejection *RejectionRecord `json:"rejection,omitempty"`
}

type OutstandingResponse struct {
	LoanID      uuid.UUID       `json:"loan_id"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Status      LoanStatus      `json:"status"`
}

// LoanType and LoanPurpose are the reference tables behind the application form.

type LoanType struct {
	ID   uuid.UUID `json:"loan_type_id" db:"id"`
	Name string    `json:"loan_type_name" db:"name"`
}

type LoanPurpose struct {
	ID          uuid.UUID `json:"loan_purpose_id" db:"id"`
	Description string    `json:"loan_purpose_description" db:"description"`
}

type LoanOptionsResponse struct {
	Types    []*LoanType    `json:"types"`
	Purposes []*LoanPurpose `json:"purposes"`
}
