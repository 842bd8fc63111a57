package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/mycredit/lending-engine/internal/config"
	"github.com/mycredit/lending-engine/internal/domain"
	"github.com/mycredit/lending-engine/internal/repository"
	customError "github.com/mycredit/lending-engine/pkg/errors"
	"github.com/mycredit/lending-engine/pkg/money"
)

// LendingService drives the loan lifecycle: application, staff
// decisions, payment verification and the borrower status cascade. All
// multi-row mutations run inside one store transaction with the target
// rows locked for exclusive access, so concurrent attempts on the same
// entity serialize and the loser fails the status precondition instead
// of double-applying.
type LendingService struct {
	store  repository.Store
	redis  *redis.Client
	config *config.Config
}

func NewLendingService(store repository.Store, redisClient *redis.Client, cfg *config.Config) *LendingService {
	return &LendingService{
		store:  store,
		redis:  redisClient,
		config: cfg,
	}
}

// asBusiness passes BusinessErrors through untouched and downgrades
// anything else to a store failure so no driver internals leak outward.
func asBusiness(err error) error {
	var be *customError.BusinessError
	if errors.As(err, &be) {
		return err
	}
	return customError.WrapStoreFailure(err)
}

// readErr maps a repository read failure on a locked or missing row to
// the right business kind.
func readErr(entity string, err error) error {
	switch {
	case repository.IsNotFound(err):
		return customError.WrapNotFound(entity)
	case repository.IsLockNotAvailable(err):
		return customError.WrapBusy(entity)
	default:
		return customError.WrapStoreFailure(err)
	}
}

// ApplyLoan creates a Pending loan for a borrower. The principal must
// be one of the allowed denominations; the balance starts equal to the
// principal and an indicative amortization is precomputed from the
// default rate so the application can be shown with its installment.
func (s *LendingService) ApplyLoan(ctx context.Context, borrowerID uuid.UUID, request *domain.ApplyLoanRequest) (*domain.ApplyLoanResponse, error) {
	if request.TermMonths <= 0 {
		return nil, customError.WrapValidation("term must be greater than zero")
	}

	frequency := request.ReleaseFrequency
	if frequency == "" {
		frequency = domain.FrequencyMonthly
	}
	if !frequency.Valid() {
		return nil, customError.WrapValidation("release frequency must be monthly or bi-monthly")
	}

	if !s.allowedAmount(request.Principal) {
		return nil, customError.WrapInvalidAmount(request.Principal.String())
	}

	rate := s.config.GetDefaultInterestRate()
	calc, err := ComputeAmortization(request.Principal, request.TermMonths, rate, s.config.GetServiceFeeRate())
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	loan := &domain.Loan{
		ID:               uuid.New(),
		UserID:           borrowerID,
		LoanTypeID:       request.LoanTypeID,
		LoanPurposeID:    request.LoanPurposeID,
		Principal:        request.Principal,
		TermMonths:       request.TermMonths,
		InterestRate:     rate,
		ReleaseFrequency: frequency,
		Amortization:     calc.Amortization,
		Fees:             decimal.Zero,
		Profit:           decimal.Zero,
		CurrentBalance:   request.Principal,
		Status:           domain.LoanStatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if request.CustomPurpose != "" {
		remarks := request.CustomPurpose
		loan.Remarks = &remarks
	}

	if err := s.store.Loans().Create(ctx, loan); err != nil {
		return nil, customError.WrapStoreFailure(err)
	}

	return &domain.ApplyLoanResponse{LoanID: loan.ID, Status: loan.Status}, nil
}

func (s *LendingService) allowedAmount(principal decimal.Decimal) bool {
	for _, amount := range s.config.Business.AllowedAmounts {
		if principal.Equal(decimal.NewFromInt(int64(amount))) {
			return true
		}
	}
	return false
}

// DecideLoan drives the Pending -> Active/Denied transition, or applies
// a plain field patch for the update action. The loan row is locked
// before its status is read; activation writes the loan, its full
// schedule and the release record as one atomic unit.
func (s *LendingService) DecideLoan(ctx context.Context, loanID uuid.UUID, actor domain.Actor, request *domain.DecideLoanRequest) (*domain.DecideLoanResponse, error) {
	var newStatus domain.LoanStatus

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		loan, err := tx.Loans().GetByIDForUpdate(ctx, loanID)
		if err != nil {
			return readErr("Loan", err)
		}

		switch request.Action {
		case domain.ActionUpdate:
			newStatus = loan.Status
			return s.patchLoan(ctx, tx, loan, request.DecisionOverrides)

		case domain.ActionDeny:
			newStatus = domain.LoanStatusDenied
			return s.denyLoan(ctx, tx, loan, actor, request.Reason)

		case domain.ActionApprove:
			newStatus = domain.LoanStatusActive
			return s.approveLoan(ctx, tx, loan, actor, request.DecisionOverrides)

		default:
			return customError.WrapValidation("action must be 'approve', 'deny' or 'update'")
		}
	})
	if err != nil {
		return nil, asBusiness(err)
	}

	return &domain.DecideLoanResponse{LoanID: loanID, NewStatus: newStatus}, nil
}

func (s *LendingService) patchLoan(ctx context.Context, tx repository.Store, loan *domain.Loan, overrides domain.DecisionOverrides) error {
	if loan.Status.Terminal() {
		return customError.WrapInvalidStateTransition("Loan", string(loan.Status))
	}
	if overrides.Empty() {
		return customError.WrapNoOp()
	}
	if err := tx.Loans().Patch(ctx, loan.ID, overrides); err != nil {
		return customError.WrapStoreFailure(err)
	}
	return nil
}

func (s *LendingService) denyLoan(ctx context.Context, tx repository.Store, loan *domain.Loan, actor domain.Actor, reason string) error {
	if loan.Status != domain.LoanStatusPending {
		return customError.WrapInvalidStateTransition("Loan", string(loan.Status))
	}
	if reason == "" {
		return customError.WrapValidation("a reason is required when denying a loan")
	}

	now := time.Now().UTC()
	if err := tx.Loans().Deny(ctx, loan.ID, actor.ID, now); err != nil {
		return customError.WrapStoreFailure(err)
	}

	// The rejection record is informational only; a failed insert must
	// not affect the loan's authoritative status.
	rejection := &domain.RejectionRecord{LoanID: loan.ID, Reason: reason, DateRejected: now}
	if err := tx.Loans().UpsertRejection(ctx, rejection); err != nil {
		log.Printf("rejection record upsert failed for loan %s: %v", loan.ID, err)
	}

	return nil
}

func (s *LendingService) approveLoan(ctx context.Context, tx repository.Store, loan *domain.Loan, actor domain.Actor, overrides domain.DecisionOverrides) error {
	if loan.Status != domain.LoanStatusPending {
		return customError.WrapInvalidStateTransition("Loan", string(loan.Status))
	}

	borrower, err := tx.Users().GetByID(ctx, loan.UserID)
	if err != nil {
		return readErr("Borrower", err)
	}
	if borrower.IsInactive {
		return customError.WrapIneligibleBorrower()
	}

	rate := loan.InterestRate
	if overrides.InterestRate != nil {
		rate = *overrides.InterestRate
	}

	calc, err := ComputeAmortization(loan.Principal, loan.TermMonths, rate, s.config.GetServiceFeeRate())
	if err != nil {
		return err
	}

	// Staff overrides are taken as-is, never re-derived.
	amortization := calc.Amortization
	if overrides.Amortization != nil {
		amortization = *overrides.Amortization
	}
	fees := calc.Fees
	if overrides.Fees != nil {
		fees = *overrides.Fees
	}
	profit := calc.Profit
	if overrides.Profit != nil {
		profit = *overrides.Profit
	}

	now := time.Now().UTC()
	termDue := now.AddDate(0, loan.TermMonths, 0)

	loan.Status = domain.LoanStatusActive
	loan.ProcessedBy = &actor.ID
	loan.DecisionDate = &now
	loan.DateReleased = &now
	loan.TermDue = &termDue
	loan.InterestRate = rate
	loan.Amortization = amortization
	loan.Fees = fees
	loan.Profit = profit

	if err := tx.Loans().Activate(ctx, loan); err != nil {
		return customError.WrapStoreFailure(err)
	}

	entries := GenerateSchedule(loan.ID, amortization, loan.TermMonths, loan.ReleaseFrequency, now)
	if err := tx.Loans().CreateSchedule(ctx, entries); err != nil {
		return customError.WrapStoreFailure(err)
	}

	release := &domain.ReleaseRecord{
		ID:             uuid.New(),
		LoanID:         loan.ID,
		AmountReleased: loan.Principal,
		ReferenceNo:    money.ReferenceNo(loan.ID, now),
		ReleasedBy:     actor.ID,
		ReleaseDate:    now,
		CreatedAt:      now,
	}
	if err := tx.Loans().CreateRelease(ctx, release); err != nil {
		return customError.WrapStoreFailure(err)
	}

	return nil
}
