package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mycredit/lending-engine/internal/domain"
	"github.com/mycredit/lending-engine/internal/repository"
	customError "github.com/mycredit/lending-engine/pkg/errors"
	"github.com/mycredit/lending-engine/pkg/money"
)

// SubmitPayment records a borrower payment against their own Active
// loan. The payment waits in Pending until staff verify it; submission
// itself never touches the loan balance.
func (s *LendingService) SubmitPayment(ctx context.Context, borrowerID uuid.UUID, request *domain.SubmitPaymentRequest) (*domain.SubmitPaymentResponse, error) {
	if request.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, customError.WrapValidation("amount must be greater than zero")
	}
	if request.PaymentMethod == "" {
		return nil, customError.WrapValidation("payment method is required")
	}

	loan, err := s.store.Loans().GetByID(ctx, request.LoanID)
	if err != nil {
		return nil, readErr("Loan", err)
	}

	// Ownership is checked before status so a stranger's probe reads as
	// a missing loan, not as someone else's loan state.
	if loan.UserID != borrowerID {
		return nil, customError.WrapNotFound("Loan")
	}
	if loan.Status != domain.LoanStatusActive {
		return nil, customError.NewBusinessError(
			customError.CodeInvalidStateTransition,
			fmt.Sprintf("Can only make payments on active loans, loan is %s", loan.Status),
			customError.ErrInvalidStateTransition,
		)
	}

	now := time.Now().UTC()
	payment := &domain.Payment{
		ID:            uuid.New(),
		LoanID:        loan.ID,
		AmountPaid:    request.Amount,
		PaymentMethod: request.PaymentMethod,
		Status:        domain.PaymentStatusPending,
		PaymentDate:   now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if request.TransactionID != "" {
		txnID := request.TransactionID
		payment.TransactionID = &txnID
	}
	if request.Remarks != "" {
		remarks := request.Remarks
		payment.Remarks = &remarks
	}

	if err := s.store.Payments().Create(ctx, payment); err != nil {
		return nil, customError.WrapStoreFailure(err)
	}

	return &domain.SubmitPaymentResponse{PaymentID: payment.ID, Status: payment.Status}, nil
}

// VerifyPayment drives the terminal Pending -> Verified/Rejected
// transition. The payment row is locked before its status is read, so
// of two concurrent attempts exactly one commits and the other re-reads
// the decided status and fails with AlreadyDecided.
//
// A verified payment splits into interest and principal against the
// locked loan row: interest = balance * period rate, the remainder
// reduces the balance, and a balance under one currency unit closes the
// loan at exactly zero. Payments smaller than the interest due reduce
// principal by zero; the shortfall is absorbed, not carried as arrears.
func (s *LendingService) VerifyPayment(ctx context.Context, paymentID uuid.UUID, actor domain.Actor, action domain.VerificationAction) (*domain.VerifyPaymentResponse, error) {
	if action != domain.ActionVerifyPayment && action != domain.ActionRejectPayment {
		return nil, customError.WrapValidation("action must be 'verify' or 'reject'")
	}

	var (
		newStatus domain.PaymentStatus
		loanID    uuid.UUID
	)

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		payment, err := tx.Payments().GetByIDForUpdate(ctx, paymentID)
		if err != nil {
			return readErr("Payment", err)
		}

		if payment.Status != domain.PaymentStatusPending {
			return customError.WrapAlreadyDecided(string(payment.Status))
		}

		loanID = payment.LoanID
		now := time.Now().UTC()

		newStatus = domain.PaymentStatusRejected
		if action == domain.ActionVerifyPayment {
			newStatus = domain.PaymentStatusVerified
		}

		if err := tx.Payments().Decide(ctx, payment.ID, newStatus, actor.ID, now); err != nil {
			return customError.WrapStoreFailure(err)
		}

		if newStatus != domain.PaymentStatusVerified {
			return nil
		}

		loan, err := tx.Loans().GetByIDForUpdate(ctx, payment.LoanID)
		if err != nil {
			return readErr("Loan", err)
		}

		newBalance, loanStatus := applyPayment(loan, payment.AmountPaid)
		if err := tx.Loans().UpdateBalance(ctx, loan.ID, newBalance, loanStatus); err != nil {
			return customError.WrapStoreFailure(err)
		}

		return nil
	})
	if err != nil {
		return nil, asBusiness(err)
	}

	s.invalidateOutstanding(ctx, loanID)

	return &domain.VerifyPaymentResponse{PaymentID: paymentID, NewStatus: newStatus}, nil
}

// applyPayment computes the post-verification balance and loan status.
func applyPayment(loan *domain.Loan, amountPaid decimal.Decimal) (decimal.Decimal, domain.LoanStatus) {
	periodRate := loan.InterestRate
	if loan.ReleaseFrequency == domain.FrequencyBiMonthly {
		periodRate = periodRate.Div(decimal.NewFromInt(2))
	}

	interestPortion := loan.CurrentBalance.Mul(periodRate)
	principalPortion := money.Clamp(amountPaid.Sub(interestPortion))
	newBalance := money.Round(money.Clamp(loan.CurrentBalance.Sub(principalPortion)))

	// One-currency-unit tolerance absorbs rounding residue at payoff.
	if newBalance.LessThan(decimal.NewFromInt(1)) {
		return decimal.Zero, domain.LoanStatusPaid
	}

	return newBalance, loan.Status
}

// GetOutstanding returns a loan's current balance, read through the
// cache when one is configured.
func (s *LendingService) GetOutstanding(ctx context.Context, loanID uuid.UUID) (*domain.OutstandingResponse, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, outstandingKey(loanID)).Result(); err == nil {
			if response, ok := parseOutstanding(loanID, cached); ok {
				return response, nil
			}
		}
	}

	loan, err := s.store.Loans().GetByID(ctx, loanID)
	if err != nil {
		return nil, readErr("Loan", err)
	}

	response := &domain.OutstandingResponse{
		LoanID:      loan.ID,
		Outstanding: loan.CurrentBalance,
		Status:      loan.Status,
	}

	if s.redis != nil {
		value := fmt.Sprintf("%s|%s", loan.CurrentBalance.String(), loan.Status)
		if err := s.redis.Set(ctx, outstandingKey(loanID), value, s.config.GetCacheTTL()).Err(); err != nil {
			log.Printf("outstanding cache set failed for loan %s: %v", loanID, err)
		}
	}

	return response, nil
}

// ListPendingPayments returns the staff verification queue.
func (s *LendingService) ListPendingPayments(ctx context.Context) ([]*domain.Payment, error) {
	payments, err := s.store.Payments().ListPending(ctx)
	if err != nil {
		return nil, customError.WrapStoreFailure(err)
	}
	return payments, nil
}

func (s *LendingService) invalidateOutstanding(ctx context.Context, loanID uuid.UUID) {
	if s.redis == nil || loanID == uuid.Nil {
		return
	}
	if err := s.redis.Del(ctx, outstandingKey(loanID)).Err(); err != nil {
		log.Printf("outstanding cache invalidation failed for loan %s: %v", loanID, err)
	}
}

func outstandingKey(loanID uuid.UUID) string {
	return "loan:outstanding:" + loanID.String()
}

func parseOutstanding(loanID uuid.UUID, cached string) (*domain.OutstandingResponse, bool) {
	balance, status, found := strings.Cut(cached, "|")
	if !found || !domain.LoanStatus(status).Valid() {
		return nil, false
	}
	amount, err := decimal.NewFromString(balance)
	if err != nil {
		return nil, false
	}
	return &domain.OutstandingResponse{
		LoanID:      loanID,
		Outstanding: amount,
		Status:      domain.LoanStatus(status),
	}, true
}
