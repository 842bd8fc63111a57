package service_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mycredit/lending-engine/internal/domain"
	customError "github.com/mycredit/lending-engine/pkg/errors"
)

func activeLoan(borrowerID uuid.UUID, balance int64) *domain.Loan {
	return &domain.Loan{
		ID:               uuid.New(),
		UserID:           borrowerID,
		Principal:        decimal.NewFromInt(balance),
		TermMonths:       12,
		InterestRate:     decimal.NewFromFloat(0.04),
		ReleaseFrequency: domain.FrequencyMonthly,
		CurrentBalance:   decimal.NewFromInt(balance),
		Status:           domain.LoanStatusActive,
	}
}

// matchAmount compares decimals by value, not representation.
func matchAmount(want string) interface{} {
	expected := decimal.RequireFromString(want)
	return mock.MatchedBy(func(got decimal.Decimal) bool {
		return got.Equal(expected)
	})
}

func pendingPayment(loanID uuid.UUID, amount string) *domain.Payment {
	return &domain.Payment{
		ID:            uuid.New(),
		LoanID:        loanID,
		AmountPaid:    decimal.RequireFromString(amount),
		PaymentMethod: "gcash",
		Status:        domain.PaymentStatusPending,
	}
}

func TestSubmitPayment(t *testing.T) {
	ctx := context.Background()
	borrowerID := uuid.New()

	t.Run("records a pending payment against an active loan", func(t *testing.T) {
		store := newMockStore()
		loan := activeLoan(borrowerID, 50000)

		store.loans.On("GetByID", mock.Anything, loan.ID).Return(loan, nil)
		store.payments.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Payment) bool {
			return p.LoanID == loan.ID &&
				p.Status == domain.PaymentStatusPending &&
				p.AmountPaid.Equal(decimal.NewFromInt(5000))
		})).Return(nil)

		svc := newTestService(store)
		result, err := svc.SubmitPayment(ctx, borrowerID, &domain.SubmitPaymentRequest{
			LoanID:        loan.ID,
			Amount:        decimal.NewFromInt(5000),
			PaymentMethod: "gcash",
		})

		require.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusPending, result.Status)
		store.assertExpectations(t)
	})

	t.Run("someone else's loan reads as missing", func(t *testing.T) {
		store := newMockStore()
		loan := activeLoan(uuid.New(), 50000)
		store.loans.On("GetByID", mock.Anything, loan.ID).Return(loan, nil)

		svc := newTestService(store)
		_, err := svc.SubmitPayment(ctx, borrowerID, &domain.SubmitPaymentRequest{
			LoanID:        loan.ID,
			Amount:        decimal.NewFromInt(5000),
			PaymentMethod: "gcash",
		})

		require.Error(t, err)
		assert.Equal(t, customError.CodeNotFound, customError.CodeOf(err))
		store.payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects payments on a non-active loan", func(t *testing.T) {
		store := newMockStore()
		loan := activeLoan(borrowerID, 50000)
		loan.Status = domain.LoanStatusPending
		store.loans.On("GetByID", mock.Anything, loan.ID).Return(loan, nil)

		svc := newTestService(store)
		_, err := svc.SubmitPayment(ctx, borrowerID, &domain.SubmitPaymentRequest{
			LoanID:        loan.ID,
			Amount:        decimal.NewFromInt(5000),
			PaymentMethod: "gcash",
		})

		require.Error(t, err)
		assert.Equal(t, customError.CodeInvalidStateTransition, customError.CodeOf(err))
	})

	t.Run("rejects a non-positive amount", func(t *testing.T) {
		store := newMockStore()
		svc := newTestService(store)

		_, err := svc.SubmitPayment(ctx, borrowerID, &domain.SubmitPaymentRequest{
			LoanID:        uuid.New(),
			Amount:        decimal.Zero,
			PaymentMethod: "gcash",
		})

		require.Error(t, err)
		assert.Equal(t, customError.CodeValidation, customError.CodeOf(err))
	})
}

func TestVerifyPayment(t *testing.T) {
	ctx := context.Background()
	staff := domain.Actor{ID: uuid.New(), Role: domain.RoleStaff}

	t.Run("verification splits the payment into interest and principal", func(t *testing.T) {
		store := newMockStore()
		loan := activeLoan(uuid.New(), 50000)
		payment := pendingPayment(loan.ID, "5327.61")

		store.payments.On("GetByIDForUpdate", mock.Anything, payment.ID).Return(payment, nil)
		store.payments.On("Decide", mock.Anything, payment.ID, domain.PaymentStatusVerified, staff.ID, mock.Anything).Return(nil)
		store.loans.On("GetByIDForUpdate", mock.Anything, loan.ID).Return(loan, nil)
		// interest = 50000 * 0.04 = 2000; principal = 3327.61
		store.loans.On("UpdateBalance", mock.Anything, loan.ID,
			matchAmount("46672.39"), domain.LoanStatusActive).Return(nil)

		svc := newTestService(store)
		result, err := svc.VerifyPayment(ctx, payment.ID, staff, domain.ActionVerifyPayment)

		require.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusVerified, result.NewStatus)
		store.assertExpectations(t)
	})

	t.Run("a payment below the interest due leaves the balance unchanged", func(t *testing.T) {
		store := newMockStore()
		loan := activeLoan(uuid.New(), 50000)
		payment := pendingPayment(loan.ID, "1500")

		store.payments.On("GetByIDForUpdate", mock.Anything, payment.ID).Return(payment, nil)
		store.payments.On("Decide", mock.Anything, payment.ID, domain.PaymentStatusVerified, staff.ID, mock.Anything).Return(nil)
		store.loans.On("GetByIDForUpdate", mock.Anything, loan.ID).Return(loan, nil)
		store.loans.On("UpdateBalance", mock.Anything, loan.ID,
			matchAmount("50000"), domain.LoanStatusActive).Return(nil)

		svc := newTestService(store)
		_, err := svc.VerifyPayment(ctx, payment.ID, staff, domain.ActionVerifyPayment)

		require.NoError(t, err)
		store.assertExpectations(t)
	})

	t.Run("a sub-unit residue closes the loan at exactly zero", func(t *testing.T) {
		store := newMockStore()
		loan := activeLoan(uuid.New(), 100)
		payment := pendingPayment(loan.ID, "103.50")

		store.payments.On("GetByIDForUpdate", mock.Anything, payment.ID).Return(payment, nil)
		store.payments.On("Decide", mock.Anything, payment.ID, domain.PaymentStatusVerified, staff.ID, mock.Anything).Return(nil)
		store.loans.On("GetByIDForUpdate", mock.Anything, loan.ID).Return(loan, nil)
		// interest = 4.00, principal = 99.50, residue 0.50 is forgiven
		store.loans.On("UpdateBalance", mock.Anything, loan.ID,
			matchAmount("0"), domain.LoanStatusPaid).Return(nil)

		svc := newTestService(store)
		_, err := svc.VerifyPayment(ctx, payment.ID, staff, domain.ActionVerifyPayment)

		require.NoError(t, err)
		store.assertExpectations(t)
	})

	t.Run("bi-monthly loans accrue half the monthly rate per payment", func(t *testing.T) {
		store := newMockStore()
		loan := activeLoan(uuid.New(), 10000)
		loan.ReleaseFrequency = domain.FrequencyBiMonthly
		payment := pendingPayment(loan.ID, "1200")

		store.payments.On("GetByIDForUpdate", mock.Anything, payment.ID).Return(payment, nil)
		store.payments.On("Decide", mock.Anything, payment.ID, domain.PaymentStatusVerified, staff.ID, mock.Anything).Return(nil)
		store.loans.On("GetByIDForUpdate", mock.Anything, loan.ID).Return(loan, nil)
		// interest = 10000 * 0.02 = 200; principal = 1000
		store.loans.On("UpdateBalance", mock.Anything, loan.ID,
			matchAmount("9000"), domain.LoanStatusActive).Return(nil)

		svc := newTestService(store)
		_, err := svc.VerifyPayment(ctx, payment.ID, staff, domain.ActionVerifyPayment)

		require.NoError(t, err)
		store.assertExpectations(t)
	})

	t.Run("rejection never touches the loan", func(t *testing.T) {
		store := newMockStore()
		payment := pendingPayment(uuid.New(), "5000")

		store.payments.On("GetByIDForUpdate", mock.Anything, payment.ID).Return(payment, nil)
		store.payments.On("Decide", mock.Anything, payment.ID, domain.PaymentStatusRejected, staff.ID, mock.Anything).Return(nil)

		svc := newTestService(store)
		result, err := svc.VerifyPayment(ctx, payment.ID, staff, domain.ActionRejectPayment)

		require.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusRejected, result.NewStatus)
		store.loans.AssertNotCalled(t, "GetByIDForUpdate", mock.Anything, mock.Anything)
		store.loans.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("a decided payment cannot be decided again", func(t *testing.T) {
		store := newMockStore()
		payment := pendingPayment(uuid.New(), "5000")
		payment.Status = domain.PaymentStatusVerified

		store.payments.On("GetByIDForUpdate", mock.Anything, payment.ID).Return(payment, nil)

		svc := newTestService(store)
		_, err := svc.VerifyPayment(ctx, payment.ID, staff, domain.ActionVerifyPayment)

		require.Error(t, err)
		assert.Equal(t, customError.CodeAlreadyDecided, customError.CodeOf(err))
		store.payments.AssertNotCalled(t, "Decide",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("a locked payment row fails fast with Busy", func(t *testing.T) {
		store := newMockStore()
		paymentID := uuid.New()

		store.payments.On("GetByIDForUpdate", mock.Anything, paymentID).
			Return(nil, &pq.Error{Code: "55P03"})

		svc := newTestService(store)
		_, err := svc.VerifyPayment(ctx, paymentID, staff, domain.ActionVerifyPayment)

		require.Error(t, err)
		assert.Equal(t, customError.CodeBusy, customError.CodeOf(err))
	})

	t.Run("an unknown action is rejected before any read", func(t *testing.T) {
		store := newMockStore()
		svc := newTestService(store)

		_, err := svc.VerifyPayment(ctx, uuid.New(), staff, domain.VerificationAction("approve"))

		require.Error(t, err)
		assert.Equal(t, customError.CodeValidation, customError.CodeOf(err))
	})
}

func TestGetOutstanding(t *testing.T) {
	ctx := context.Background()

	t.Run("falls through to the store when no cache is configured", func(t *testing.T) {
		store := newMockStore()
		loan := activeLoan(uuid.New(), 50000)
		store.loans.On("GetByID", mock.Anything, loan.ID).Return(loan, nil)

		svc := newTestService(store)
		result, err := svc.GetOutstanding(ctx, loan.ID)

		require.NoError(t, err)
		assert.True(t, result.Outstanding.Equal(decimal.NewFromInt(50000)))
		assert.Equal(t, domain.LoanStatusActive, result.Status)
	})

	t.Run("missing loan maps to NotFound", func(t *testing.T) {
		store := newMockStore()
		loanID := uuid.New()
		store.loans.On("GetByID", mock.Anything, loanID).Return(nil, sql.ErrNoRows)

		svc := newTestService(store)
		_, err := svc.GetOutstanding(ctx, loanID)

		require.Error(t, err)
		assert.Equal(t, customError.CodeNotFound, customError.CodeOf(err))
	})
}
