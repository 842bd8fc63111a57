package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mycredit/lending-engine/internal/domain"
	customError "github.com/mycredit/lending-engine/pkg/errors"
)

// GetLoan returns a loan with its payments, schedule, releases and any
// rejection record for the staff detail view.
func (s *LendingService) GetLoan(ctx context.Context, loanID uuid.UUID) (*domain.LoanDetail, error) {
	loans := s.store.Loans()

	loan, err := loans.GetByID(ctx, loanID)
	if err != nil {
		return nil, readErr("Loan", err)
	}

	payments, err := s.store.Payments().ListByLoan(ctx, loanID)
	if err != nil {
		return nil, customError.WrapStoreFailure(err)
	}

	schedule, err := loans.ListScheduleByLoan(ctx, loanID)
	if err != nil {
		return nil, customError.WrapStoreFailure(err)
	}

	releases, err := loans.ListReleasesByLoan(ctx, loanID)
	if err != nil {
		return nil, customError.WrapStoreFailure(err)
	}

	detail := &domain.LoanDetail{
		Loan:     loan,
		Payments: payments,
		Schedule: schedule,
		Releases: releases,
	}

	// Absent rejection rows are the common case, not an error.
	if rejection, err := loans.GetRejection(ctx, loanID); err == nil {
		detail.Rejection = rejection
	}

	return detail, nil
}

// ListLoansByUser returns a borrower's loans, newest first.
func (s *LendingService) ListLoansByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Loan, error) {
	loans, err := s.store.Loans().ListByUser(ctx, userID)
	if err != nil {
		return nil, customError.WrapStoreFailure(err)
	}
	return loans, nil
}

// LoanOptions returns the loan type and purpose reference tables.
func (s *LendingService) LoanOptions(ctx context.Context) (*domain.LoanOptionsResponse, error) {
	types, err := s.store.Options().ListTypes(ctx)
	if err != nil {
		return nil, customError.WrapStoreFailure(err)
	}

	purposes, err := s.store.Options().ListPurposes(ctx)
	if err != nil {
		return nil, customError.WrapStoreFailure(err)
	}

	return &domain.LoanOptionsResponse{Types: types, Purposes: purposes}, nil
}

// MarkOverdueSchedules flips Unpaid installments past their due date to
// Overdue. Run daily by the scheduler binary; it never links payments
// to schedule rows.
func (s *LendingService) MarkOverdueSchedules(ctx context.Context, asOf time.Time) (int64, error) {
	marked, err := s.store.Loans().MarkOverdue(ctx, asOf)
	if err != nil {
		return 0, customError.WrapStoreFailure(err)
	}
	return marked, nil
}
