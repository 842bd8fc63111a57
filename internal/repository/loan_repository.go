package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/mycredit/lending-engine/internal/domain"
)

const loanColumns = `id, user_id, loan_type_id, loan_purpose_id, principal, term_months,
		interest_rate, release_frequency, amortization, fees, profit, current_balance,
		status, remarks, decision_date, date_released, term_due, processed_by, created_at, updated_at`

type loanRepository struct {
	ext sqlx.ExtContext
}

func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{ext: db}
}

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	query := `
		INSERT INTO loans (id, user_id, loan_type_id, loan_purpose_id, principal, term_months,
			interest_rate, release_frequency, amortization, fees, profit, current_balance,
			status, remarks, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.ext.ExecContext(ctx, query,
		loan.ID,
		loan.UserID,
		loan.LoanTypeID,
		loan.LoanPurposeID,
		loan.Principal,
		loan.TermMonths,
		loan.InterestRate,
		loan.ReleaseFrequency,
		loan.Amortization,
		loan.Fees,
		loan.Profit,
		loan.CurrentBalance,
		loan.Status,
		loan.Remarks,
		loan.CreatedAt,
		loan.UpdatedAt,
	)

	return err
}

func (r *loanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	query := fmt.Sprintf(`SELECT %s FROM loans WHERE id = $1`, loanColumns)

	var loan domain.Loan
	if err := sqlx.GetContext(ctx, r.ext, &loan, query, id); err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	query := fmt.Sprintf(`SELECT %s FROM loans WHERE id = $1 FOR UPDATE NOWAIT`, loanColumns)

	var loan domain.Loan
	if err := sqlx.GetContext(ctx, r.ext, &loan, query, id); err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Loan, error) {
	query := fmt.Sprintf(`SELECT %s FROM loans WHERE user_id = $1 ORDER BY created_at DESC`, loanColumns)

	var loans []*domain.Loan
	if err := sqlx.SelectContext(ctx, r.ext, &loans, query, userID); err != nil {
		return nil, err
	}

	return loans, nil
}

func (r *loanRepository) Activate(ctx context.Context, loan *domain.Loan) error {
	query := `
		UPDATE loans
		SET status = $2, processed_by = $3, decision_date = $4, date_released = $5,
			term_due = $6, amortization = $7, fees = $8, profit = $9,
			interest_rate = $10, updated_at = $4
		WHERE id = $1
	`

	_, err := r.ext.ExecContext(ctx, query,
		loan.ID,
		loan.Status,
		loan.ProcessedBy,
		loan.DecisionDate,
		loan.DateReleased,
		loan.TermDue,
		loan.Amortization,
		loan.Fees,
		loan.Profit,
		loan.InterestRate,
	)

	return err
}

func (r *loanRepository) Deny(ctx context.Context, id, staffID uuid.UUID, at time.Time) error {
	query := `
		UPDATE loans
		SET status = $2, processed_by = $3, decision_date = $4, updated_at = $4
		WHERE id = $1
	`

	_, err := r.ext.ExecContext(ctx, query, id, domain.LoanStatusDenied, staffID, at)
	return err
}

func (r *loanRepository) Patch(ctx context.Context, id uuid.UUID, overrides domain.DecisionOverrides) error {
	sets := make([]string, 0, 5)
	args := []interface{}{id}

	add := func(column string, v *decimal.Decimal) {
		if v == nil {
			return
		}
		args = append(args, *v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	add("fees", overrides.Fees)
	add("profit", overrides.Profit)
	add("amortization", overrides.Amortization)
	add("interest_rate", overrides.InterestRate)

	args = append(args, time.Now().UTC())
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))

	query := fmt.Sprintf(`UPDATE loans SET %s WHERE id = $1`, strings.Join(sets, ", "))

	_, err := r.ext.ExecContext(ctx, query, args...)
	return err
}

func (r *loanRepository) UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal, status domain.LoanStatus) error {
	query := `
		UPDATE loans
		SET current_balance = $2, status = $3, updated_at = $4
		WHERE id = $1
	`

	_, err := r.ext.ExecContext(ctx, query, id, balance, status, time.Now().UTC())
	return err
}

func (r *loanRepository) BulkSetStatusForUser(ctx context.Context, userID uuid.UUID, from []domain.LoanStatus, to domain.LoanStatus) (int64, error) {
	statuses := make([]string, len(from))
	for i, s := range from {
		statuses[i] = string(s)
	}

	query, args, err := sqlx.In(
		`UPDATE loans SET status = ?, updated_at = ? WHERE user_id = ? AND status IN (?)`,
		to, time.Now().UTC(), userID, statuses,
	)
	if err != nil {
		return 0, err
	}

	res, err := r.ext.ExecContext(ctx, r.ext.Rebind(query), args...)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

func (r *loanRepository) CreateSchedule(ctx context.Context, entries []*domain.ScheduleEntry) error {
	query := `
		INSERT INTO loan_schedules (id, loan_id, due_date, scheduled_amount, paid_amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for _, entry := range entries {
		_, err := r.ext.ExecContext(ctx, query,
			entry.ID,
			entry.LoanID,
			entry.DueDate,
			entry.ScheduledAmount,
			entry.PaidAmount,
			entry.Status,
			entry.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *loanRepository) ListScheduleByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.ScheduleEntry, error) {
	query := `
		SELECT id, loan_id, due_date, scheduled_amount, paid_amount, status, created_at
		FROM loan_schedules
		WHERE loan_id = $1
		ORDER BY due_date ASC
	`

	var entries []*domain.ScheduleEntry
	if err := sqlx.SelectContext(ctx, r.ext, &entries, query, loanID); err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *loanRepository) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	query := `
		UPDATE loan_schedules
		SET status = $1
		WHERE status = $2 AND due_date < $3
	`

	res, err := r.ext.ExecContext(ctx, query, domain.ScheduleStatusOverdue, domain.ScheduleStatusUnpaid, asOf)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

func (r *loanRepository) CreateRelease(ctx context.Context, release *domain.ReleaseRecord) error {
	query := `
		INSERT INTO loan_releases (id, loan_id, amount_released, reference_no, released_by, release_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.ext.ExecContext(ctx, query,
		release.ID,
		release.LoanID,
		release.AmountReleased,
		release.ReferenceNo,
		release.ReleasedBy,
		release.ReleaseDate,
		release.CreatedAt,
	)

	return err
}

func (r *loanRepository) ListReleasesByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.ReleaseRecord, error) {
	query := `
		SELECT id, loan_id, amount_released, reference_no, released_by, release_date, created_at
		FROM loan_releases
		WHERE loan_id = $1
		ORDER BY release_date DESC
	`

	var releases []*domain.ReleaseRecord
	if err := sqlx.SelectContext(ctx, r.ext, &releases, query, loanID); err != nil {
		return nil, err
	}

	return releases, nil
}

func (r *loanRepository) UpsertRejection(ctx context.Context, rejection *domain.RejectionRecord) error {
	query := `
		INSERT INTO loan_rejections (loan_id, reason, date_rejected)
		VALUES ($1, $2, $3)
		ON CONFLICT (loan_id) DO UPDATE SET reason = EXCLUDED.reason, date_rejected = EXCLUDED.date_rejected
	`

	_, err := r.ext.ExecContext(ctx, query, rejection.LoanID, rejection.Reason, rejection.DateRejected)
	return err
}

func (r *loanRepository) GetRejection(ctx context.Context, loanID uuid.UUID) (*domain.RejectionRecord, error) {
	query := `
		SELECT loan_id, reason, date_rejected
		FROM loan_rejections
		WHERE loan_id = $1
	`

	var rejection domain.RejectionRecord
	if err := sqlx.GetContext(ctx, r.ext, &rejection, query, loanID); err != nil {
		return nil, err
	}

	return &rejection, nil
}
