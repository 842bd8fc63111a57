package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mycredit/lending-engine/internal/domain"
)

const paymentColumns = `id, loan_id, amount_paid, payment_method, status, transaction_id,
		remarks, verified_by, payment_date, created_at, updated_at`

type paymentRepository struct {
	ext sqlx.ExtContext
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{ext: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO loan_payments (id, loan_id, amount_paid, payment_method, status,
			transaction_id, remarks, payment_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.ext.ExecContext(ctx, query,
		payment.ID,
		payment.LoanID,
		payment.AmountPaid,
		payment.PaymentMethod,
		payment.Status,
		payment.TransactionID,
		payment.Remarks,
		payment.PaymentDate,
		payment.CreatedAt,
		payment.UpdatedAt,
	)

	return err
}

func (r *paymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM loan_payments WHERE id = $1`, paymentColumns)

	var payment domain.Payment
	if err := sqlx.GetContext(ctx, r.ext, &payment, query, id); err != nil {
		return nil, err
	}

	return &payment, nil
}

func (r *paymentRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM loan_payments WHERE id = $1 FOR UPDATE NOWAIT`, paymentColumns)

	var payment domain.Payment
	if err := sqlx.GetContext(ctx, r.ext, &payment, query, id); err != nil {
		return nil, err
	}

	return &payment, nil
}

func (r *paymentRepository) Decide(ctx context.Context, id uuid.UUID, status domain.PaymentStatus, verifiedBy uuid.UUID, at time.Time) error {
	query := `
		UPDATE loan_payments
		SET status = $2, verified_by = $3, updated_at = $4
		WHERE id = $1
	`

	_, err := r.ext.ExecContext(ctx, query, id, status, verifiedBy, at)
	return err
}

func (r *paymentRepository) ListByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM loan_payments WHERE loan_id = $1 ORDER BY payment_date DESC`, paymentColumns)

	var payments []*domain.Payment
	if err := sqlx.SelectContext(ctx, r.ext, &payments, query, loanID); err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *paymentRepository) ListPending(ctx context.Context) ([]*domain.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM loan_payments WHERE status = $1 ORDER BY created_at ASC`, paymentColumns)

	var payments []*domain.Payment
	if err := sqlx.SelectContext(ctx, r.ext, &payments, query, domain.PaymentStatusPending); err != nil {
		return nil, err
	}

	return payments, nil
}
