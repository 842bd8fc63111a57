package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/mycredit/lending-engine/internal/domain"
)

type optionRepository struct {
	ext sqlx.ExtContext
}

func NewOptionRepository(db *sqlx.DB) OptionRepository {
	return &optionRepository{ext: db}
}

func (r *optionRepository) ListTypes(ctx context.Context) ([]*domain.LoanType, error) {
	query := `SELECT id, name FROM loan_types ORDER BY name`

	var types []*domain.LoanType
	if err := sqlx.SelectContext(ctx, r.ext, &types, query); err != nil {
		return nil, err
	}

	return types, nil
}

func (r *optionRepository) ListPurposes(ctx context.Context) ([]*domain.LoanPurpose, error) {
	query := `SELECT id, description FROM loan_purposes ORDER BY description`

	var purposes []*domain.LoanPurpose
	if err := sqlx.SelectContext(ctx, r.ext, &purposes, query); err != nil {
		return nil, err
	}

	return purposes, nil
}
