package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/mycredit/lending-engine/internal/domain"
	"github.com/mycredit/lending-engine/internal/repository"
	customError "github.com/mycredit/lending-engine/pkg/errors"
)

// SetUserStatus flips a borrower's inactive flag and cascades it into a
// bulk freeze/unfreeze of their loans in one atomic unit. The cascade
// is a pure status overlay: frozen loans keep their balance, schedule
// and amortization untouched.
func (s *LendingService) SetUserStatus(ctx context.Context, userID uuid.UUID, actor domain.Actor, action domain.UserStatusAction) (*domain.SetUserStatusResponse, error) {
	if action != domain.ActionDeactivate && action != domain.ActionReactivate {
		return nil, customError.WrapValidation("action must be 'deactivate' or 'reactivate'")
	}

	inactive := action == domain.ActionDeactivate

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Users().GetByID(ctx, userID); err != nil {
			return readErr("User", err)
		}

		if err := tx.Users().SetInactive(ctx, userID, inactive); err != nil {
			return customError.WrapStoreFailure(err)
		}

		var bulkErr error
		if inactive {
			_, bulkErr = tx.Loans().BulkSetStatusForUser(ctx, userID,
				[]domain.LoanStatus{domain.LoanStatusActive, domain.LoanStatusApproved},
				domain.LoanStatusFrozen)
		} else {
			_, bulkErr = tx.Loans().BulkSetStatusForUser(ctx, userID,
				[]domain.LoanStatus{domain.LoanStatusFrozen},
				domain.LoanStatusActive)
		}
		if bulkErr != nil {
			return customError.WrapStoreFailure(bulkErr)
		}

		return nil
	})
	if err != nil {
		return nil, asBusiness(err)
	}

	return &domain.SetUserStatusResponse{UserID: userID, IsInactive: inactive}, nil
}
