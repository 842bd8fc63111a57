package service_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mycredit/lending-engine/internal/domain"
	customError "github.com/mycredit/lending-engine/pkg/errors"
)

func TestSetUserStatus(t *testing.T) {
	ctx := context.Background()
	admin := domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin}

	t.Run("deactivation freezes active and approved loans", func(t *testing.T) {
		store := newMockStore()
		userID := uuid.New()

		store.users.On("GetByID", mock.Anything, userID).Return(&domain.User{ID: userID}, nil)
		store.users.On("SetInactive", mock.Anything, userID, true).Return(nil)
		store.loans.On("BulkSetStatusForUser", mock.Anything, userID,
			[]domain.LoanStatus{domain.LoanStatusActive, domain.LoanStatusApproved},
			domain.LoanStatusFrozen).Return(int64(2), nil)

		svc := newTestService(store)
		result, err := svc.SetUserStatus(ctx, userID, admin, domain.ActionDeactivate)

		require.NoError(t, err)
		assert.True(t, result.IsInactive)
		store.assertExpectations(t)
	})

	t.Run("reactivation thaws only frozen loans", func(t *testing.T) {
		store := newMockStore()
		userID := uuid.New()

		store.users.On("GetByID", mock.Anything, userID).Return(&domain.User{ID: userID, IsInactive: true}, nil)
		store.users.On("SetInactive", mock.Anything, userID, false).Return(nil)
		store.loans.On("BulkSetStatusForUser", mock.Anything, userID,
			[]domain.LoanStatus{domain.LoanStatusFrozen},
			domain.LoanStatusActive).Return(int64(1), nil)

		svc := newTestService(store)
		result, err := svc.SetUserStatus(ctx, userID, admin, domain.ActionReactivate)

		require.NoError(t, err)
		assert.False(t, result.IsInactive)
		store.assertExpectations(t)
	})

	t.Run("unknown user maps to NotFound", func(t *testing.T) {
		store := newMockStore()
		userID := uuid.New()
		store.users.On("GetByID", mock.Anything, userID).Return(nil, sql.ErrNoRows)

		svc := newTestService(store)
		_, err := svc.SetUserStatus(ctx, userID, admin, domain.ActionDeactivate)

		require.Error(t, err)
		assert.Equal(t, customError.CodeNotFound, customError.CodeOf(err))
		store.users.AssertNotCalled(t, "SetInactive", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid action is rejected without touching the store", func(t *testing.T) {
		store := newMockStore()
		svc := newTestService(store)

		_, err := svc.SetUserStatus(ctx, uuid.New(), admin, domain.UserStatusAction("suspend"))

		require.Error(t, err)
		assert.Equal(t, customError.CodeValidation, customError.CodeOf(err))
		store.users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}
