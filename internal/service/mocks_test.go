package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/mycredit/lending-engine/internal/domain"
	"github.com/mycredit/lending-engine/internal/repository"
)

type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Loan, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) Activate(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) Deny(ctx context.Context, id, staffID uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, staffID, at)
	return args.Error(0)
}

func (m *MockLoanRepository) Patch(ctx context.Context, id uuid.UUID, overrides domain.DecisionOverrides) error {
	args := m.Called(ctx, id, overrides)
	return args.Error(0)
}

func (m *MockLoanRepository) UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal, status domain.LoanStatus) error {
	args := m.Called(ctx, id, balance, status)
	return args.Error(0)
}

func (m *MockLoanRepository) BulkSetStatusForUser(ctx context.Context, userID uuid.UUID, from []domain.LoanStatus, to domain.LoanStatus) (int64, error) {
	args := m.Called(ctx, userID, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLoanRepository) CreateSchedule(ctx context.Context, entries []*domain.ScheduleEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockLoanRepository) ListScheduleByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.ScheduleEntry, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ScheduleEntry), args.Error(1)
}

func (m *MockLoanRepository) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLoanRepository) CreateRelease(ctx context.Context, release *domain.ReleaseRecord) error {
	args := m.Called(ctx, release)
	return args.Error(0)
}

func (m *MockLoanRepository) ListReleasesByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.ReleaseRecord, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ReleaseRecord), args.Error(1)
}

func (m *MockLoanRepository) UpsertRejection(ctx context.Context, rejection *domain.RejectionRecord) error {
	args := m.Called(ctx, rejection)
	return args.Error(0)
}

func (m *MockLoanRepository) GetRejection(ctx context.Context, loanID uuid.UUID) (*domain.RejectionRecord, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RejectionRecord), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Decide(ctx context.Context, id uuid.UUID, status domain.PaymentStatus, verifiedBy uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, status, verifiedBy, at)
	return args.Error(0)
}

func (m *MockPaymentRepository) ListByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.Payment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListPending(ctx context.Context) ([]*domain.Payment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SetInactive(ctx context.Context, id uuid.UUID, inactive bool) error {
	args := m.Called(ctx, id, inactive)
	return args.Error(0)
}

type MockOptionRepository struct {
	mock.Mock
}

func (m *MockOptionRepository) ListTypes(ctx context.Context) ([]*domain.LoanType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LoanType), args.Error(1)
}

func (m *MockOptionRepository) ListPurposes(ctx context.Context) ([]*domain.LoanPurpose, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LoanPurpose), args.Error(1)
}

// mockStore satisfies repository.Store; WithinTx simply runs fn against
// the same mocks, mirroring the real transactional binding.
type mockStore struct {
	loans    *MockLoanRepository
	payments *MockPaymentRepository
	users    *MockUserRepository
	options  *MockOptionRepository
}

func newMockStore() *mockStore {
	return &mockStore{
		loans:    new(MockLoanRepository),
		payments: new(MockPaymentRepository),
		users:    new(MockUserRepository),
		options:  new(MockOptionRepository),
	}
}

func (s *mockStore) Loans() repository.LoanRepository       { return s.loans }
func (s *mockStore) Payments() repository.PaymentRepository { return s.payments }
func (s *mockStore) Users() repository.UserRepository       { return s.users }
func (s *mockStore) Options() repository.OptionRepository   { return s.options }

func (s *mockStore) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	return fn(s)
}

func (s *mockStore) assertExpectations(t mock.TestingT) {
	s.loans.AssertExpectations(t)
	s.payments.AssertExpectations(t)
	s.users.AssertExpectations(t)
	s.options.AssertExpectations(t)
}
