package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// pgLockNotAvailable is raised by FOR UPDATE NOWAIT when the row is
// already locked by another transaction.
const pgLockNotAvailable = "55P03"

// IsLockNotAvailable reports whether err means the target row was
// locked by a concurrent transaction.
func IsLockNotAvailable(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgLockNotAvailable
}

// IsNotFound reports whether err means the row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

type sqlStore struct {
	db  *sqlx.DB
	ext sqlx.ExtContext
}

// NewStore wraps a sqlx handle into a Store.
func NewStore(db *sqlx.DB) Store {
	return &sqlStore{db: db, ext: db}
}

func (s *sqlStore) Loans() LoanRepository       { return &loanRepository{ext: s.ext} }
func (s *sqlStore) Payments() PaymentRepository { return &paymentRepository{ext: s.ext} }
func (s *sqlStore) Users() UserRepository       { return &userRepository{ext: s.ext} }
func (s *sqlStore) Options() OptionRepository   { return &optionRepository{ext: s.ext} }

func (s *sqlStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	if s.db == nil {
		return errors.New("store is already transactional")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(&sqlStore{ext: tx}); err != nil {
		return err
	}

	return tx.Commit()
}
