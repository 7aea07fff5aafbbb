package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"barterly/internal/domain"
)

// Store bundles the item and proposal repositories so they can share one transaction.
type Store struct {
	db        *sqlx.DB
	Items     *ItemRepo
	Proposals *ProposalRepo
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db, Items: NewItemRepo(db), Proposals: NewProposalRepo(db)}
}

// InTx runs fn with repositories bound to a single transaction.
// The transaction commits only if fn returns nil.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err == nil {
			if e := tx.Commit(); e != nil {
				err = fmt.Errorf("commit: %w", e)
			}
		} else {
			_ = tx.Rollback()
		}
		if isSerializationFailure(err) {
			err = fmt.Errorf("%w: concurrent update, retry: %v", domain.ErrConflict, err)
		}
	}()
	return fn(&Store{Items: &ItemRepo{db: tx}, Proposals: &ProposalRepo{db: tx}})
}

// notFound maps sql.ErrNoRows onto the domain sentinel.
func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(liteErr.Error(), "UNIQUE")
	}
	return false
}

// isSerializationFailure reports a postgres deadlock (40P01) or serialization
// failure (40001). Either way the transaction lost a race and was aborted.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40P01" || pgErr.Code == "40001"
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(liteErr.Error(), "FOREIGN KEY")
	}
	return false
}
