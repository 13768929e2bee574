package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// DBTX is the query surface shared by *pgxpool.Pool and pgx.Tx, so the
// same repository code runs inside and outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements domain.Store backed by PostgreSQL.
type Store struct {
	db   DBTX
	pool *pgxpool.Pool
}

// NewStore creates a store over a pgx connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{db: pool, pool: pool}
}

func (s *Store) Users() domain.UserRepository                   { return &UserRepositoryPG{db: s.db} }
func (s *Store) Profiles() domain.ProfileRepository             { return &ProfileRepositoryPG{db: s.db} }
func (s *Store) PaymentMethods() domain.PaymentMethodRepository { return &PaymentMethodRepositoryPG{db: s.db} }
func (s *Store) Donations() domain.DonationRepository           { return &DonationRepositoryPG{db: s.db} }

// InTx runs fn against a store bound to a single transaction. Any error
// from fn rolls back every write; context cancellation aborts the
// in-flight transaction with full rollback.
func (s *Store) InTx(ctx context.Context, fn func(domain.Store) error) error {
	if s.pool == nil {
		// Already inside a transaction; join it.
		return fn(s)
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return translate("begin tx", err)
	}
	if err := fn(&Store{db: tx}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		_ = tx.Rollback(ctx)
		return translate("commit tx", err)
	}
	return nil
}

var _ domain.Store = (*Store)(nil)

// Constraint names from cmd/migrate; unique violations on them carry
// workflow meaning and are reclassified instead of surfacing raw.
const (
	constraintHandle     = "users_handle_lower_idx"
	constraintExternalID = "users_external_id_key"
)

// translate maps storage errors onto the domain taxonomy: missing rows,
// expired deadlines and meaningful unique violations never leak as raw
// pgx errors.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, domain.ErrStorageUnavailable)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case constraintHandle:
			return domain.ErrHandleTaken
		case constraintExternalID:
			return domain.ErrDuplicateIdentity
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
