package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"server/internal/domain"
)

// UserRepositoryPG implements domain.UserRepository backed by PostgreSQL.
type UserRepositoryPG struct {
	db DBTX
}

// NewUserRepository creates a new UserRepositoryPG.
func NewUserRepository(db DBTX) *UserRepositoryPG {
	return &UserRepositoryPG{db: db}
}

const userColumns = `id, external_id, email, handle, profile_id, created_at, updated_at`

// Create inserts a new user row. A concurrent insert for the same
// external identity surfaces as ErrDuplicateIdentity; a handle clash as
// ErrHandleTaken.
func (r *UserRepositoryPG) Create(ctx context.Context, user *domain.User) error {
	row := r.db.QueryRow(ctx, `
INSERT INTO users (id, external_id, email, handle)
VALUES ($1, $2, $3, $4)
RETURNING created_at, updated_at;
`, user.ID, user.ExternalID, user.Email, user.Handle)
	if err := row.Scan(&user.CreatedAt, &user.UpdatedAt); err != nil {
		return translate("create user", err)
	}
	return nil
}

// GetByID fetches a user by surrogate id.
func (r *UserRepositoryPG) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByExternalID fetches the user linked to an external identity.
func (r *UserRepositoryPG) GetByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE external_id = $1`, externalID)
	return scanUser(row)
}

// GetByHandle fetches a user by handle, case-insensitively.
func (r *UserRepositoryPG) GetByHandle(ctx context.Context, handle string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(handle) = lower($1)`, handle)
	return scanUser(row)
}

// HandleExists reports whether any user already holds the handle,
// ignoring case. The unique index remains the final arbiter; this is
// only the pre-check feeding the deterministic suffix.
func (r *UserRepositoryPG) HandleExists(ctx context.Context, handle string) (bool, error) {
	row := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE lower(handle) = lower($1))`, handle)
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, translate("handle exists", err)
	}
	return exists, nil
}

// UpdateHandle changes a user's handle; a clash with another user's
// handle surfaces as ErrHandleTaken.
func (r *UserRepositoryPG) UpdateHandle(ctx context.Context, id uuid.UUID, handle string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET handle = $2, updated_at = now() WHERE id = $1`, id, handle)
	if err != nil {
		return translate("update handle", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetProfileID links a created profile back onto its owner.
func (r *UserRepositoryPG) SetProfileID(ctx context.Context, id uuid.UUID, profileID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET profile_id = $2, updated_at = now() WHERE id = $1`, id, profileID)
	if err != nil {
		return translate("set profile id", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.ExternalID, &u.Email, &u.Handle, &u.ProfileID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, translate("scan user", err)
	}
	return &u, nil
}
