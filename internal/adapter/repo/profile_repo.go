package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"server/internal/domain"
)

// ProfileRepositoryPG implements domain.ProfileRepository backed by PostgreSQL.
type ProfileRepositoryPG struct {
	db DBTX
}

// NewProfileRepository creates a new ProfileRepositoryPG.
func NewProfileRepository(db DBTX) *ProfileRepositoryPG {
	return &ProfileRepositoryPG{db: db}
}

const profileColumns = `id, owner_user_id, display_name, bio,
	coalesce(avatar_url, ''), coalesce(background_url, ''),
	coalesce(social_url, ''), coalesce(thank_you_message, ''),
	created_at, updated_at`

// Create inserts a new profile row.
func (r *ProfileRepositoryPG) Create(ctx context.Context, profile *domain.Profile) error {
	row := r.db.QueryRow(ctx, `
INSERT INTO profiles (id, owner_user_id, display_name, bio, avatar_url, background_url, social_url, thank_you_message)
VALUES ($1, $2, $3, $4, nullif($5, ''), nullif($6, ''), nullif($7, ''), nullif($8, ''))
RETURNING created_at, updated_at;
`, profile.ID, profile.OwnerUserID, profile.DisplayName, profile.Bio,
		profile.AvatarURL, profile.BackgroundURL, profile.SocialURL, profile.ThankYouMessage)
	if err := row.Scan(&profile.CreatedAt, &profile.UpdatedAt); err != nil {
		return translate("create profile", err)
	}
	return nil
}

// GetByID fetches a profile by id.
func (r *ProfileRepositoryPG) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	row := r.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	return scanProfile(row)
}

// GetByOwner fetches the profile owned by a user.
func (r *ProfileRepositoryPG) GetByOwner(ctx context.Context, ownerUserID uuid.UUID) (*domain.Profile, error) {
	row := r.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE owner_user_id = $1`, ownerUserID)
	return scanProfile(row)
}

// Update rewrites the mutable profile fields.
func (r *ProfileRepositoryPG) Update(ctx context.Context, profile *domain.Profile) error {
	tag, err := r.db.Exec(ctx, `
UPDATE profiles
SET display_name = $2,
    bio = $3,
    avatar_url = nullif($4, ''),
    background_url = nullif($5, ''),
    social_url = nullif($6, ''),
    thank_you_message = nullif($7, ''),
    updated_at = now()
WHERE id = $1;
`, profile.ID, profile.DisplayName, profile.Bio,
		profile.AvatarURL, profile.BackgroundURL, profile.SocialURL, profile.ThankYouMessage)
	if err != nil {
		return translate("update profile", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns one directory page plus the total match count. Totals
// per profile are filled in by the caller from the donation ledger.
func (r *ProfileRepositoryPG) List(ctx context.Context, q domain.ProfileQuery) ([]domain.ProfileSummary, int64, error) {
	const matcher = `($1 = '' OR p.display_name ILIKE '%' || $1 || '%' OR p.bio ILIKE '%' || $1 || '%' OR u.handle ILIKE '%' || $1 || '%')`

	var total int64
	row := r.db.QueryRow(ctx, `
SELECT count(*)
FROM profiles p
JOIN users u ON u.id = p.owner_user_id
WHERE `+matcher+`;
`, q.Search)
	if err := row.Scan(&total); err != nil {
		return nil, 0, translate("count profiles", err)
	}

	rows, err := r.db.Query(ctx, `
SELECT p.id, p.owner_user_id, u.handle, p.display_name, p.bio,
       coalesce(p.avatar_url, ''), coalesce(p.background_url, ''),
       coalesce(p.social_url, ''), coalesce(p.thank_you_message, ''),
       p.created_at
FROM profiles p
JOIN users u ON u.id = p.owner_user_id
WHERE `+matcher+`
ORDER BY p.created_at DESC
LIMIT $2 OFFSET $3;
`, q.Search, q.Limit, q.Offset)
	if err != nil {
		return nil, 0, translate("list profiles", err)
	}
	defer rows.Close()

	var items []domain.ProfileSummary
	for rows.Next() {
		var s domain.ProfileSummary
		if err := rows.Scan(&s.ProfileID, &s.OwnerUserID, &s.Handle, &s.DisplayName, &s.Bio,
			&s.AvatarURL, &s.BackgroundURL, &s.SocialURL, &s.ThankYouMessage, &s.CreatedAt); err != nil {
			return nil, 0, translate("scan profile summary", err)
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, translate("list profiles", err)
	}
	return items, total, nil
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	if err := row.Scan(&p.ID, &p.OwnerUserID, &p.DisplayName, &p.Bio,
		&p.AvatarURL, &p.BackgroundURL, &p.SocialURL, &p.ThankYouMessage,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, translate("scan profile", err)
	}
	return &p, nil
}
