package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"server/internal/domain"
)

// DonationRepositoryPG implements domain.DonationRepository backed by
// PostgreSQL. The ledger is append only: there is no update or delete.
type DonationRepositoryPG struct {
	db DBTX
}

// NewDonationRepository creates a new donation repo.
func NewDonationRepository(db DBTX) *DonationRepositoryPG {
	return &DonationRepositoryPG{db: db}
}

// Create appends a donation record.
func (r *DonationRepositoryPG) Create(ctx context.Context, donation *domain.Donation) error {
	row := r.db.QueryRow(ctx, `
INSERT INTO donations (id, donor_user_id, recipient_profile_id, amount, message, donor_contact_url)
VALUES ($1, $2, $3, $4, nullif($5, ''), nullif($6, ''))
RETURNING created_at;
`, donation.ID, donation.DonorUserID, donation.RecipientProfileID,
		donation.Amount, donation.Message, donation.ContactURL)
	if err := row.Scan(&donation.CreatedAt); err != nil {
		return translate("create donation", err)
	}
	return nil
}

// Aggregates recomputes a profile's totals from committed rows.
func (r *DonationRepositoryPG) Aggregates(ctx context.Context, profileID uuid.UUID) (domain.Aggregates, error) {
	row := r.db.QueryRow(ctx, `
SELECT coalesce(sum(amount), 0), count(*)
FROM donations
WHERE recipient_profile_id = $1;
`, profileID)
	var agg domain.Aggregates
	if err := row.Scan(&agg.TotalEarnings, &agg.TotalCount); err != nil {
		return domain.Aggregates{}, translate("aggregate donations", err)
	}
	return agg, nil
}

// AggregatesFor computes totals for a whole page of profiles in a
// single grouped query. Profiles without donations are absent from the
// result map.
func (r *DonationRepositoryPG) AggregatesFor(ctx context.Context, profileIDs []uuid.UUID) (map[uuid.UUID]domain.Aggregates, error) {
	out := make(map[uuid.UUID]domain.Aggregates, len(profileIDs))
	if len(profileIDs) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx, `
SELECT recipient_profile_id, coalesce(sum(amount), 0), count(*)
FROM donations
WHERE recipient_profile_id = ANY($1)
GROUP BY recipient_profile_id;
`, profileIDs)
	if err != nil {
		return nil, translate("aggregate donations page", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id uuid.UUID
		var agg domain.Aggregates
		if err := rows.Scan(&id, &agg.TotalEarnings, &agg.TotalCount); err != nil {
			return nil, translate("scan donation aggregate", err)
		}
		out[id] = agg
	}
	if err := rows.Err(); err != nil {
		return nil, translate("aggregate donations page", err)
	}
	return out, nil
}

const (
	receivedMatcher = `($2 = '' OR coalesce(d.message, '') ILIKE '%' || $2 || '%'
	OR coalesce(d.donor_contact_url, '') ILIKE '%' || $2 || '%'
	OR u.handle ILIKE '%' || $2 || '%'
	OR coalesce(dp.display_name, '') ILIKE '%' || $2 || '%')`

	sentMatcher = `($2 = '' OR coalesce(d.message, '') ILIKE '%' || $2 || '%'
	OR coalesce(d.donor_contact_url, '') ILIKE '%' || $2 || '%'
	OR ru.handle ILIKE '%' || $2 || '%'
	OR rp.display_name ILIKE '%' || $2 || '%')`
)

// List returns one ledger page, newest first, plus the total match
// count. Exactly one selector side must be set: recipient profile for
// received listings, donor user for sent listings.
func (r *DonationRepositoryPG) List(ctx context.Context, q domain.DonationQuery) ([]domain.DonationEntry, int64, error) {
	switch {
	case q.RecipientProfileID != nil && q.DonorUserID == nil:
		return r.listReceived(ctx, q)
	case q.DonorUserID != nil && q.RecipientProfileID == nil:
		return r.listSent(ctx, q)
	default:
		return nil, 0, errors.New("donation query: exactly one selector required")
	}
}

func (r *DonationRepositoryPG) listReceived(ctx context.Context, q domain.DonationQuery) ([]domain.DonationEntry, int64, error) {
	var total int64
	row := r.db.QueryRow(ctx, `
SELECT count(*)
FROM donations d
JOIN users u ON u.id = d.donor_user_id
LEFT JOIN profiles dp ON dp.owner_user_id = u.id
WHERE d.recipient_profile_id = $1 AND `+receivedMatcher+`;
`, q.RecipientProfileID, q.Filter)
	if err := row.Scan(&total); err != nil {
		return nil, 0, translate("count received donations", err)
	}

	rows, err := r.db.Query(ctx, `
SELECT d.id, d.donor_user_id, d.recipient_profile_id, d.amount,
       coalesce(d.message, ''), coalesce(d.donor_contact_url, ''), d.created_at,
       u.handle, coalesce(dp.display_name, ''), coalesce(dp.avatar_url, '')
FROM donations d
JOIN users u ON u.id = d.donor_user_id
LEFT JOIN profiles dp ON dp.owner_user_id = u.id
WHERE d.recipient_profile_id = $1 AND `+receivedMatcher+`
ORDER BY d.created_at DESC
LIMIT $3 OFFSET $4;
`, q.RecipientProfileID, q.Filter, q.Limit, q.Offset)
	if err != nil {
		return nil, 0, translate("list received donations", err)
	}
	return scanEntries(rows, total)
}

func (r *DonationRepositoryPG) listSent(ctx context.Context, q domain.DonationQuery) ([]domain.DonationEntry, int64, error) {
	var total int64
	row := r.db.QueryRow(ctx, `
SELECT count(*)
FROM donations d
JOIN profiles rp ON rp.id = d.recipient_profile_id
JOIN users ru ON ru.id = rp.owner_user_id
WHERE d.donor_user_id = $1 AND `+sentMatcher+`;
`, q.DonorUserID, q.Filter)
	if err := row.Scan(&total); err != nil {
		return nil, 0, translate("count sent donations", err)
	}

	rows, err := r.db.Query(ctx, `
SELECT d.id, d.donor_user_id, d.recipient_profile_id, d.amount,
       coalesce(d.message, ''), coalesce(d.donor_contact_url, ''), d.created_at,
       ru.handle, rp.display_name, coalesce(rp.avatar_url, '')
FROM donations d
JOIN profiles rp ON rp.id = d.recipient_profile_id
JOIN users ru ON ru.id = rp.owner_user_id
WHERE d.donor_user_id = $1 AND `+sentMatcher+`
ORDER BY d.created_at DESC
LIMIT $3 OFFSET $4;
`, q.DonorUserID, q.Filter, q.Limit, q.Offset)
	if err != nil {
		return nil, 0, translate("list sent donations", err)
	}
	return scanEntries(rows, total)
}

func scanEntries(rows pgx.Rows, total int64) ([]domain.DonationEntry, int64, error) {
	defer rows.Close()
	var items []domain.DonationEntry
	for rows.Next() {
		var e domain.DonationEntry
		if err := rows.Scan(&e.ID, &e.DonorUserID, &e.RecipientProfileID, &e.Amount,
			&e.Message, &e.ContactURL, &e.CreatedAt,
			&e.CounterpartHandle, &e.CounterpartName, &e.CounterpartAvatarURL); err != nil {
			return nil, 0, translate("scan donation entry", err)
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, translate("list donations", err)
	}
	return items, total, nil
}
