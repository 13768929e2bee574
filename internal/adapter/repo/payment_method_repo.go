package repo

import (
	"context"

	"github.com/google/uuid"

	"server/internal/domain"
)

// PaymentMethodRepositoryPG implements domain.PaymentMethodRepository
// backed by PostgreSQL.
type PaymentMethodRepositoryPG struct {
	db DBTX
}

// NewPaymentMethodRepository creates a new PaymentMethodRepositoryPG.
func NewPaymentMethodRepository(db DBTX) *PaymentMethodRepositoryPG {
	return &PaymentMethodRepositoryPG{db: db}
}

// Create inserts the payout card for a user. The unique owner index
// keeps it at most one per user.
func (r *PaymentMethodRepositoryPG) Create(ctx context.Context, pm *domain.PaymentMethod) error {
	row := r.db.QueryRow(ctx, `
INSERT INTO payment_methods (id, owner_user_id, country, first_name, last_name, card_number, expiry)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING created_at, updated_at;
`, pm.ID, pm.OwnerUserID, pm.Country, pm.FirstName, pm.LastName, pm.CardNumber, pm.Expiry)
	if err := row.Scan(&pm.CreatedAt, &pm.UpdatedAt); err != nil {
		return translate("create payment method", err)
	}
	return nil
}

// GetByOwner fetches a user's payout card.
func (r *PaymentMethodRepositoryPG) GetByOwner(ctx context.Context, ownerUserID uuid.UUID) (*domain.PaymentMethod, error) {
	row := r.db.QueryRow(ctx, `
SELECT id, owner_user_id, country, first_name, last_name, card_number, expiry, created_at, updated_at
FROM payment_methods
WHERE owner_user_id = $1;
`, ownerUserID)
	var pm domain.PaymentMethod
	if err := row.Scan(&pm.ID, &pm.OwnerUserID, &pm.Country, &pm.FirstName, &pm.LastName,
		&pm.CardNumber, &pm.Expiry, &pm.CreatedAt, &pm.UpdatedAt); err != nil {
		return nil, translate("get payment method", err)
	}
	return &pm, nil
}

// Update rewrites the complete card field set in place.
func (r *PaymentMethodRepositoryPG) Update(ctx context.Context, pm *domain.PaymentMethod) error {
	tag, err := r.db.Exec(ctx, `
UPDATE payment_methods
SET country = $2, first_name = $3, last_name = $4, card_number = $5, expiry = $6, updated_at = now()
WHERE owner_user_id = $1;
`, pm.OwnerUserID, pm.Country, pm.FirstName, pm.LastName, pm.CardNumber, pm.Expiry)
	if err != nil {
		return translate("update payment method", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
