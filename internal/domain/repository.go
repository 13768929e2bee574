package domain

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines access methods for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByExternalID(ctx context.Context, externalID string) (*User, error)
	GetByHandle(ctx context.Context, handle string) (*User, error)
	HandleExists(ctx context.Context, handle string) (bool, error)
	UpdateHandle(ctx context.Context, id uuid.UUID, handle string) error
	SetProfileID(ctx context.Context, id uuid.UUID, profileID uuid.UUID) error
}

// ProfileRepository handles persistence for creator profiles.
type ProfileRepository interface {
	Create(ctx context.Context, profile *Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	GetByOwner(ctx context.Context, ownerUserID uuid.UUID) (*Profile, error)
	Update(ctx context.Context, profile *Profile) error
	List(ctx context.Context, q ProfileQuery) ([]ProfileSummary, int64, error)
}

// PaymentMethodRepository handles the at-most-one payout card per user.
type PaymentMethodRepository interface {
	Create(ctx context.Context, pm *PaymentMethod) error
	GetByOwner(ctx context.Context, ownerUserID uuid.UUID) (*PaymentMethod, error)
	Update(ctx context.Context, pm *PaymentMethod) error
}

// DonationRepository handles the append-only donation ledger.
type DonationRepository interface {
	Create(ctx context.Context, donation *Donation) error
	Aggregates(ctx context.Context, profileID uuid.UUID) (Aggregates, error)
	// AggregatesFor computes totals for a whole page of profiles in one
	// aggregate query, never one query per row.
	AggregatesFor(ctx context.Context, profileIDs []uuid.UUID) (map[uuid.UUID]Aggregates, error)
	List(ctx context.Context, q DonationQuery) ([]DonationEntry, int64, error)
}

// Store bundles the repositories behind one transaction boundary.
// InTx runs fn against a store whose repositories share a single
// transaction; fn returning an error rolls back every write.
type Store interface {
	Users() UserRepository
	Profiles() ProfileRepository
	PaymentMethods() PaymentMethodRepository
	Donations() DonationRepository
	InTx(ctx context.Context, fn func(Store) error) error
}
