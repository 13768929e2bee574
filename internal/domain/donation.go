package domain

import (
	"time"

	"github.com/google/uuid"
)

// Donation is a single supporter contribution. The ledger is append
// only: donations are never updated or deleted.
type Donation struct {
	ID                 uuid.UUID
	DonorUserID        uuid.UUID
	RecipientProfileID uuid.UUID
	Amount             int64
	Message            string
	ContactURL         string
	CreatedAt          time.Time
}

// Aggregates are ledger totals recomputed from committed donation rows
// at read time.
type Aggregates struct {
	TotalEarnings int64
	TotalCount    int64
}

// DonationEntry is a ledger row joined with the counterpart of the
// listing direction: the donor for received listings, the recipient
// profile for sent listings.
type DonationEntry struct {
	Donation
	CounterpartHandle    string
	CounterpartName      string
	CounterpartAvatarURL string
}

// DonationQuery selects ledger rows by exactly one side of the donation
// plus optional case-insensitive text filtering.
type DonationQuery struct {
	RecipientProfileID *uuid.UUID
	DonorUserID        *uuid.UUID
	Filter             string
	Limit              int
	Offset             int
}

// ProfileQuery selects directory rows with optional search text matched
// against display name, bio and owning handle.
type ProfileQuery struct {
	Search string
	Limit  int
	Offset int
}
