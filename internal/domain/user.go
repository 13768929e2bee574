package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a local account linked to exactly one external identity.
// A user exists without a profile until onboarding completes.
type User struct {
	ID         uuid.UUID
	ExternalID string
	Email      string
	Handle     string
	ProfileID  *uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Onboarded reports whether the user has completed creator onboarding.
func (u User) Onboarded() bool {
	return u.ProfileID != nil
}

// Profile is the public creator page owned by exactly one user.
// Created once by onboarding, mutated only by profile updates.
type Profile struct {
	ID              uuid.UUID
	OwnerUserID     uuid.UUID
	DisplayName     string
	Bio             string
	AvatarURL       string
	BackgroundURL   string
	SocialURL       string
	ThankYouMessage string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PaymentMethod holds the payout card details for a creator.
// At most one exists per user and its fields are written as a complete
// set, never partially.
type PaymentMethod struct {
	ID          uuid.UUID
	OwnerUserID uuid.UUID
	Country     string
	FirstName   string
	LastName    string
	CardNumber  string
	Expiry      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Last4 returns the trailing four digits of the card number for display.
func (p PaymentMethod) Last4() string {
	if len(p.CardNumber) < 4 {
		return p.CardNumber
	}
	return p.CardNumber[len(p.CardNumber)-4:]
}

// ProfileSummary is the directory read model: profile fields joined with
// the owning handle plus ledger-derived totals.
type ProfileSummary struct {
	ProfileID       uuid.UUID
	OwnerUserID     uuid.UUID
	Handle          string
	DisplayName     string
	Bio             string
	AvatarURL       string
	BackgroundURL   string
	SocialURL       string
	ThankYouMessage string
	TotalEarnings   int64
	TotalDonations  int64
	CreatedAt       time.Time
}
