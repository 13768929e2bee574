package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/identity"
)

// ProfileService mutates already-onboarded accounts: profile fields,
// handle changes and the upsert-by-owner payout card, all inside one
// transaction. It also serves the private account view.
type ProfileService struct {
	store        domain.Store
	provider     identity.Provider
	log          zerolog.Logger
	storeTimeout time.Duration
}

// NewProfileService creates the profile-update workflow.
func NewProfileService(store domain.Store, provider identity.Provider, log zerolog.Logger, storeTimeout time.Duration) *ProfileService {
	return &ProfileService{store: store, provider: provider, log: log, storeTimeout: storeTimeout}
}

// UpdateProfile applies in to the caller's profile. Requires a user
// that has completed onboarding. When the submitted handle equals the
// current one, uniqueness arbitration is skipped entirely.
func (s *ProfileService) UpdateProfile(ctx context.Context, ident identity.Identity, in domain.OnboardingInput) (*WorkflowResult, error) {
	if ident.ExternalID == "" {
		return nil, domain.ErrUnauthorized
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	txCtx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	user, err := s.store.Users().GetByExternalID(txCtx, ident.ExternalID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNotOnboarded
	}
	if err != nil {
		return nil, err
	}
	if !user.Onboarded() {
		return nil, domain.ErrNotOnboarded
	}
	profile, err := s.store.Profiles().GetByID(txCtx, *user.ProfileID)
	if err != nil {
		return nil, err
	}

	handleChanged := in.Handle != user.Handle
	profile.DisplayName = in.Profile.DisplayName
	profile.Bio = in.Profile.Bio
	profile.BackgroundURL = in.Profile.BackgroundURL
	profile.SocialURL = in.Profile.SocialURL
	profile.ThankYouMessage = in.Profile.ThankYouMessage
	if in.Profile.AvatarURL != "" {
		// An absent avatar keeps the stored one.
		profile.AvatarURL = in.Profile.AvatarURL
	}

	err = s.store.InTx(txCtx, func(tx domain.Store) error {
		if handleChanged {
			if err := tx.Users().UpdateHandle(txCtx, user.ID, in.Handle); err != nil {
				return err
			}
		}
		if err := tx.Profiles().Update(txCtx, profile); err != nil {
			return err
		}
		if in.Card != nil {
			return upsertCard(txCtx, tx, user.ID, *in.Card)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	user.Handle = in.Handle

	s.log.Info().
		Str("user_id", user.ID.String()).
		Str("profile_id", profile.ID.String()).
		Msg("profile updated")

	res := &WorkflowResult{User: user, Profile: profile}
	up := identity.Update{}
	if handleChanged {
		up.Handle = in.Handle
	}
	res.Warning = propagate(ctx, s.provider, s.log, ident.ExternalID, identity.Metadata{
		OnboardingComplete: true,
		ProfileID:          profile.ID.String(),
		DisplayName:        profile.DisplayName,
		Handle:             user.Handle,
	}, up, in.Profile.AvatarURL)
	return res, nil
}

// upsertCard keeps at most one payout card per user: create when
// absent, otherwise rewrite the complete field set in place.
func upsertCard(ctx context.Context, tx domain.Store, ownerUserID uuid.UUID, card domain.CardInput) error {
	existing, err := tx.PaymentMethods().GetByOwner(ctx, ownerUserID)
	if errors.Is(err, domain.ErrNotFound) {
		return tx.PaymentMethods().Create(ctx, cardToPaymentMethod(ownerUserID, card))
	}
	if err != nil {
		return err
	}
	existing.Country = card.Country
	existing.FirstName = card.FirstName
	existing.LastName = card.LastName
	existing.CardNumber = card.CardNumber
	existing.Expiry = card.Expiry()
	return tx.PaymentMethods().Update(ctx, existing)
}

// MaskedPaymentMethod is the account-page view of a payout card: the
// raw number never leaves the store, only its last four digits.
type MaskedPaymentMethod struct {
	ID        uuid.UUID
	Country   string
	FirstName string
	LastName  string
	CardLast4 string
	Expiry    string
}

// Account is the private view of the caller's own state.
type Account struct {
	User          *domain.User
	Profile       *domain.Profile
	PaymentMethod *MaskedPaymentMethod
}

// GetAccount returns the caller's user row with profile and masked
// card. Profile and card are nil when not yet created.
func (s *ProfileService) GetAccount(ctx context.Context, externalID string) (*Account, error) {
	if externalID == "" {
		return nil, domain.ErrUnauthorized
	}
	ctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	user, err := s.store.Users().GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	acc := &Account{User: user}
	if user.ProfileID != nil {
		if acc.Profile, err = s.store.Profiles().GetByID(ctx, *user.ProfileID); err != nil {
			return nil, err
		}
	}
	pm, err := s.store.PaymentMethods().GetByOwner(ctx, user.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if pm != nil {
		acc.PaymentMethod = &MaskedPaymentMethod{
			ID:        pm.ID,
			Country:   pm.Country,
			FirstName: pm.FirstName,
			LastName:  pm.LastName,
			CardLast4: pm.Last4(),
			Expiry:    pm.Expiry,
		}
	}
	return acc, nil
}
