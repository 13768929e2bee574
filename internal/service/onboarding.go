package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/identity"
)

// OnboardingService runs the one-shot transition from registered user
// to onboarded creator: handle arbitration, profile creation, the
// optional payout card and the profile back-link commit together or not
// at all.
type OnboardingService struct {
	store        domain.Store
	identities   *IdentityService
	provider     identity.Provider
	log          zerolog.Logger
	storeTimeout time.Duration
}

// NewOnboardingService creates the onboarding workflow.
func NewOnboardingService(store domain.Store, identities *IdentityService, provider identity.Provider, log zerolog.Logger, storeTimeout time.Duration) *OnboardingService {
	return &OnboardingService{
		store:        store,
		identities:   identities,
		provider:     provider,
		log:          log,
		storeTimeout: storeTimeout,
	}
}

// WorkflowResult is returned by onboarding and profile updates. Warning
// carries non-fatal provider propagation failures; local state is
// committed and authoritative whenever err is nil.
type WorkflowResult struct {
	User    *domain.User
	Profile *domain.Profile
	Warning string
}

// CompleteOnboarding validates the input, ensures the local user exists
// for ident, and atomically creates the profile (plus optional card)
// behind the storage-level handle constraint. Provider propagation runs
// after commit and never rolls local state back.
func (s *OnboardingService) CompleteOnboarding(ctx context.Context, ident identity.Identity, in domain.OnboardingInput) (*WorkflowResult, error) {
	if ident.ExternalID == "" {
		return nil, domain.ErrUnauthorized
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	user, err := s.identities.EnsureUser(ctx, ident)
	if err != nil {
		return nil, err
	}
	if user.Onboarded() {
		return nil, domain.ErrAlreadyOnboarded
	}

	txCtx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	profile := &domain.Profile{
		ID:              uuid.New(),
		OwnerUserID:     user.ID,
		DisplayName:     in.Profile.DisplayName,
		Bio:             in.Profile.Bio,
		AvatarURL:       in.Profile.AvatarURL,
		BackgroundURL:   in.Profile.BackgroundURL,
		SocialURL:       in.Profile.SocialURL,
		ThankYouMessage: in.Profile.ThankYouMessage,
	}

	err = s.store.InTx(txCtx, func(tx domain.Store) error {
		if in.Handle != user.Handle {
			// The unique index is the final arbiter; a violation at
			// commit surfaces as ErrHandleTaken, never a raw error.
			if err := tx.Users().UpdateHandle(txCtx, user.ID, in.Handle); err != nil {
				return err
			}
		}
		if err := tx.Profiles().Create(txCtx, profile); err != nil {
			return err
		}
		if in.Card != nil {
			pm := cardToPaymentMethod(user.ID, *in.Card)
			if err := tx.PaymentMethods().Create(txCtx, pm); err != nil {
				return err
			}
		}
		return tx.Users().SetProfileID(txCtx, user.ID, profile.ID)
	})
	if err != nil {
		return nil, err
	}
	user.Handle = in.Handle
	user.ProfileID = &profile.ID

	s.log.Info().
		Str("user_id", user.ID.String()).
		Str("profile_id", profile.ID.String()).
		Str("handle", user.Handle).
		Msg("onboarding complete")

	res := &WorkflowResult{User: user, Profile: profile}
	res.Warning = propagate(ctx, s.provider, s.log, ident.ExternalID, identity.Metadata{
		OnboardingComplete: true,
		ProfileID:          profile.ID.String(),
		DisplayName:        profile.DisplayName,
		Handle:             user.Handle,
	}, identity.Update{
		Handle:    user.Handle,
		FirstName: ident.FirstName,
		LastName:  ident.LastName,
	}, in.Profile.AvatarURL)
	return res, nil
}

func cardToPaymentMethod(ownerUserID uuid.UUID, card domain.CardInput) *domain.PaymentMethod {
	return &domain.PaymentMethod{
		ID:          uuid.New(),
		OwnerUserID: ownerUserID,
		Country:     card.Country,
		FirstName:   card.FirstName,
		LastName:    card.LastName,
		CardNumber:  card.CardNumber,
		Expiry:      card.Expiry(),
	}
}

// propagate mirrors committed state onto the identity provider. It runs
// outside the transaction boundary: failures are logged and reported as
// a warning on an otherwise successful result.
func propagate(ctx context.Context, provider identity.Provider, log zerolog.Logger, externalID string, md identity.Metadata, up identity.Update, avatarURL string) string {
	if provider == nil {
		return ""
	}
	var warnings []string
	warn := func(step string, err error) {
		log.Warn().Err(err).Str("external_id", externalID).Str("step", step).
			Msg("identity provider propagation failed")
		warnings = append(warnings, step+" not propagated")
	}

	if err := provider.SetMetadata(ctx, externalID, md); err != nil {
		warn("metadata", err)
	}
	if err := provider.UpdateAccount(ctx, externalID, up); err != nil {
		warn("account", err)
	}
	if avatarURL != "" {
		img, err := identity.FetchAvatar(ctx, avatarURL)
		if err == nil {
			err = provider.SetProfileImage(ctx, externalID, img)
		}
		if err != nil {
			warn("avatar", err)
		}
	}
	return strings.Join(warnings, "; ")
}
