package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"server/internal/domain"
)

// DonationService owns the append-only donation ledger: recording
// contributions, exact aggregates and paged listings.
type DonationService struct {
	store        domain.Store
	log          zerolog.Logger
	minAmount    int64
	maxPageSize  int
	storeTimeout time.Duration
}

// NewDonationService creates the ledger service. minAmount is the
// smallest accepted contribution in minor units.
func NewDonationService(store domain.Store, log zerolog.Logger, minAmount int64, maxPageSize int, storeTimeout time.Duration) *DonationService {
	return &DonationService{
		store:        store,
		log:          log,
		minAmount:    minAmount,
		maxPageSize:  maxPageSize,
		storeTimeout: storeTimeout,
	}
}

// Record appends one donation. Checks run in a fixed order: donor
// resolution, recipient resolution, amount threshold, then the
// anti-self-donation rule in both of its forms. Only the donation row
// is written.
func (s *DonationService) Record(ctx context.Context, donorExternalID string, in domain.DonationInput) (*domain.Donation, error) {
	if donorExternalID == "" {
		return nil, domain.ErrUnauthorized
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	donor, err := s.store.Users().GetByExternalID(ctx, donorExternalID)
	if err != nil {
		return nil, err
	}
	recipient, err := s.store.Profiles().GetByID(ctx, in.RecipientProfileID)
	if err != nil {
		return nil, err
	}
	if in.Amount < s.minAmount {
		return nil, &domain.ValidationError{
			Field:   "amount",
			Message: fmt.Sprintf("amount must be at least %d", s.minAmount),
		}
	}
	if donor.ProfileID != nil && *donor.ProfileID == recipient.ID {
		return nil, domain.ErrSelfDonation
	}
	if recipient.OwnerUserID == donor.ID {
		return nil, domain.ErrSelfDonation
	}

	donation := &domain.Donation{
		ID:                 uuid.New(),
		DonorUserID:        donor.ID,
		RecipientProfileID: recipient.ID,
		Amount:             in.Amount,
		Message:            in.Message,
		ContactURL:         in.ContactURL,
	}
	if err := s.store.Donations().Create(ctx, donation); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("donation_id", donation.ID.String()).
		Str("recipient_profile_id", recipient.ID.String()).
		Int64("amount", in.Amount).
		Msg("donation recorded")
	return donation, nil
}

// AggregatesForProfile recomputes a profile's totals from the committed
// ledger rows at call time; the result is never a cached value.
func (s *DonationService) AggregatesForProfile(ctx context.Context, profileID uuid.UUID) (domain.Aggregates, error) {
	ctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()
	return s.store.Donations().Aggregates(ctx, profileID)
}

// DonationPage is one page of ledger entries, newest first.
type DonationPage struct {
	Items      []domain.DonationEntry
	TotalCount int64
	TotalPages int64
	Page       int
	PageSize   int
}

// ListReceived pages the donations received by a profile.
func (s *DonationService) ListReceived(ctx context.Context, profileID uuid.UUID, page, pageSize int, filter string) (*DonationPage, error) {
	return s.list(ctx, domain.DonationQuery{RecipientProfileID: &profileID, Filter: filter}, page, pageSize)
}

// ListSent pages the donations made by a user.
func (s *DonationService) ListSent(ctx context.Context, donorUserID uuid.UUID, page, pageSize int, filter string) (*DonationPage, error) {
	return s.list(ctx, domain.DonationQuery{DonorUserID: &donorUserID, Filter: filter}, page, pageSize)
}

func (s *DonationService) list(ctx context.Context, q domain.DonationQuery, page, pageSize int) (*DonationPage, error) {
	page, pageSize = clampPage(page, pageSize, s.maxPageSize)
	q.Limit = pageSize
	q.Offset = (page - 1) * pageSize

	ctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	items, total, err := s.store.Donations().List(ctx, q)
	if err != nil {
		return nil, err
	}
	return &DonationPage{
		Items:      items,
		TotalCount: total,
		TotalPages: totalPages(total, pageSize),
		Page:       page,
		PageSize:   pageSize,
	}, nil
}
