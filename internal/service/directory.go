package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"server/internal/domain"
)

// DirectoryService serves the public read model: paginated, searchable
// profile summaries with ledger-derived totals.
type DirectoryService struct {
	store        domain.Store
	log          zerolog.Logger
	maxPageSize  int
	storeTimeout time.Duration
}

// NewDirectoryService creates the directory read model.
func NewDirectoryService(store domain.Store, log zerolog.Logger, maxPageSize int, storeTimeout time.Duration) *DirectoryService {
	return &DirectoryService{store: store, log: log, maxPageSize: maxPageSize, storeTimeout: storeTimeout}
}

// DirectoryPage is one page of public profile summaries.
type DirectoryPage struct {
	Items      []domain.ProfileSummary
	TotalCount int64
	TotalPages int64
	Page       int
	PageSize   int
}

// ListProfiles pages the directory. Totals for the whole page come from
// one batched ledger aggregate, never one query per row.
func (s *DirectoryService) ListProfiles(ctx context.Context, page, pageSize int, search string) (*DirectoryPage, error) {
	page, pageSize = clampPage(page, pageSize, s.maxPageSize)

	ctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	items, total, err := s.store.Profiles().List(ctx, domain.ProfileQuery{
		Search: search,
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
	if err != nil {
		return nil, err
	}
	if err := s.fillTotals(ctx, items); err != nil {
		return nil, err
	}
	return &DirectoryPage{
		Items:      items,
		TotalCount: total,
		TotalPages: totalPages(total, pageSize),
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// GetByHandle resolves a public profile by its owner's handle.
func (s *DirectoryService) GetByHandle(ctx context.Context, handle string) (*domain.ProfileSummary, error) {
	ctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	user, err := s.store.Users().GetByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	if !user.Onboarded() {
		return nil, domain.ErrNotFound
	}
	profile, err := s.store.Profiles().GetByID(ctx, *user.ProfileID)
	if err != nil {
		return nil, err
	}
	agg, err := s.store.Donations().Aggregates(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	return &domain.ProfileSummary{
		ProfileID:       profile.ID,
		OwnerUserID:     user.ID,
		Handle:          user.Handle,
		DisplayName:     profile.DisplayName,
		Bio:             profile.Bio,
		AvatarURL:       profile.AvatarURL,
		BackgroundURL:   profile.BackgroundURL,
		SocialURL:       profile.SocialURL,
		ThankYouMessage: profile.ThankYouMessage,
		TotalEarnings:   agg.TotalEarnings,
		TotalDonations:  agg.TotalCount,
		CreatedAt:       profile.CreatedAt,
	}, nil
}

func (s *DirectoryService) fillTotals(ctx context.Context, items []domain.ProfileSummary) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(items))
	for i := range items {
		ids[i] = items[i].ProfileID
	}
	aggs, err := s.store.Donations().AggregatesFor(ctx, ids)
	if err != nil {
		return err
	}
	for i := range items {
		if agg, ok := aggs[items[i].ProfileID]; ok {
			items[i].TotalEarnings = agg.TotalEarnings
			items[i].TotalDonations = agg.TotalCount
		}
	}
	return nil
}
