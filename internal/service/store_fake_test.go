package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"server/internal/domain"
)

// memStore is an in-memory domain.Store used by the service tests. It
// enforces the same uniqueness rules as the real schema and snapshots
// state around InTx so rollbacks behave like a transaction.
type memStore struct {
	// txMu serializes whole transactions so the snapshot/restore in
	// InTx behaves as a unit under concurrent callers.
	txMu sync.Mutex

	mu           sync.Mutex
	users        map[uuid.UUID]*domain.User
	profiles     map[uuid.UUID]*domain.Profile
	profileOrder []uuid.UUID
	cards        map[uuid.UUID]*domain.PaymentMethod
	donations    []*domain.Donation

	// failUserCreate is consumed by the next Users().Create call.
	failUserCreate error
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[uuid.UUID]*domain.User),
		profiles: make(map[uuid.UUID]*domain.Profile),
		cards:    make(map[uuid.UUID]*domain.PaymentMethod),
	}
}

func (m *memStore) Users() domain.UserRepository                   { return memUsers{m} }
func (m *memStore) Profiles() domain.ProfileRepository             { return memProfiles{m} }
func (m *memStore) PaymentMethods() domain.PaymentMethodRepository { return memCards{m} }
func (m *memStore) Donations() domain.DonationRepository           { return memDonations{m} }

func (m *memStore) InTx(ctx context.Context, fn func(domain.Store) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	users := cloneMap(m.users)
	profiles := cloneMap(m.profiles)
	order := append([]uuid.UUID(nil), m.profileOrder...)
	cards := cloneMap(m.cards)
	donations := append([]*domain.Donation(nil), m.donations...)
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.users = users
		m.profiles = profiles
		m.profileOrder = order
		m.cards = cards
		m.donations = donations
		m.mu.Unlock()
		return err
	}
	return nil
}

func cloneMap[V any](src map[uuid.UUID]*V) map[uuid.UUID]*V {
	dst := make(map[uuid.UUID]*V, len(src))
	for k, v := range src {
		copied := *v
		dst[k] = &copied
	}
	return dst
}

type memUsers struct{ m *memStore }

func (r memUsers) Create(ctx context.Context, user *domain.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.failUserCreate; err != nil {
		r.m.failUserCreate = nil
		return err
	}
	for _, u := range r.m.users {
		if u.ExternalID == user.ExternalID {
			return domain.ErrDuplicateIdentity
		}
		if strings.EqualFold(u.Handle, user.Handle) {
			return domain.ErrHandleTaken
		}
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	r.m.users[user.ID] = &copied
	return nil
}

func (r memUsers) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if u, ok := r.m.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (r memUsers) GetByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.ExternalID == externalID {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r memUsers) GetByHandle(ctx context.Context, handle string) (*domain.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if strings.EqualFold(u.Handle, handle) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r memUsers) HandleExists(ctx context.Context, handle string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if strings.EqualFold(u.Handle, handle) {
			return true, nil
		}
	}
	return false, nil
}

func (r memUsers) UpdateHandle(ctx context.Context, id uuid.UUID, handle string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.ID != id && strings.EqualFold(u.Handle, handle) {
			return domain.ErrHandleTaken
		}
	}
	u, ok := r.m.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Handle = handle
	u.UpdatedAt = time.Now()
	return nil
}

func (r memUsers) SetProfileID(ctx context.Context, id uuid.UUID, profileID uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.ProfileID = &profileID
	u.UpdatedAt = time.Now()
	return nil
}

type memProfiles struct{ m *memStore }

func (r memProfiles) Create(ctx context.Context, profile *domain.Profile) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = profile.CreatedAt
	copied := *profile
	r.m.profiles[profile.ID] = &copied
	r.m.profileOrder = append(r.m.profileOrder, profile.ID)
	return nil
}

func (r memProfiles) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if p, ok := r.m.profiles[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (r memProfiles) GetByOwner(ctx context.Context, ownerUserID uuid.UUID) (*domain.Profile, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, p := range r.m.profiles {
		if p.OwnerUserID == ownerUserID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r memProfiles) Update(ctx context.Context, profile *domain.Profile) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.profiles[profile.ID]; !ok {
		return domain.ErrNotFound
	}
	copied := *profile
	copied.UpdatedAt = time.Now()
	r.m.profiles[profile.ID] = &copied
	return nil
}

func (r memProfiles) List(ctx context.Context, q domain.ProfileQuery) ([]domain.ProfileSummary, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	var matched []domain.ProfileSummary
	// Newest first, like the real query.
	for i := len(r.m.profileOrder) - 1; i >= 0; i-- {
		p := r.m.profiles[r.m.profileOrder[i]]
		owner := r.m.users[p.OwnerUserID]
		if q.Search != "" &&
			!containsFold(p.DisplayName, q.Search) &&
			!containsFold(p.Bio, q.Search) &&
			!containsFold(owner.Handle, q.Search) {
			continue
		}
		matched = append(matched, domain.ProfileSummary{
			ProfileID:       p.ID,
			OwnerUserID:     p.OwnerUserID,
			Handle:          owner.Handle,
			DisplayName:     p.DisplayName,
			Bio:             p.Bio,
			AvatarURL:       p.AvatarURL,
			BackgroundURL:   p.BackgroundURL,
			SocialURL:       p.SocialURL,
			ThankYouMessage: p.ThankYouMessage,
			CreatedAt:       p.CreatedAt,
		})
	}
	total := int64(len(matched))
	if q.Offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[q.Offset:]
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, total, nil
}

type memCards struct{ m *memStore }

func (r memCards) Create(ctx context.Context, pm *domain.PaymentMethod) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	pm.CreatedAt = time.Now()
	pm.UpdatedAt = pm.CreatedAt
	copied := *pm
	r.m.cards[pm.OwnerUserID] = &copied
	return nil
}

func (r memCards) GetByOwner(ctx context.Context, ownerUserID uuid.UUID) (*domain.PaymentMethod, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if pm, ok := r.m.cards[ownerUserID]; ok {
		copied := *pm
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (r memCards) Update(ctx context.Context, pm *domain.PaymentMethod) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.cards[pm.OwnerUserID]; !ok {
		return domain.ErrNotFound
	}
	copied := *pm
	copied.UpdatedAt = time.Now()
	r.m.cards[pm.OwnerUserID] = &copied
	return nil
}

type memDonations struct{ m *memStore }

func (r memDonations) Create(ctx context.Context, donation *domain.Donation) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	donation.CreatedAt = time.Now()
	copied := *donation
	r.m.donations = append(r.m.donations, &copied)
	return nil
}

func (r memDonations) Aggregates(ctx context.Context, profileID uuid.UUID) (domain.Aggregates, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var agg domain.Aggregates
	for _, d := range r.m.donations {
		if d.RecipientProfileID == profileID {
			agg.TotalEarnings += d.Amount
			agg.TotalCount++
		}
	}
	return agg, nil
}

func (r memDonations) AggregatesFor(ctx context.Context, profileIDs []uuid.UUID) (map[uuid.UUID]domain.Aggregates, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	wanted := make(map[uuid.UUID]bool, len(profileIDs))
	for _, id := range profileIDs {
		wanted[id] = true
	}
	out := make(map[uuid.UUID]domain.Aggregates)
	for _, d := range r.m.donations {
		if !wanted[d.RecipientProfileID] {
			continue
		}
		agg := out[d.RecipientProfileID]
		agg.TotalEarnings += d.Amount
		agg.TotalCount++
		out[d.RecipientProfileID] = agg
	}
	return out, nil
}

func (r memDonations) List(ctx context.Context, q domain.DonationQuery) ([]domain.DonationEntry, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	var matched []domain.DonationEntry
	for i := len(r.m.donations) - 1; i >= 0; i-- {
		d := r.m.donations[i]
		var entry domain.DonationEntry
		entry.Donation = *d
		switch {
		case q.RecipientProfileID != nil:
			if d.RecipientProfileID != *q.RecipientProfileID {
				continue
			}
			donor := r.m.users[d.DonorUserID]
			entry.CounterpartHandle = donor.Handle
			for _, p := range r.m.profiles {
				if p.OwnerUserID == donor.ID {
					entry.CounterpartName = p.DisplayName
					entry.CounterpartAvatarURL = p.AvatarURL
				}
			}
		case q.DonorUserID != nil:
			if d.DonorUserID != *q.DonorUserID {
				continue
			}
			recipient := r.m.profiles[d.RecipientProfileID]
			entry.CounterpartName = recipient.DisplayName
			entry.CounterpartAvatarURL = recipient.AvatarURL
			if owner, ok := r.m.users[recipient.OwnerUserID]; ok {
				entry.CounterpartHandle = owner.Handle
			}
		}
		if q.Filter != "" &&
			!containsFold(entry.Message, q.Filter) &&
			!containsFold(entry.ContactURL, q.Filter) &&
			!containsFold(entry.CounterpartHandle, q.Filter) &&
			!containsFold(entry.CounterpartName, q.Filter) {
			continue
		}
		matched = append(matched, entry)
	}
	total := int64(len(matched))
	if q.Offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[q.Offset:]
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, total, nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
