package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/identity"
)

func testDonationService(store domain.Store) *DonationService {
	return NewDonationService(store, zerolog.Nop(), 100, 50, 5*time.Second)
}

// registerSupporter creates a user that never onboarded.
func registerSupporter(t *testing.T, store *memStore, externalID, email, handle string) *domain.User {
	t.Helper()
	user, err := NewIdentityService(store, zerolog.Nop(), 5*time.Second).EnsureUser(context.Background(),
		identity.Identity{ExternalID: externalID, Email: email, Handle: handle})
	if err != nil {
		t.Fatalf("EnsureUser(%s) error = %v", externalID, err)
	}
	return user
}

func TestRecordAndAggregate(t *testing.T) {
	store := newMemStore()
	creator := onboardCreator(t, store, "ext-creator", "alex@example.com", "alexd")
	registerSupporter(t, store, "ext-fan", "fan@example.com", "superfan")
	svc := testDonationService(store)

	for _, amount := range []int64{500, 300} {
		if _, err := svc.Record(context.Background(), "ext-fan", domain.DonationInput{
			RecipientProfileID: creator.Profile.ID,
			Amount:             amount,
			Message:            "keep going",
		}); err != nil {
			t.Fatalf("Record(%d) error = %v", amount, err)
		}
	}

	agg, err := svc.AggregatesForProfile(context.Background(), creator.Profile.ID)
	if err != nil {
		t.Fatalf("AggregatesForProfile() error = %v", err)
	}
	if agg.TotalEarnings != 800 {
		t.Fatalf("total earnings = %d, want 800", agg.TotalEarnings)
	}
	if agg.TotalCount != 2 {
		t.Fatalf("total count = %d, want 2", agg.TotalCount)
	}
}

func TestRecordRejectsBelowMinimum(t *testing.T) {
	store := newMemStore()
	creator := onboardCreator(t, store, "ext-creator", "alex@example.com", "alexd")
	registerSupporter(t, store, "ext-fan", "fan@example.com", "superfan")
	svc := testDonationService(store)

	_, err := svc.Record(context.Background(), "ext-fan", domain.DonationInput{
		RecipientProfileID: creator.Profile.ID,
		Amount:             99,
	})
	if !domain.IsValidation(err) {
		t.Fatalf("Record() error = %v, want validation error", err)
	}
	agg, err := svc.AggregatesForProfile(context.Background(), creator.Profile.ID)
	if err != nil {
		t.Fatalf("AggregatesForProfile() error = %v", err)
	}
	if agg.TotalCount != 0 {
		t.Fatalf("rejected donation still recorded, count = %d", agg.TotalCount)
	}
}

func TestRecordRejectsSelfDonation(t *testing.T) {
	store := newMemStore()
	creator := onboardCreator(t, store, "ext-creator", "alex@example.com", "alexd")
	svc := testDonationService(store)

	_, err := svc.Record(context.Background(), "ext-creator", domain.DonationInput{
		RecipientProfileID: creator.Profile.ID,
		Amount:             500,
	})
	if !errors.Is(err, domain.ErrSelfDonation) {
		t.Fatalf("Record() error = %v, want ErrSelfDonation", err)
	}
}

func TestRecordUnknownParticipants(t *testing.T) {
	store := newMemStore()
	creator := onboardCreator(t, store, "ext-creator", "alex@example.com", "alexd")
	registerSupporter(t, store, "ext-fan", "fan@example.com", "superfan")
	svc := testDonationService(store)

	if _, err := svc.Record(context.Background(), "ghost", domain.DonationInput{
		RecipientProfileID: creator.Profile.ID,
		Amount:             500,
	}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown donor: error = %v, want ErrNotFound", err)
	}

	unknown := domain.DonationInput{RecipientProfileID: uuid.New(), Amount: 500}
	if _, err := svc.Record(context.Background(), "ext-fan", unknown); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown recipient: error = %v, want ErrNotFound", err)
	}

	if _, err := svc.Record(context.Background(), "", domain.DonationInput{
		RecipientProfileID: creator.Profile.ID,
		Amount:             500,
	}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("anonymous donor: error = %v, want ErrUnauthorized", err)
	}
}

func TestListReceivedAndSent(t *testing.T) {
	store := newMemStore()
	creator := onboardCreator(t, store, "ext-creator", "alex@example.com", "alexd")
	fan := registerSupporter(t, store, "ext-fan", "fan@example.com", "superfan")
	svc := testDonationService(store)

	for i := 0; i < 3; i++ {
		if _, err := svc.Record(context.Background(), "ext-fan", domain.DonationInput{
			RecipientProfileID: creator.Profile.ID,
			Amount:             int64(100 * (i + 1)),
		}); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	received, err := svc.ListReceived(context.Background(), creator.Profile.ID, 1, 2, "")
	if err != nil {
		t.Fatalf("ListReceived() error = %v", err)
	}
	if received.TotalCount != 3 || received.TotalPages != 2 || len(received.Items) != 2 {
		t.Fatalf("received page = %+v", received)
	}
	if received.Items[0].Amount != 300 {
		t.Fatalf("first item amount = %d, want newest first", received.Items[0].Amount)
	}
	if received.Items[0].CounterpartHandle != "superfan" {
		t.Fatalf("counterpart handle = %q, want donor handle", received.Items[0].CounterpartHandle)
	}

	sent, err := svc.ListSent(context.Background(), fan.ID, 2, 2, "")
	if err != nil {
		t.Fatalf("ListSent() error = %v", err)
	}
	if sent.TotalCount != 3 || len(sent.Items) != 1 {
		t.Fatalf("sent page = %+v", sent)
	}
	if sent.Items[0].CounterpartHandle != "alexd" {
		t.Fatalf("counterpart handle = %q, want recipient handle", sent.Items[0].CounterpartHandle)
	}
}

func TestListClampsPaging(t *testing.T) {
	store := newMemStore()
	creator := onboardCreator(t, store, "ext-creator", "alex@example.com", "alexd")
	svc := testDonationService(store)

	page, err := svc.ListReceived(context.Background(), creator.Profile.ID, -3, 9999, "")
	if err != nil {
		t.Fatalf("ListReceived() error = %v", err)
	}
	if page.Page != 1 {
		t.Fatalf("page = %d, want clamped to 1", page.Page)
	}
	if page.PageSize != 50 {
		t.Fatalf("page size = %d, want clamped to the maximum", page.PageSize)
	}
}
