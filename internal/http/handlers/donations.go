package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"server/internal/domain"
	"server/internal/middleware"
	"server/internal/service"
)

type donationRequest struct {
	RecipientProfileID string `json:"recipient_profile_id"`
	Amount             int64  `json:"amount"`
	Message            string `json:"message"`
	ContactURL         string `json:"contact_url"`
}

type donationResponse struct {
	ID                 string `json:"id"`
	RecipientProfileID string `json:"recipient_profile_id"`
	Amount             int64  `json:"amount"`
	Message            string `json:"message,omitempty"`
	ContactURL         string `json:"contact_url,omitempty"`
	CreatedAt          string `json:"created_at"`
}

// CreateDonation appends one donation from the caller to a profile.
func (a *App) CreateDonation(w http.ResponseWriter, r *http.Request) {
	var req donationRequest
	if !a.decode(w, r, &req) {
		return
	}
	recipientID, err := uuid.Parse(req.RecipientProfileID)
	if err != nil {
		a.error(w, r, &domain.ValidationError{Field: "recipient_profile_id", Message: "must be a valid id"})
		return
	}

	donation, err := a.Donations.Record(r.Context(), middleware.ExternalIDFromContext(r.Context()), domain.DonationInput{
		RecipientProfileID: recipientID,
		Amount:             req.Amount,
		Message:            req.Message,
		ContactURL:         req.ContactURL,
	})
	if err != nil {
		a.error(w, r, err)
		return
	}

	if country := middleware.CountryFromContext(r.Context()); country != "" {
		a.Log.Info().
			Str("donation_id", donation.ID.String()).
			Str("country", country).
			Msg("donation origin")
	}
	a.json(w, http.StatusCreated, donationResponse{
		ID:                 donation.ID.String(),
		RecipientProfileID: donation.RecipientProfileID.String(),
		Amount:             donation.Amount,
		Message:            donation.Message,
		ContactURL:         donation.ContactURL,
		CreatedAt:          donation.CreatedAt.Format(timeFormat),
	})
}

type donationListResponse struct {
	Items []donationEntryDTO `json:"items"`
	pageMeta
}

// ListDonations pages the caller's ledger entries. type=received lists
// donations to the caller's profile, type=sent lists donations the
// caller made.
func (a *App) ListDonations(w http.ResponseWriter, r *http.Request) {
	externalID := middleware.ExternalIDFromContext(r.Context())
	acc, err := a.Profiles.GetAccount(r.Context(), externalID)
	if err != nil {
		a.error(w, r, err)
		return
	}

	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", 0)
	filter := r.URL.Query().Get("q")

	var result *service.DonationPage
	switch r.URL.Query().Get("type") {
	case "", "received":
		if !acc.User.Onboarded() {
			a.error(w, r, domain.ErrNotOnboarded)
			return
		}
		result, err = a.Donations.ListReceived(r.Context(), *acc.User.ProfileID, page, pageSize, filter)
	case "sent":
		result, err = a.Donations.ListSent(r.Context(), acc.User.ID, page, pageSize, filter)
	default:
		a.error(w, r, &domain.ValidationError{Field: "type", Message: "must be received or sent"})
		return
	}
	if err != nil {
		a.error(w, r, err)
		return
	}

	items := make([]donationEntryDTO, 0, len(result.Items))
	for _, e := range result.Items {
		items = append(items, toDonationEntryDTO(e))
	}
	a.json(w, http.StatusOK, donationListResponse{
		Items: items,
		pageMeta: pageMeta{
			TotalCount: result.TotalCount,
			TotalPages: result.TotalPages,
			Page:       result.Page,
			PageSize:   result.PageSize,
		},
	})
}

type aggregatesResponse struct {
	ProfileID      string `json:"profile_id"`
	TotalEarnings  int64  `json:"total_earnings"`
	TotalDonations int64  `json:"total_donations"`
}

// GetAggregates returns the exact ledger totals for a profile.
func (a *App) GetAggregates(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(chi.URLParam(r, "profileID"))
	if err != nil {
		a.error(w, r, &domain.ValidationError{Field: "profile_id", Message: "must be a valid id"})
		return
	}
	agg, err := a.Donations.AggregatesForProfile(r.Context(), profileID)
	if err != nil {
		a.error(w, r, err)
		return
	}
	a.json(w, http.StatusOK, aggregatesResponse{
		ProfileID:      profileID.String(),
		TotalEarnings:  agg.TotalEarnings,
		TotalDonations: agg.TotalCount,
	})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
