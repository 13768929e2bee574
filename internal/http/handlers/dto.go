package handlers

import (
	"time"

	"server/internal/domain"
	"server/internal/service"
)

type userDTO struct {
	ID         string  `json:"id"`
	ExternalID string  `json:"external_id"`
	Email      string  `json:"email"`
	Handle     string  `json:"handle"`
	ProfileID  *string `json:"profile_id,omitempty"`
	Onboarded  bool    `json:"onboarded"`
	CreatedAt  string  `json:"created_at"`
}

func toUserDTO(u *domain.User) *userDTO {
	if u == nil {
		return nil
	}
	dto := &userDTO{
		ID:         u.ID.String(),
		ExternalID: u.ExternalID,
		Email:      u.Email,
		Handle:     u.Handle,
		Onboarded:  u.Onboarded(),
		CreatedAt:  u.CreatedAt.Format(time.RFC3339),
	}
	if u.ProfileID != nil {
		pid := u.ProfileID.String()
		dto.ProfileID = &pid
	}
	return dto
}

type profileDTO struct {
	ID              string `json:"id"`
	DisplayName     string `json:"display_name"`
	Bio             string `json:"bio,omitempty"`
	AvatarURL       string `json:"avatar_url,omitempty"`
	BackgroundURL   string `json:"background_url,omitempty"`
	SocialURL       string `json:"social_url,omitempty"`
	ThankYouMessage string `json:"thank_you_message,omitempty"`
	CreatedAt       string `json:"created_at"`
}

func toProfileDTO(p *domain.Profile) *profileDTO {
	if p == nil {
		return nil
	}
	return &profileDTO{
		ID:              p.ID.String(),
		DisplayName:     p.DisplayName,
		Bio:             p.Bio,
		AvatarURL:       p.AvatarURL,
		BackgroundURL:   p.BackgroundURL,
		SocialURL:       p.SocialURL,
		ThankYouMessage: p.ThankYouMessage,
		CreatedAt:       p.CreatedAt.Format(time.RFC3339),
	}
}

type paymentMethodDTO struct {
	ID        string `json:"id"`
	Country   string `json:"country"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	CardLast4 string `json:"card_last4"`
	Expiry    string `json:"expiry"`
}

func toPaymentMethodDTO(pm *service.MaskedPaymentMethod) *paymentMethodDTO {
	if pm == nil {
		return nil
	}
	return &paymentMethodDTO{
		ID:        pm.ID.String(),
		Country:   pm.Country,
		FirstName: pm.FirstName,
		LastName:  pm.LastName,
		CardLast4: pm.CardLast4,
		Expiry:    pm.Expiry,
	}
}

type summaryDTO struct {
	ProfileID       string `json:"profile_id"`
	Handle          string `json:"handle"`
	DisplayName     string `json:"display_name"`
	Bio             string `json:"bio,omitempty"`
	AvatarURL       string `json:"avatar_url,omitempty"`
	BackgroundURL   string `json:"background_url,omitempty"`
	SocialURL       string `json:"social_url,omitempty"`
	ThankYouMessage string `json:"thank_you_message,omitempty"`
	TotalEarnings   int64  `json:"total_earnings"`
	TotalDonations  int64  `json:"total_donations"`
	CreatedAt       string `json:"created_at"`
}

func toSummaryDTO(s domain.ProfileSummary) summaryDTO {
	return summaryDTO{
		ProfileID:       s.ProfileID.String(),
		Handle:          s.Handle,
		DisplayName:     s.DisplayName,
		Bio:             s.Bio,
		AvatarURL:       s.AvatarURL,
		BackgroundURL:   s.BackgroundURL,
		SocialURL:       s.SocialURL,
		ThankYouMessage: s.ThankYouMessage,
		TotalEarnings:   s.TotalEarnings,
		TotalDonations:  s.TotalDonations,
		CreatedAt:       s.CreatedAt.Format(time.RFC3339),
	}
}

type donationEntryDTO struct {
	ID                   string `json:"id"`
	Amount               int64  `json:"amount"`
	Message              string `json:"message,omitempty"`
	ContactURL           string `json:"contact_url,omitempty"`
	CounterpartHandle    string `json:"counterpart_handle,omitempty"`
	CounterpartName      string `json:"counterpart_name,omitempty"`
	CounterpartAvatarURL string `json:"counterpart_avatar_url,omitempty"`
	CreatedAt            string `json:"created_at"`
}

func toDonationEntryDTO(e domain.DonationEntry) donationEntryDTO {
	return donationEntryDTO{
		ID:                   e.ID.String(),
		Amount:               e.Amount,
		Message:              e.Message,
		ContactURL:           e.ContactURL,
		CounterpartHandle:    e.CounterpartHandle,
		CounterpartName:      e.CounterpartName,
		CounterpartAvatarURL: e.CounterpartAvatarURL,
		CreatedAt:            e.CreatedAt.Format(time.RFC3339),
	}
}

type pageMeta struct {
	TotalCount int64 `json:"total_count"`
	TotalPages int64 `json:"total_pages"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
}

type profilePayload struct {
	DisplayName     string `json:"display_name"`
	Bio             string `json:"bio"`
	AvatarURL       string `json:"avatar_url"`
	BackgroundURL   string `json:"background_url"`
	SocialURL       string `json:"social_url"`
	ThankYouMessage string `json:"thank_you_message"`
}

func (p profilePayload) toInput() domain.ProfileInput {
	return domain.ProfileInput{
		DisplayName:     p.DisplayName,
		Bio:             p.Bio,
		AvatarURL:       p.AvatarURL,
		BackgroundURL:   p.BackgroundURL,
		SocialURL:       p.SocialURL,
		ThankYouMessage: p.ThankYouMessage,
	}
}

type cardPayload struct {
	Country     string `json:"country"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	CardNumber  string `json:"card_number"`
	ExpiryMonth string `json:"expiry_month"`
	ExpiryYear  string `json:"expiry_year"`
	CVC         string `json:"cvc"`
}

func (c *cardPayload) toInput() *domain.CardInput {
	if c == nil {
		return nil
	}
	in := &domain.CardInput{
		Country:     c.Country,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		CardNumber:  c.CardNumber,
		ExpiryMonth: c.ExpiryMonth,
		ExpiryYear:  c.ExpiryYear,
		CVC:         c.CVC,
	}
	if in.Empty() {
		return nil
	}
	return in
}
