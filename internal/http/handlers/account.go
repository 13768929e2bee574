package handlers

import (
	"net/http"

	"server/internal/middleware"
)

type accountResponse struct {
	User          *userDTO          `json:"user"`
	Profile       *profileDTO       `json:"profile,omitempty"`
	PaymentMethod *paymentMethodDTO `json:"payment_method,omitempty"`
}

// GetAccount returns the caller's own user, profile and masked card.
func (a *App) GetAccount(w http.ResponseWriter, r *http.Request) {
	externalID := middleware.ExternalIDFromContext(r.Context())
	acc, err := a.Profiles.GetAccount(r.Context(), externalID)
	if err != nil {
		a.error(w, r, err)
		return
	}
	a.json(w, http.StatusOK, accountResponse{
		User:          toUserDTO(acc.User),
		Profile:       toProfileDTO(acc.Profile),
		PaymentMethod: toPaymentMethodDTO(acc.PaymentMethod),
	})
}
