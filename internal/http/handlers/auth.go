package handlers

import (
	"net/http"

	"server/internal/domain"
	"server/internal/middleware"
)

type sessionRequest struct {
	ProviderToken string `json:"provider_token"`
}

type sessionResponse struct {
	Token string   `json:"token"`
	User  *userDTO `json:"user"`
}

// CreateSession exchanges a provider session token for a local session.
// The local user row is created on first sight of the identity.
func (a *App) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if !a.decode(w, r, &req) {
		return
	}
	if req.ProviderToken == "" {
		a.error(w, r, domain.ErrUnauthorized)
		return
	}

	ident, err := a.Provider.CurrentIdentity(r.Context(), req.ProviderToken)
	if err != nil {
		a.error(w, r, err)
		return
	}
	user, err := a.Identities.EnsureUser(r.Context(), *ident)
	if err != nil {
		a.error(w, r, err)
		return
	}
	token, err := middleware.SignSession(a.JWTSecret, user.ExternalID, user.ID.String(), a.SessionTTL)
	if err != nil {
		a.error(w, r, err)
		return
	}
	a.json(w, http.StatusOK, sessionResponse{Token: token, User: toUserDTO(user)})
}
