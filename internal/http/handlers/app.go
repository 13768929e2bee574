package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/identity"
	"server/internal/service"
)

// App bundles the handler dependencies: the workflow services, the
// identity provider client and session signing material.
type App struct {
	Log        zerolog.Logger
	Identities *service.IdentityService
	Onboarding *service.OnboardingService
	Profiles   *service.ProfileService
	Donations  *service.DonationService
	Directory  *service.DirectoryService
	Provider   identity.Provider
	JWTSecret  string
	SessionTTL time.Duration
	DB         *pgxpool.Pool
}

func (a *App) json(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.Log.Error().Err(err).Msg("encode response")
	}
}

func (a *App) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		a.json(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return false
	}
	return true
}

type errorBody struct {
	Error string `json:"error"`
}

// error maps the domain error taxonomy onto HTTP statuses and writes a
// JSON error body. Unknown errors are logged and reported as 500.
func (a *App) error(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusForError(err)
	if status == http.StatusInternalServerError {
		a.Log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		msg = "internal error"
	}
	a.json(w, status, errorBody{Error: msg})
}

func statusForError(err error) (int, string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Error()
	case errors.Is(err, domain.ErrMissingEmail):
		return http.StatusBadRequest, "identity has no email address"
	case errors.Is(err, domain.ErrSelfDonation):
		return http.StatusBadRequest, "donating to your own profile is not allowed"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrHandleTaken):
		return http.StatusConflict, "handle already taken"
	case errors.Is(err, domain.ErrAlreadyOnboarded):
		return http.StatusConflict, "onboarding already completed"
	case errors.Is(err, domain.ErrNotOnboarded):
		return http.StatusConflict, "onboarding not completed"
	case errors.Is(err, domain.ErrDuplicateIdentity):
		return http.StatusConflict, "identity already registered"
	case errors.Is(err, domain.ErrStorageUnavailable):
		return http.StatusServiceUnavailable, "storage unavailable"
	case errors.Is(err, domain.ErrIdentityProvider):
		return http.StatusBadGateway, "identity provider unavailable"
	default:
		return http.StatusInternalServerError, ""
	}
}
