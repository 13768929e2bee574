package handlers

import (
	"net/http"

	"server/internal/domain"
)

// UpdateProfile rewrites the caller's profile, handle and payout card.
func (a *App) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req onboardingRequest
	if !a.decode(w, r, &req) {
		return
	}

	in := domain.OnboardingInput{
		Handle:  req.Handle,
		Profile: req.Profile.toInput(),
		Card:    req.Card.toInput(),
	}
	res, err := a.Profiles.UpdateProfile(r.Context(), a.callerIdentity(r, in.Card), in)
	if err != nil {
		a.error(w, r, err)
		return
	}
	a.json(w, http.StatusOK, toWorkflowResponse(res))
}
