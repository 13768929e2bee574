package handlers

import (
	"net/http"

	"server/internal/domain"
	"server/internal/identity"
	"server/internal/middleware"
	"server/internal/service"
)

type onboardingRequest struct {
	Handle  string         `json:"handle"`
	Profile profilePayload `json:"profile"`
	Card    *cardPayload   `json:"card,omitempty"`
}

type workflowResponse struct {
	User    *userDTO    `json:"user"`
	Profile *profileDTO `json:"profile"`
	Warning string      `json:"warning,omitempty"`
}

func toWorkflowResponse(res *service.WorkflowResult) workflowResponse {
	return workflowResponse{
		User:    toUserDTO(res.User),
		Profile: toProfileDTO(res.Profile),
		Warning: res.Warning,
	}
}

// CompleteOnboarding creates the caller's profile, handle and optional
// payout card in one shot.
func (a *App) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	var req onboardingRequest
	if !a.decode(w, r, &req) {
		return
	}

	in := domain.OnboardingInput{
		Handle:  req.Handle,
		Profile: req.Profile.toInput(),
		Card:    req.Card.toInput(),
	}
	res, err := a.Onboarding.CompleteOnboarding(r.Context(), a.callerIdentity(r, in.Card), in)
	if err != nil {
		a.error(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, toWorkflowResponse(res))
}

// callerIdentity rebuilds the identity view from the session context.
// The cardholder name, when submitted, doubles as the name pushed to
// the provider.
func (a *App) callerIdentity(r *http.Request, card *domain.CardInput) identity.Identity {
	ident := identity.Identity{ExternalID: middleware.ExternalIDFromContext(r.Context())}
	if card != nil {
		ident.FirstName = card.FirstName
		ident.LastName = card.LastName
	}
	return ident
}
