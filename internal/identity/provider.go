package identity

import "context"

// Identity is the normalized view of an externally authenticated user.
// It contains facts returned by the provider only, no decisions.
type Identity struct {
	ExternalID string
	Email      string
	Handle     string
	FirstName  string
	LastName   string
}

// Metadata is the small per-identity blob mirrored onto the provider
// after a successful local commit. The mirror may lag; local storage
// stays authoritative.
type Metadata struct {
	OnboardingComplete bool   `json:"onboarding_complete"`
	ProfileID          string `json:"profile_id,omitempty"`
	DisplayName        string `json:"display_name,omitempty"`
	Handle             string `json:"handle,omitempty"`
}

// Update carries optional provider-side account fields pushed alongside
// metadata. Empty fields are left untouched on the provider.
type Update struct {
	Handle    string `json:"handle,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Provider is the contract consumed from the external identity
// provider. CurrentIdentity resolves a provider session token; the
// write calls are fire-and-forget relative to local transactions.
type Provider interface {
	CurrentIdentity(ctx context.Context, sessionToken string) (*Identity, error)
	SetMetadata(ctx context.Context, externalID string, md Metadata) error
	UpdateAccount(ctx context.Context, externalID string, up Update) error
	SetProfileImage(ctx context.Context, externalID string, image []byte) error
}
