package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrAlreadyOnboarded   = errors.New("already onboarded")
	ErrNotOnboarded       = errors.New("not onboarded")
	ErrHandleTaken        = errors.New("handle already taken")
	ErrSelfDonation       = errors.New("cannot donate to your own profile")
	ErrMissingEmail       = errors.New("no resolvable email")
	ErrDuplicateIdentity  = errors.New("external identity already linked")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrIdentityProvider   = errors.New("identity provider unavailable")
)

// ValidationError reports a rejected input field. It is always returned
// before any transactional work begins.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// IsValidation reports whether err is a field validation failure.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
