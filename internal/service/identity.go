package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/identity"
)

// IdentityService links external identities to local users. EnsureUser
// is idempotent: any number of concurrent first calls for the same
// external identity converge to exactly one user row.
type IdentityService struct {
	store        domain.Store
	log          zerolog.Logger
	storeTimeout time.Duration
}

// NewIdentityService creates the identity-linking service.
func NewIdentityService(store domain.Store, log zerolog.Logger, storeTimeout time.Duration) *IdentityService {
	return &IdentityService{store: store, log: log, storeTimeout: storeTimeout}
}

// EnsureUser returns the local user for ident, creating it on first
// sight. Losing the creation race to a concurrent call is not an
// error: the winner's row is fetched and returned instead.
func (s *IdentityService) EnsureUser(ctx context.Context, ident identity.Identity) (*domain.User, error) {
	if ident.ExternalID == "" {
		return nil, domain.ErrUnauthorized
	}

	ctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	users := s.store.Users()
	user, err := users.GetByExternalID(ctx, ident.ExternalID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if ident.Email == "" {
		return nil, domain.ErrMissingEmail
	}

	handle := deriveHandle(ident)
	taken, err := users.HandleExists(ctx, handle)
	if err != nil {
		return nil, err
	}
	if taken {
		handle = suffixHandle(handle)
	}

	user = &domain.User{
		ID:         uuid.New(),
		ExternalID: ident.ExternalID,
		Email:      ident.Email,
		Handle:     handle,
	}
	err = users.Create(ctx, user)
	if errors.Is(err, domain.ErrHandleTaken) {
		// The handle was claimed between the pre-check and the insert.
		// One deterministic suffixed attempt, no retry loop.
		user.Handle = suffixHandle(handle)
		err = users.Create(ctx, user)
	}
	if errors.Is(err, domain.ErrDuplicateIdentity) {
		return users.GetByExternalID(ctx, ident.ExternalID)
	}
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("user_id", user.ID.String()).
		Str("handle", user.Handle).
		Msg("registered user for external identity")
	return user, nil
}

// deriveHandle picks the initial handle from the provider's suggestion,
// the first name, the email local part, then the literal "user".
func deriveHandle(ident identity.Identity) string {
	local := ident.Email
	if at := strings.IndexByte(local, '@'); at >= 0 {
		local = local[:at]
	}
	for _, candidate := range []string{ident.Handle, ident.FirstName, local} {
		if h := sanitizeHandle(candidate); h != "" {
			return h
		}
	}
	return "user"
}

// sanitizeHandle strips characters outside the handle grammar and
// truncates to its upper bound. Results shorter than the lower bound
// are rejected as unusable.
func sanitizeHandle(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		}
	}
	h := b.String()
	if len(h) > 20 {
		h = h[:20]
	}
	if len(h) < 3 {
		return ""
	}
	return h
}

// suffixHandle disambiguates a colliding handle with a millisecond
// timestamp, keeping the result within the handle grammar.
func suffixHandle(base string) string {
	suffix := "_" + strconv.FormatInt(time.Now().UnixMilli(), 10)
	if max := 20 - len(suffix); len(base) > max {
		base = base[:max]
	}
	return base + suffix
}
