package service

import (
	"context"
	"errors"

	"server/internal/identity"
)

// fakeProvider records propagation calls and can be told to fail.
type fakeProvider struct {
	identities map[string]identity.Identity
	metadata   map[string]identity.Metadata
	updates    map[string]identity.Update
	images     map[string][]byte
	fail       bool
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		identities: make(map[string]identity.Identity),
		metadata:   make(map[string]identity.Metadata),
		updates:    make(map[string]identity.Update),
		images:     make(map[string][]byte),
	}
}

var errProviderDown = errors.New("provider down")

func (p *fakeProvider) CurrentIdentity(ctx context.Context, sessionToken string) (*identity.Identity, error) {
	if p.fail {
		return nil, errProviderDown
	}
	ident, ok := p.identities[sessionToken]
	if !ok {
		return nil, errProviderDown
	}
	return &ident, nil
}

func (p *fakeProvider) SetMetadata(ctx context.Context, externalID string, md identity.Metadata) error {
	if p.fail {
		return errProviderDown
	}
	p.metadata[externalID] = md
	return nil
}

func (p *fakeProvider) UpdateAccount(ctx context.Context, externalID string, up identity.Update) error {
	if p.fail {
		return errProviderDown
	}
	p.updates[externalID] = up
	return nil
}

func (p *fakeProvider) SetProfileImage(ctx context.Context, externalID string, image []byte) error {
	if p.fail {
		return errProviderDown
	}
	p.images[externalID] = image
	return nil
}
