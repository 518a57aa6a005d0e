// Package identity defines the boundary to the externally-owned identity
// provider. User profiles, plan metadata and the free-usage counter live
// there, not in this service.
package identity

import "context"

// User is a profile fetched from the identity provider.
type User struct {
	ID              string
	PublicMetadata  map[string]any
	PrivateMetadata map[string]any
}

// Provider is the contract this service expects of the identity provider.
// UpdatePrivateMetadata performs a partial merge: keys absent from partial
// are left untouched on the provider side.
type Provider interface {
	GetUser(ctx context.Context, id string) (*User, error)
	UpdatePrivateMetadata(ctx context.Context, id string, partial map[string]any) error
}
