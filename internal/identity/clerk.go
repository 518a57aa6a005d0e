package identity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/clerk/clerk-sdk-go/v2/user"
)

// ClerkProvider implements Provider against the Clerk backend API.
// Clerk's metadata PATCH endpoint deep-merges, which satisfies the
// partial-merge contract of UpdatePrivateMetadata.
type ClerkProvider struct {
	users *user.Client
}

func NewClerkProvider(secretKey string) *ClerkProvider {
	cfg := &clerk.ClientConfig{}
	cfg.Key = clerk.String(secretKey)
	return &ClerkProvider{users: user.NewClient(cfg)}
}

func (p *ClerkProvider) GetUser(ctx context.Context, id string) (*User, error) {
	u, err := p.users.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user %s: %w", id, err)
	}
	return &User{
		ID:              u.ID,
		PublicMetadata:  decodeMetadata(u.PublicMetadata),
		PrivateMetadata: decodeMetadata(u.PrivateMetadata),
	}, nil
}

func (p *ClerkProvider) UpdatePrivateMetadata(ctx context.Context, id string, partial map[string]any) error {
	b, err := json.Marshal(partial)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	raw := json.RawMessage(b)
	if _, err := p.users.UpdateMetadata(ctx, id, &user.UpdateMetadataParams{
		PrivateMetadata: &raw,
	}); err != nil {
		return fmt.Errorf("failed to update metadata for user %s: %w", id, err)
	}
	return nil
}

func decodeMetadata(raw json.RawMessage) map[string]any {
	if len(raw) == 0 {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return map[string]any{}
	}
	return m
}
