// Package entitlement derives a user's plan and free-usage counter from
// identity-provider metadata.
package entitlement

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/inklore/inklore-backend/internal/identity"
)

// FreeUsageLimit is the number of free-tier generations before text
// endpoints reject with a quota error.
const FreeUsageLimit = 10

type Plan string

const (
	PlanFree    Plan = "free"
	PlanPremium Plan = "premium"
)

type Entitlement struct {
	Plan      Plan
	FreeUsage int
}

type Resolver struct {
	provider identity.Provider
}

func NewResolver(provider identity.Provider) *Resolver {
	return &Resolver{provider: provider}
}

// Resolve fetches the user's metadata and derives plan and usage counter.
// For free users whose counter is unset it writes back 0 before returning.
// Premium users always report 0; their counter is never read or written.
func (r *Resolver) Resolve(ctx context.Context, userID string) (*Entitlement, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}

	u, err := r.provider.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	plan := NormalizePlan(u.PublicMetadata["plan"], u.PrivateMetadata["plan"])
	if plan == PlanPremium {
		return &Entitlement{Plan: PlanPremium, FreeUsage: 0}, nil
	}

	usage, ok := usageValue(u.PrivateMetadata["free_usage"])
	if !ok {
		if err := r.provider.UpdatePrivateMetadata(ctx, userID, map[string]any{"free_usage": 0}); err != nil {
			return nil, fmt.Errorf("failed to initialize usage counter: %w", err)
		}
		usage = 0
	}

	return &Entitlement{Plan: PlanFree, FreeUsage: usage}, nil
}

// IncrementUsage writes back current+1. Read-then-write with no
// compare-and-swap: concurrent requests from one user can under-count.
func (r *Resolver) IncrementUsage(ctx context.Context, userID string, current int) error {
	if err := r.provider.UpdatePrivateMetadata(ctx, userID, map[string]any{"free_usage": current + 1}); err != nil {
		return fmt.Errorf("failed to update usage counter: %w", err)
	}
	return nil
}

// NormalizePlan maps raw plan metadata to a plan. The public-scope value
// wins when present; {premium, pro, paid} after trim and case-fold mean
// premium, everything else (including unset) means free.
func NormalizePlan(public, private any) Plan {
	raw := public
	if raw == nil {
		raw = private
	}
	if raw == nil {
		return PlanFree
	}

	switch strings.ToLower(strings.TrimSpace(fmt.Sprint(raw))) {
	case "premium", "pro", "paid":
		return PlanPremium
	default:
		return PlanFree
	}
}

// usageValue extracts a counter from decoded JSON metadata. Numbers arrive
// as float64; anything else counts as unset.
func usageValue(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	default:
		return 0, false
	}
}
