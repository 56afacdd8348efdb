package policy

import "context"

// Repository stores one billing policy per tenant.
type Repository interface {
	// Get returns the policy of the tenant in ctx, or ErrNotFound when none is stored.
	Get(ctx context.Context) (*BillingPolicy, error)
	// Upsert creates or replaces the policy of the tenant in ctx.
	Upsert(ctx context.Context, p *BillingPolicy) error
	// ListTenantIDs returns every tenant with a stored policy.
	ListTenantIDs(ctx context.Context) ([]string, error)
}
