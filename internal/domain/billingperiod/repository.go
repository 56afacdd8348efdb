package billingperiod

import (
	"context"

	"github.com/dojocycle/dojocycle/internal/types"
)

// Repository defines the interface for billing period persistence
type Repository interface {
	// Create inserts the period. It fails with ErrAlreadyExists when the member already has a
	// period for the same key, leaving the stored one untouched.
	Create(ctx context.Context, period *BillingPeriod) error
	Get(ctx context.Context, id string) (*BillingPeriod, error)
	GetByKey(ctx context.Context, memberID string, key types.PeriodKey) (*BillingPeriod, error)
	// ListByMember returns the member's periods, newest key first.
	ListByMember(ctx context.Context, memberID string) ([]*BillingPeriod, error)
	ListUnpaid(ctx context.Context) ([]*BillingPeriod, error)
	Update(ctx context.Context, period *BillingPeriod) error
}
