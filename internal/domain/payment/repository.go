package payment

import (
	"context"

	"github.com/dojocycle/dojocycle/internal/types"
)

// Repository defines the interface for payment persistence
type Repository interface {
	// Create fails with ErrAlreadyExists when a payment for the same member and key exists.
	Create(ctx context.Context, payment *Payment) error
	Get(ctx context.Context, id string) (*Payment, error)
	GetByKey(ctx context.Context, memberID string, key types.PeriodKey) (*Payment, error)
	Update(ctx context.Context, payment *Payment) error
	// ListByMember returns the member's payments ordered by month. A zero year lists every year.
	ListByMember(ctx context.Context, memberID string, year int) ([]*Payment, error)
}
