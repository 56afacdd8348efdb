package member

import (
	"context"

	"github.com/dojocycle/dojocycle/internal/types"
)

// Repository defines the interface for member data access
type Repository interface {
	// Create fails with ErrAlreadyExists when the DNI is taken.
	Create(ctx context.Context, member *Member) error
	Get(ctx context.Context, id string) (*Member, error)
	// List ignores filter.State; membership state is derived, not stored.
	List(ctx context.Context, filter *types.MemberFilter) ([]*Member, error)
	Count(ctx context.Context, filter *types.MemberFilter) (int, error)
	Update(ctx context.Context, member *Member) error
}
