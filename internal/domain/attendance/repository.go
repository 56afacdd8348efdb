package attendance

import (
	"context"

	"github.com/dojocycle/dojocycle/internal/types"
)

type Repository interface {
	// Create fails with ErrAlreadyExists when the member already has a row for that date.
	Create(ctx context.Context, attendance *Attendance) error
	GetByMemberDate(ctx context.Context, memberID string, date types.ISODate) (*Attendance, error)
	Update(ctx context.Context, attendance *Attendance) error
	// ListByDate returns the visible rows of a date.
	ListByDate(ctx context.Context, date types.ISODate) ([]*Attendance, error)
	CountByMember(ctx context.Context, memberID string) (int, error)
}
