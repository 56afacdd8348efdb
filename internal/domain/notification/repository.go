package notification

import (
	"context"

	"github.com/dojocycle/dojocycle/internal/types"
)

type Repository interface {
	Create(ctx context.Context, log *Log) error
	// ListByPeriod returns the logs of a YYYY-MM period, oldest first.
	ListByPeriod(ctx context.Context, period string) ([]*Log, error)
	// SentMemberIDs returns the members that already got a message of kind for the period.
	SentMemberIDs(ctx context.Context, period string, kind types.NotificationKind) ([]string, error)
}
