package testutil

import (
	"context"

	"github.com/dojocycle/dojocycle/internal/domain/notification"
	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/samber/lo"
)

// InMemoryNotificationStore implements notification.Repository
type InMemoryNotificationStore struct {
	*InMemoryStore[*notification.Log]
}

func NewInMemoryNotificationStore() *InMemoryNotificationStore {
	return &InMemoryNotificationStore{
		InMemoryStore: NewInMemoryStore[*notification.Log](),
	}
}

func copyNotificationLog(l *notification.Log) *notification.Log {
	c := *l
	return &c
}

// Create rejects a second sent reminder for the same period and member, like the partial
// unique index in postgres.
func (s *InMemoryNotificationStore) Create(ctx context.Context, l *notification.Log) error {
	tenantID := types.GetTenantID(ctx)
	var conflict ConflictFunc[*notification.Log]
	if l.Kind == types.NotificationKindReminder && l.Result == types.NotificationStatusSent {
		conflict = func(existing *notification.Log) bool {
			return existing.TenantID == tenantID &&
				existing.PeriodKey == l.PeriodKey &&
				existing.MemberID == l.MemberID &&
				existing.Kind == l.Kind &&
				existing.Result == types.NotificationStatusSent
		}
	}
	return s.InMemoryStore.CreateIf(ctx, l.ID, copyNotificationLog(l), conflict)
}

func (s *InMemoryNotificationStore) ListByPeriod(ctx context.Context, period string) ([]*notification.Log, error) {
	logs, err := s.InMemoryStore.List(ctx, nil, func(ctx context.Context, l *notification.Log, _ interface{}) bool {
		return CheckTenantFilter(ctx, l.TenantID) && l.PeriodKey == period
	}, func(i, j *notification.Log) bool {
		if i.AttemptedAt.Equal(j.AttemptedAt) {
			return i.ID < j.ID
		}
		return i.AttemptedAt.Before(j.AttemptedAt)
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(logs, func(l *notification.Log, _ int) *notification.Log {
		return copyNotificationLog(l)
	}), nil
}

func (s *InMemoryNotificationStore) SentMemberIDs(ctx context.Context, period string, kind types.NotificationKind) ([]string, error) {
	logs, err := s.InMemoryStore.List(ctx, nil, func(ctx context.Context, l *notification.Log, _ interface{}) bool {
		return CheckTenantFilter(ctx, l.TenantID) &&
			l.PeriodKey == period &&
			l.Kind == kind &&
			l.Result == types.NotificationStatusSent
	}, nil)
	if err != nil {
		return nil, err
	}
	return lo.Uniq(lo.Map(logs, func(l *notification.Log, _ int) string {
		return l.MemberID
	})), nil
}
