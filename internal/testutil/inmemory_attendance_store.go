package testutil

import (
	"context"

	"github.com/dojocycle/dojocycle/internal/domain/attendance"
	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/samber/lo"
)

// InMemoryAttendanceStore implements attendance.Repository
type InMemoryAttendanceStore struct {
	*InMemoryStore[*attendance.Attendance]
}

func NewInMemoryAttendanceStore() *InMemoryAttendanceStore {
	return &InMemoryAttendanceStore{
		InMemoryStore: NewInMemoryStore[*attendance.Attendance](),
	}
}

func copyAttendance(a *attendance.Attendance) *attendance.Attendance {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

func (s *InMemoryAttendanceStore) Create(ctx context.Context, a *attendance.Attendance) error {
	tenantID := types.GetTenantID(ctx)
	return s.InMemoryStore.CreateIf(ctx, a.ID, copyAttendance(a), func(existing *attendance.Attendance) bool {
		return existing.TenantID == tenantID && existing.MemberID == a.MemberID && existing.Date == a.Date
	})
}

func (s *InMemoryAttendanceStore) GetByMemberDate(ctx context.Context, memberID string, date types.ISODate) (*attendance.Attendance, error) {
	rows, err := s.InMemoryStore.List(ctx, nil, func(ctx context.Context, a *attendance.Attendance, _ interface{}) bool {
		return CheckTenantFilter(ctx, a.TenantID) && a.MemberID == memberID && a.Date == date
	}, nil)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, notFound(memberID + "@" + date.String())
	}
	return copyAttendance(rows[0]), nil
}

func (s *InMemoryAttendanceStore) Update(ctx context.Context, a *attendance.Attendance) error {
	return s.InMemoryStore.Update(ctx, a.ID, copyAttendance(a))
}

func (s *InMemoryAttendanceStore) ListByDate(ctx context.Context, date types.ISODate) ([]*attendance.Attendance, error) {
	rows, err := s.InMemoryStore.List(ctx, nil, func(ctx context.Context, a *attendance.Attendance, _ interface{}) bool {
		return CheckTenantFilter(ctx, a.TenantID) && a.Date == date && !a.Dismissed
	}, func(i, j *attendance.Attendance) bool {
		if i.CreatedAt.Equal(j.CreatedAt) {
			return i.ID < j.ID
		}
		return i.CreatedAt.Before(j.CreatedAt)
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(rows, func(a *attendance.Attendance, _ int) *attendance.Attendance {
		return copyAttendance(a)
	}), nil
}

func (s *InMemoryAttendanceStore) CountByMember(ctx context.Context, memberID string) (int, error) {
	return s.InMemoryStore.Count(ctx, nil, func(ctx context.Context, a *attendance.Attendance, _ interface{}) bool {
		return CheckTenantFilter(ctx, a.TenantID) && a.MemberID == memberID
	})
}
