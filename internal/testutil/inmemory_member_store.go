package testutil

import (
	"context"
	"strings"

	"github.com/dojocycle/dojocycle/internal/domain/member"
	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/samber/lo"
)

// InMemoryMemberStore implements member.Repository
type InMemoryMemberStore struct {
	*InMemoryStore[*member.Member]
}

// NewInMemoryMemberStore creates a new in-memory member store
func NewInMemoryMemberStore() *InMemoryMemberStore {
	return &InMemoryMemberStore{
		InMemoryStore: NewInMemoryStore[*member.Member](),
	}
}

// Helper to copy member
func copyMember(m *member.Member) *member.Member {
	if m == nil {
		return nil
	}

	c := *m
	c.PlanEndDate = copyPtr(m.PlanEndDate)
	c.ClassGroupID = copyPtr(m.ClassGroupID)
	if m.Metadata != nil {
		c.Metadata = lo.Assign(types.Metadata{}, m.Metadata)
	}
	return &c
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func memberFilterFn(ctx context.Context, m *member.Member, filter interface{}) bool {
	if !CheckTenantFilter(ctx, m.TenantID) {
		return false
	}

	f, ok := filter.(*types.MemberFilter)
	if !ok || f == nil {
		return m.Status != types.StatusDeleted
	}

	if f.QueryFilter != nil && f.Status != nil {
		if m.Status != *f.Status {
			return false
		}
	} else if m.Status == types.StatusDeleted {
		return false
	}

	if s := strings.ToLower(strings.TrimSpace(f.Search)); s != "" {
		if !strings.Contains(strings.ToLower(m.FirstName), s) &&
			!strings.Contains(strings.ToLower(m.LastName), s) &&
			!strings.Contains(m.ID, s) {
			return false
		}
	}
	if f.ClassGroupID != "" && !m.InClass(f.ClassGroupID) {
		return false
	}
	if f.ActiveOnly && !m.Active {
		return false
	}
	return true
}

func memberSortFn(filter *types.MemberFilter) SortFunc[*member.Member] {
	sortBy, desc := "created_at", true
	if filter != nil && filter.QueryFilter != nil {
		sortBy = filter.GetSort()
		desc = filter.GetOrder() != types.OrderAsc
	}

	return func(i, j *member.Member) bool {
		var less, equal bool
		switch sortBy {
		case "last_name":
			less, equal = i.LastName < j.LastName, i.LastName == j.LastName
		case "first_name":
			less, equal = i.FirstName < j.FirstName, i.FirstName == j.FirstName
		case "start_date":
			less, equal = i.StartDate.Before(j.StartDate), i.StartDate == j.StartDate
		default:
			less, equal = i.CreatedAt.Before(j.CreatedAt), i.CreatedAt.Equal(j.CreatedAt)
		}
		if equal {
			return i.ID < j.ID
		}
		if desc {
			return !less
		}
		return less
	}
}

func (s *InMemoryMemberStore) Create(ctx context.Context, m *member.Member) error {
	return s.InMemoryStore.Create(ctx, tenantKey(ctx, m.ID), copyMember(m))
}

func (s *InMemoryMemberStore) Get(ctx context.Context, id string) (*member.Member, error) {
	m, err := s.InMemoryStore.Get(ctx, tenantKey(ctx, id))
	if err != nil {
		return nil, err
	}
	if m.Status == types.StatusDeleted {
		return nil, notFound(id)
	}
	return copyMember(m), nil
}

func (s *InMemoryMemberStore) List(ctx context.Context, filter *types.MemberFilter) ([]*member.Member, error) {
	if filter == nil {
		filter = types.NewMemberFilter()
	}

	members, err := s.InMemoryStore.List(ctx, filter, memberFilterFn, memberSortFn(filter))
	if err != nil {
		return nil, err
	}

	if filter.QueryFilter != nil && !filter.IsUnlimited() {
		members = paginate(members, filter.GetOffset(), filter.GetLimit())
	}
	return lo.Map(members, func(m *member.Member, _ int) *member.Member {
		return copyMember(m)
	}), nil
}

func (s *InMemoryMemberStore) Count(ctx context.Context, filter *types.MemberFilter) (int, error) {
	if filter == nil {
		filter = types.NewMemberFilter()
	}
	return s.InMemoryStore.Count(ctx, filter, memberFilterFn)
}

func (s *InMemoryMemberStore) Update(ctx context.Context, m *member.Member) error {
	return s.InMemoryStore.Update(ctx, tenantKey(ctx, m.ID), copyMember(m))
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
