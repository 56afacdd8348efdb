package testutil

import (
	"context"

	"github.com/dojocycle/dojocycle/internal/domain/billingperiod"
	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/samber/lo"
)

// InMemoryBillingPeriodStore implements billingperiod.Repository
type InMemoryBillingPeriodStore struct {
	*InMemoryStore[*billingperiod.BillingPeriod]
}

func NewInMemoryBillingPeriodStore() *InMemoryBillingPeriodStore {
	return &InMemoryBillingPeriodStore{
		InMemoryStore: NewInMemoryStore[*billingperiod.BillingPeriod](),
	}
}

func copyBillingPeriod(p *billingperiod.BillingPeriod) *billingperiod.BillingPeriod {
	if p == nil {
		return nil
	}
	c := *p
	c.PaymentID = copyPtr(p.PaymentID)
	c.ClassGroupID = copyPtr(p.ClassGroupID)
	return &c
}

func periodNewestFirst(i, j *billingperiod.BillingPeriod) bool {
	if i.Year != j.Year {
		return i.Year > j.Year
	}
	return i.Month > j.Month
}

func (s *InMemoryBillingPeriodStore) Create(ctx context.Context, p *billingperiod.BillingPeriod) error {
	tenantID := types.GetTenantID(ctx)
	return s.InMemoryStore.CreateIf(ctx, p.ID, copyBillingPeriod(p), func(existing *billingperiod.BillingPeriod) bool {
		return existing.TenantID == tenantID && existing.MemberID == p.MemberID && existing.PeriodKey == p.PeriodKey
	})
}

func (s *InMemoryBillingPeriodStore) Get(ctx context.Context, id string) (*billingperiod.BillingPeriod, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CheckTenantFilter(ctx, p.TenantID) {
		return nil, notFound(id)
	}
	return copyBillingPeriod(p), nil
}

func (s *InMemoryBillingPeriodStore) GetByKey(ctx context.Context, memberID string, key types.PeriodKey) (*billingperiod.BillingPeriod, error) {
	periods, err := s.InMemoryStore.List(ctx, nil, func(ctx context.Context, p *billingperiod.BillingPeriod, _ interface{}) bool {
		return CheckTenantFilter(ctx, p.TenantID) && p.MemberID == memberID && p.PeriodKey == key
	}, nil)
	if err != nil {
		return nil, err
	}
	if len(periods) == 0 {
		return nil, notFound(memberID + "@" + key.String())
	}
	return copyBillingPeriod(periods[0]), nil
}

func (s *InMemoryBillingPeriodStore) ListByMember(ctx context.Context, memberID string) ([]*billingperiod.BillingPeriod, error) {
	periods, err := s.InMemoryStore.List(ctx, nil, func(ctx context.Context, p *billingperiod.BillingPeriod, _ interface{}) bool {
		return CheckTenantFilter(ctx, p.TenantID) && p.MemberID == memberID
	}, periodNewestFirst)
	if err != nil {
		return nil, err
	}
	return lo.Map(periods, func(p *billingperiod.BillingPeriod, _ int) *billingperiod.BillingPeriod {
		return copyBillingPeriod(p)
	}), nil
}

func (s *InMemoryBillingPeriodStore) ListUnpaid(ctx context.Context) ([]*billingperiod.BillingPeriod, error) {
	periods, err := s.InMemoryStore.List(ctx, nil, func(ctx context.Context, p *billingperiod.BillingPeriod, _ interface{}) bool {
		return CheckTenantFilter(ctx, p.TenantID) && !p.IsPaid()
	}, func(i, j *billingperiod.BillingPeriod) bool {
		if i.PeriodKey != j.PeriodKey {
			return !periodNewestFirst(i, j)
		}
		return i.MemberID < j.MemberID
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(periods, func(p *billingperiod.BillingPeriod, _ int) *billingperiod.BillingPeriod {
		return copyBillingPeriod(p)
	}), nil
}

func (s *InMemoryBillingPeriodStore) Update(ctx context.Context, p *billingperiod.BillingPeriod) error {
	return s.InMemoryStore.Update(ctx, p.ID, copyBillingPeriod(p))
}
