package testutil

import (
	"context"

	"github.com/dojocycle/dojocycle/internal/domain/payment"
	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/samber/lo"
)

// InMemoryPaymentStore implements payment.Repository
type InMemoryPaymentStore struct {
	*InMemoryStore[*payment.Payment]
}

func NewInMemoryPaymentStore() *InMemoryPaymentStore {
	return &InMemoryPaymentStore{
		InMemoryStore: NewInMemoryStore[*payment.Payment](),
	}
}

func copyPayment(p *payment.Payment) *payment.Payment {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func (s *InMemoryPaymentStore) Create(ctx context.Context, p *payment.Payment) error {
	tenantID := types.GetTenantID(ctx)
	return s.InMemoryStore.CreateIf(ctx, p.ID, copyPayment(p), func(existing *payment.Payment) bool {
		return existing.TenantID == tenantID && existing.MemberID == p.MemberID && existing.PeriodKey == p.PeriodKey
	})
}

func (s *InMemoryPaymentStore) Get(ctx context.Context, id string) (*payment.Payment, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CheckTenantFilter(ctx, p.TenantID) {
		return nil, notFound(id)
	}
	return copyPayment(p), nil
}

func (s *InMemoryPaymentStore) GetByKey(ctx context.Context, memberID string, key types.PeriodKey) (*payment.Payment, error) {
	payments, err := s.InMemoryStore.List(ctx, nil, func(ctx context.Context, p *payment.Payment, _ interface{}) bool {
		return CheckTenantFilter(ctx, p.TenantID) && p.MemberID == memberID && p.PeriodKey == key
	}, nil)
	if err != nil {
		return nil, err
	}
	if len(payments) == 0 {
		return nil, notFound(memberID + "@" + key.String())
	}
	return copyPayment(payments[0]), nil
}

func (s *InMemoryPaymentStore) Update(ctx context.Context, p *payment.Payment) error {
	return s.InMemoryStore.Update(ctx, p.ID, copyPayment(p))
}

func (s *InMemoryPaymentStore) ListByMember(ctx context.Context, memberID string, year int) ([]*payment.Payment, error) {
	payments, err := s.InMemoryStore.List(ctx, nil, func(ctx context.Context, p *payment.Payment, _ interface{}) bool {
		return CheckTenantFilter(ctx, p.TenantID) && p.MemberID == memberID && (year == 0 || p.Year == year)
	}, func(i, j *payment.Payment) bool {
		if i.Year != j.Year {
			return i.Year < j.Year
		}
		return i.Month < j.Month
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(payments, func(p *payment.Payment, _ int) *payment.Payment {
		return copyPayment(p)
	}), nil
}
