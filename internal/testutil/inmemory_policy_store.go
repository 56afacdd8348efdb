package testutil

import (
	"context"
	"sort"

	"github.com/dojocycle/dojocycle/internal/domain/policy"
	"github.com/dojocycle/dojocycle/internal/types"
)

// InMemoryPolicyStore implements policy.Repository, one policy per tenant.
type InMemoryPolicyStore struct {
	*InMemoryStore[*policy.BillingPolicy]
}

func NewInMemoryPolicyStore() *InMemoryPolicyStore {
	return &InMemoryPolicyStore{
		InMemoryStore: NewInMemoryStore[*policy.BillingPolicy](),
	}
}

func (s *InMemoryPolicyStore) Get(ctx context.Context) (*policy.BillingPolicy, error) {
	p, err := s.InMemoryStore.Get(ctx, types.GetTenantID(ctx))
	if err != nil {
		return nil, err
	}
	c := *p
	return &c, nil
}

func (s *InMemoryPolicyStore) Upsert(ctx context.Context, p *policy.BillingPolicy) error {
	c := *p
	tenantID := types.GetTenantID(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[tenantID] = &c
	return nil
}

func (s *InMemoryPolicyStore) ListTenantIDs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
