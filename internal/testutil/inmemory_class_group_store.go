package testutil

import (
	"context"
	"strings"

	"github.com/dojocycle/dojocycle/internal/domain/classgroup"
	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/samber/lo"
)

// InMemoryClassGroupStore implements classgroup.Repository
type InMemoryClassGroupStore struct {
	*InMemoryStore[*classgroup.ClassGroup]
}

func NewInMemoryClassGroupStore() *InMemoryClassGroupStore {
	return &InMemoryClassGroupStore{
		InMemoryStore: NewInMemoryStore[*classgroup.ClassGroup](),
	}
}

func copyClassGroup(g *classgroup.ClassGroup) *classgroup.ClassGroup {
	if g == nil {
		return nil
	}
	c := *g
	return &c
}

func visibleClassGroup(ctx context.Context, g *classgroup.ClassGroup) bool {
	return CheckTenantFilter(ctx, g.TenantID) && g.Status != types.StatusDeleted
}

func (s *InMemoryClassGroupStore) nameTaken(ctx context.Context, g *classgroup.ClassGroup) ConflictFunc[*classgroup.ClassGroup] {
	return func(existing *classgroup.ClassGroup) bool {
		return existing.ID != g.ID && visibleClassGroup(ctx, existing) && classgroup.SameName(existing.Name, g.Name)
	}
}

func (s *InMemoryClassGroupStore) Create(ctx context.Context, g *classgroup.ClassGroup) error {
	return s.InMemoryStore.CreateIf(ctx, g.ID, copyClassGroup(g), s.nameTaken(ctx, g))
}

func (s *InMemoryClassGroupStore) Get(ctx context.Context, id string) (*classgroup.ClassGroup, error) {
	g, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visibleClassGroup(ctx, g) {
		return nil, notFound(id)
	}
	return copyClassGroup(g), nil
}

func (s *InMemoryClassGroupStore) List(ctx context.Context) ([]*classgroup.ClassGroup, error) {
	groups, err := s.InMemoryStore.List(ctx, nil, func(ctx context.Context, g *classgroup.ClassGroup, _ interface{}) bool {
		return visibleClassGroup(ctx, g)
	}, func(i, j *classgroup.ClassGroup) bool {
		return strings.ToLower(i.Name) < strings.ToLower(j.Name)
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(groups, func(g *classgroup.ClassGroup, _ int) *classgroup.ClassGroup {
		return copyClassGroup(g)
	}), nil
}

func (s *InMemoryClassGroupStore) Update(ctx context.Context, g *classgroup.ClassGroup) error {
	if _, err := s.Get(ctx, g.ID); err != nil {
		return err
	}
	taken, err := s.InMemoryStore.Count(ctx, nil, func(_ context.Context, existing *classgroup.ClassGroup, _ interface{}) bool {
		return s.nameTaken(ctx, g)(existing)
	})
	if err != nil {
		return err
	}
	if taken > 0 {
		return alreadyExists(g.Name)
	}
	return s.InMemoryStore.Update(ctx, g.ID, copyClassGroup(g))
}

func (s *InMemoryClassGroupStore) Delete(ctx context.Context, id string) error {
	g, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	g.Status = types.StatusDeleted
	g.Touch(ctx)
	return s.InMemoryStore.Update(ctx, id, g)
}
