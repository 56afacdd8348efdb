package service

import (
	"context"
	"strings"

	"github.com/dojocycle/dojocycle/internal/api/dto"
	"github.com/dojocycle/dojocycle/internal/cache"
	"github.com/dojocycle/dojocycle/internal/domain/classgroup"
	ierr "github.com/dojocycle/dojocycle/internal/errors"
	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/samber/lo"
)

type ClassGroupService interface {
	CreateClassGroup(ctx context.Context, req dto.CreateClassGroupRequest) (*dto.ClassGroupResponse, error)
	GetClassGroup(ctx context.Context, id string) (*dto.ClassGroupResponse, error)
	ListClassGroups(ctx context.Context) (*dto.ListClassGroupsResponse, error)
	UpdateClassGroup(ctx context.Context, id string, req dto.UpdateClassGroupRequest) (*dto.ClassGroupResponse, error)
	DeleteClassGroup(ctx context.Context, id string) error
}

type classGroupService struct {
	ServiceParams
}

func NewClassGroupService(params ServiceParams) ClassGroupService {
	return &classGroupService{
		ServiceParams: params,
	}
}

func (s *classGroupService) CreateClassGroup(ctx context.Context, req dto.CreateClassGroupRequest) (*dto.ClassGroupResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	group := req.ToClassGroup(ctx)
	if err := s.ClassGroupRepo.Create(ctx, group); err != nil {
		return nil, duplicateClassName(err, group.Name)
	}

	s.invalidateClassGroups(ctx)
	s.Logger.Infow("class group created", "class_group_id", group.ID, "name", group.Name)
	return &dto.ClassGroupResponse{ClassGroup: group}, nil
}

func (s *classGroupService) GetClassGroup(ctx context.Context, id string) (*dto.ClassGroupResponse, error) {
	group, err := s.ClassGroupRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.ClassGroupResponse{ClassGroup: group}, nil
}

// ListClassGroups is served from the cache; the front desk reads it on every screen.
func (s *classGroupService) ListClassGroups(ctx context.Context) (*dto.ListClassGroupsResponse, error) {
	key := cache.GenerateKey(cache.PrefixClassGroup, types.GetTenantID(ctx))
	if cached, ok := s.Cache.Get(ctx, key); ok {
		if groups, ok := cached.([]*classgroup.ClassGroup); ok {
			return s.toListResponse(groups), nil
		}
	}

	groups, err := s.ClassGroupRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	s.Cache.Set(ctx, key, groups, 0)
	return s.toListResponse(groups), nil
}

func (s *classGroupService) UpdateClassGroup(ctx context.Context, id string, req dto.UpdateClassGroupRequest) (*dto.ClassGroupResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	group, err := s.ClassGroupRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		group.Name = strings.TrimSpace(*req.Name)
	}
	if req.Color != nil {
		group.Color = *req.Color
		if group.Color == "" {
			group.Color = classgroup.DefaultColor
		}
	}
	group.Touch(ctx)

	if err := s.ClassGroupRepo.Update(ctx, group); err != nil {
		return nil, duplicateClassName(err, group.Name)
	}

	s.invalidateClassGroups(ctx)
	s.Logger.Infow("class group updated", "class_group_id", group.ID, "name", group.Name)
	return &dto.ClassGroupResponse{ClassGroup: group}, nil
}

func (s *classGroupService) DeleteClassGroup(ctx context.Context, id string) error {
	if err := s.ClassGroupRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateClassGroups(ctx)
	s.Logger.Infow("class group deleted", "class_group_id", id)
	return nil
}

func (s *classGroupService) invalidateClassGroups(ctx context.Context) {
	s.Cache.Delete(ctx, cache.GenerateKey(cache.PrefixClassGroup, types.GetTenantID(ctx)))
}

func (s *classGroupService) toListResponse(groups []*classgroup.ClassGroup) *dto.ListClassGroupsResponse {
	items := lo.Map(groups, func(g *classgroup.ClassGroup, _ int) *dto.ClassGroupResponse {
		return &dto.ClassGroupResponse{ClassGroup: g}
	})
	resp := types.NewListResponse(items, len(items), 0, 0)
	return &resp
}

func duplicateClassName(err error, name string) error {
	if !ierr.IsAlreadyExists(err) {
		return err
	}
	return ierr.WithError(err).
		WithHintf("A class named %q already exists", name).
		WithReportableDetails(map[string]any{
			"name": name,
		}).
		Mark(ierr.ErrAlreadyExists)
}
