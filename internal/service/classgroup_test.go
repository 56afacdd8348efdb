package service

import (
	"testing"

	"github.com/dojocycle/dojocycle/internal/api/dto"
	"github.com/dojocycle/dojocycle/internal/domain/classgroup"
	ierr "github.com/dojocycle/dojocycle/internal/errors"
	"github.com/dojocycle/dojocycle/internal/testutil"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type ClassGroupServiceSuite struct {
	testutil.BaseServiceTestSuite
	service ClassGroupService
}

func TestClassGroupService(t *testing.T) {
	suite.Run(t, new(ClassGroupServiceSuite))
}

func (s *ClassGroupServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewClassGroupService(newTestServiceParams(&s.BaseServiceTestSuite))
}

func (s *ClassGroupServiceSuite) TestCreateClassGroup() {
	tests := []struct {
		name      string
		req       dto.CreateClassGroupRequest
		wantColor string
		checkErr  func(error) bool
	}{
		{
			name:      "default_color",
			req:       dto.CreateClassGroupRequest{Name: "  Infantiles "},
			wantColor: classgroup.DefaultColor,
		},
		{
			name:      "custom_color",
			req:       dto.CreateClassGroupRequest{Name: "Adultos", Color: "#ff0000"},
			wantColor: "#ff0000",
		},
		{
			name:     "duplicate_name_ignores_case",
			req:      dto.CreateClassGroupRequest{Name: "ADULTOS"},
			checkErr: ierr.IsAlreadyExists,
		},
		{
			name:     "blank_name",
			req:      dto.CreateClassGroupRequest{Name: "   "},
			checkErr: ierr.IsValidation,
		},
		{
			name:     "invalid_color",
			req:      dto.CreateClassGroupRequest{Name: "Avanzados", Color: "red"},
			checkErr: ierr.IsValidation,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			resp, err := s.service.CreateClassGroup(s.GetContext(), tt.req)
			if tt.checkErr != nil {
				s.Require().Error(err)
				s.True(tt.checkErr(err), "unexpected error: %v", err)
				return
			}
			s.Require().NoError(err)
			s.Equal(tt.wantColor, resp.Color)
			s.NotEmpty(resp.ID)
		})
	}
}

func (s *ClassGroupServiceSuite) TestListUpdateDelete() {
	ctx := s.GetContext()
	kids, err := s.service.CreateClassGroup(ctx, dto.CreateClassGroupRequest{Name: "Infantiles"})
	s.Require().NoError(err)
	adults, err := s.service.CreateClassGroup(ctx, dto.CreateClassGroupRequest{Name: "Adultos"})
	s.Require().NoError(err)

	list, err := s.service.ListClassGroups(ctx)
	s.Require().NoError(err)
	names := lo.Map(list.Items, func(g *dto.ClassGroupResponse, _ int) string { return g.Name })
	s.Equal([]string{"Adultos", "Infantiles"}, names)

	_, err = s.service.UpdateClassGroup(ctx, kids.ID, dto.UpdateClassGroupRequest{Name: lo.ToPtr("adultos")})
	s.True(ierr.IsAlreadyExists(err))

	updated, err := s.service.UpdateClassGroup(ctx, kids.ID, dto.UpdateClassGroupRequest{
		Name:  lo.ToPtr("Kids"),
		Color: lo.ToPtr("#00ff00"),
	})
	s.Require().NoError(err)
	s.Equal("Kids", updated.Name)
	s.Equal("#00ff00", updated.Color)

	list, err = s.service.ListClassGroups(ctx)
	s.Require().NoError(err)
	names = lo.Map(list.Items, func(g *dto.ClassGroupResponse, _ int) string { return g.Name })
	s.Equal([]string{"Adultos", "Kids"}, names)

	s.Require().NoError(s.service.DeleteClassGroup(ctx, adults.ID))
	_, err = s.service.GetClassGroup(ctx, adults.ID)
	s.True(ierr.IsNotFound(err))
	s.True(ierr.IsNotFound(s.service.DeleteClassGroup(ctx, adults.ID)))

	// a deleted name can be reused
	_, err = s.service.CreateClassGroup(ctx, dto.CreateClassGroupRequest{Name: "Adultos"})
	s.NoError(err)

	list, err = s.service.ListClassGroups(ctx)
	s.Require().NoError(err)
	s.Len(list.Items, 2)
}
