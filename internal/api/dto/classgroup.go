package dto

import (
	"context"
	"strings"

	"github.com/dojocycle/dojocycle/internal/domain/classgroup"
	ierr "github.com/dojocycle/dojocycle/internal/errors"
	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/dojocycle/dojocycle/internal/validator"
)

type CreateClassGroupRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Color string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

func (r *CreateClassGroupRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return validateClassName(r.Name)
}

func (r *CreateClassGroupRequest) ToClassGroup(ctx context.Context) *classgroup.ClassGroup {
	color := r.Color
	if color == "" {
		color = classgroup.DefaultColor
	}
	return &classgroup.ClassGroup{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CLASS_GROUP),
		Name:      strings.TrimSpace(r.Name),
		Color:     color,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
}

type UpdateClassGroupRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Color *string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

func (r *UpdateClassGroupRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.Name != nil {
		return validateClassName(*r.Name)
	}
	return nil
}

type ClassGroupResponse struct {
	*classgroup.ClassGroup
}

type ListClassGroupsResponse = types.ListResponse[*ClassGroupResponse]

func validateClassName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ierr.NewError("class name is required").
			WithHint("The class name cannot be blank").
			Mark(ierr.ErrValidation)
	}
	return nil
}
