package types

import (
	ierr "github.com/dojocycle/dojocycle/internal/errors"
	"github.com/samber/lo"
)

const (
	FILTER_DEFAULT_LIMIT = 50
	FILTER_MAX_LIMIT     = 1000

	OrderDesc = "desc"
	OrderAsc  = "asc"
)

// QueryFilter represents a generic query filter with optional fields
type QueryFilter struct {
	Limit  *int    `json:"limit,omitempty" form:"limit" validate:"omitempty,min=1,max=1000"`
	Offset *int    `json:"offset,omitempty" form:"offset" validate:"omitempty,min=0"`
	Status *Status `json:"status,omitempty" form:"status"`
	Sort   *string `json:"sort,omitempty" form:"sort"`
	Order  *string `json:"order,omitempty" form:"order" validate:"omitempty,oneof=asc desc"`
}

// NewDefaultQueryFilter defines default values for query filters
func NewDefaultQueryFilter() *QueryFilter {
	return &QueryFilter{
		Limit:  lo.ToPtr(FILTER_DEFAULT_LIMIT),
		Offset: lo.ToPtr(0),
		Status: lo.ToPtr(StatusActive),
		Sort:   lo.ToPtr("created_at"),
		Order:  lo.ToPtr(OrderDesc),
	}
}

// NewNoLimitQueryFilter returns a filter with no pagination limits
func NewNoLimitQueryFilter() *QueryFilter {
	f := NewDefaultQueryFilter()
	f.Limit = nil
	return f
}

// IsUnlimited returns true if this is an unlimited query
func (f QueryFilter) IsUnlimited() bool {
	return f.Limit == nil
}

func (f QueryFilter) GetLimit() int {
	if f.Limit == nil {
		return 0
	}
	return *f.Limit
}

func (f QueryFilter) GetOffset() int {
	return lo.FromPtrOr(f.Offset, 0)
}

func (f QueryFilter) GetSort() string {
	return lo.FromPtrOr(f.Sort, "created_at")
}

func (f QueryFilter) GetOrder() string {
	return lo.FromPtrOr(f.Order, OrderDesc)
}

func (f QueryFilter) GetStatus() string {
	return string(lo.FromPtrOr(f.Status, StatusActive))
}

// Validate validates the filter fields
func (f QueryFilter) Validate() error {
	if f.Limit != nil && (*f.Limit < 1 || *f.Limit > FILTER_MAX_LIMIT) {
		return ierr.NewError("limit must be between 1 and 1000").
			WithHint("Pick a page size between 1 and 1000").
			Mark(ierr.ErrValidation)
	}
	if f.Offset != nil && *f.Offset < 0 {
		return ierr.NewError("offset must be non-negative").
			WithHint("Offset cannot be negative").
			Mark(ierr.ErrValidation)
	}
	if f.Order != nil && *f.Order != OrderAsc && *f.Order != OrderDesc {
		return ierr.NewError("order must be either 'asc' or 'desc'").
			WithHint("Order must be asc or desc").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// MemberFilter narrows member listings.
type MemberFilter struct {
	*QueryFilter
	// Search matches first name, last name or member id, case-insensitively.
	Search       string          `json:"search,omitempty" form:"search"`
	ClassGroupID string          `json:"class_group_id,omitempty" form:"class_group_id"`
	State        MembershipState `json:"state,omitempty" form:"state"`
	ActiveOnly   bool            `json:"active_only,omitempty" form:"active_only"`
}

func NewMemberFilter() *MemberFilter {
	return &MemberFilter{QueryFilter: NewDefaultQueryFilter()}
}

func (f *MemberFilter) Validate() error {
	if f.QueryFilter != nil {
		if err := f.QueryFilter.Validate(); err != nil {
			return err
		}
	}
	if f.State != "" {
		return f.State.Validate()
	}
	return nil
}
