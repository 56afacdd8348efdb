package member

import (
	"strings"

	ierr "github.com/dojocycle/dojocycle/internal/errors"
	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/shopspring/decimal"
)

// Member is a student of the school, identified by national id (DNI).
type Member struct {
	ID string `db:"id" json:"id"`

	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	Phone     string `db:"phone" json:"phone"`
	Address   string `db:"address" json:"address"`

	// StartDate and PlanEndDate delimit the plan bought on the last enrollment or renewal.
	StartDate        types.ISODate  `db:"start_date" json:"start_date"`
	PlanEndDate      *types.ISODate `db:"plan_end_date" json:"plan_end_date,omitempty"`
	PlanTotalClasses int            `db:"plan_total_classes" json:"plan_total_classes"`

	IsTrial              bool            `db:"is_trial" json:"is_trial"`
	IsNewMember          bool            `db:"is_new_member" json:"is_new_member"`
	IsFamily             bool            `db:"is_family" json:"is_family"`
	ManualDiscountAmount decimal.Decimal `db:"manual_discount_amount" json:"manual_discount_amount"`
	PriceApplied         decimal.Decimal `db:"price_applied" json:"price_applied"`

	ClassGroupID *string `db:"class_group_id" json:"class_group_id,omitempty"`
	Active       bool    `db:"active" json:"active"`

	Metadata types.Metadata `db:"metadata" json:"metadata,omitempty"`

	types.BaseModel
}

func (m *Member) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

// InClass reports whether the member belongs to the given class group.
func (m *Member) InClass(classGroupID string) bool {
	return m.ClassGroupID != nil && *m.ClassGroupID == classGroupID
}

// ValidateID checks the DNI: digits only, 6 to 10 of them.
func ValidateID(id string) error {
	id = strings.TrimSpace(id)
	if len(id) < 6 || len(id) > 10 || strings.Trim(id, "0123456789") != "" {
		return ierr.NewError("invalid member id").
			WithHint("DNI must be 6 to 10 digits").
			WithReportableDetails(map[string]any{
				"id": id,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
