package billingperiod

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/dojocycle/dojocycle/internal/domain/cycle"
	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/shopspring/decimal"
)

// BillingPeriod is one billed month of one member. It is created lazily, never deleted,
// and only mutated to attach a payment or to refresh derived fields after a policy change.
type BillingPeriod struct {
	ID       string `db:"id" json:"id"`
	MemberID string `db:"member_id" json:"member_id"`

	types.PeriodKey

	StartDate      types.ISODate `db:"start_date" json:"start_date"`
	EndDate        types.ISODate `db:"end_date" json:"end_date"`
	TotalClassDays int           `db:"total_class_days" json:"total_class_days"`

	PriceBase  decimal.Decimal `db:"price_base" json:"price_base"`
	PriceFinal decimal.Decimal `db:"price_final" json:"price_final"`

	// Discounts is what the enrollment quote granted. It is informational; PriceFinal starts at PriceBase.
	Discounts Discounts `db:"discounts" json:"discounts"`

	PaymentID    *string            `db:"payment_id" json:"payment_id,omitempty"`
	ClassGroupID *string            `db:"class_group_id" json:"class_group_id,omitempty"`
	PeriodStatus types.PeriodStatus `db:"period_status" json:"period_status"`

	types.BaseModel
}

func (p *BillingPeriod) Bounds() cycle.PeriodBounds {
	return cycle.PeriodBounds{Start: p.StartDate, End: p.EndDate}
}

func (p *BillingPeriod) IsPaid() bool {
	return p.PeriodStatus == types.PeriodStatusPaid
}

// Discounts snapshots the pricing flags of the enrollment that opened a period.
type Discounts struct {
	IsTrial              bool            `json:"is_trial,omitempty"`
	IsNewMember          bool            `json:"is_new_member,omitempty"`
	IsFamily             bool            `json:"is_family,omitempty"`
	CouponCode           string          `json:"coupon_code,omitempty"`
	ManualDiscountAmount decimal.Decimal `json:"manual_discount_amount"`
	PriceApplied         decimal.Decimal `json:"price_applied"`
}

// Scan implements the sql.Scanner interface for the JSONB column
func (d *Discounts) Scan(value interface{}) error {
	if value == nil {
		*d = Discounts{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to unmarshal JSONB value: %v", value)
	}

	var result Discounts
	if err := json.Unmarshal(bytes, &result); err != nil {
		return err
	}
	*d = result
	return nil
}

// Value implements the driver.Valuer interface for the JSONB column
func (d Discounts) Value() (driver.Value, error) {
	return json.Marshal(d)
}
