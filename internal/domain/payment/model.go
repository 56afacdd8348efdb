package payment

import (
	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/shopspring/decimal"
)

// Payment settles one billing period of one member. There is at most one payment per
// member and period key; recording again updates it.
type Payment struct {
	ID       string `db:"id" json:"id"`
	MemberID string `db:"member_id" json:"member_id"`

	types.PeriodKey

	Amount   decimal.Decimal     `db:"amount" json:"amount"`
	Currency string              `db:"currency" json:"currency"`
	Method   types.PaymentMethod `db:"method" json:"method"`
	PaidOn   types.ISODate       `db:"paid_on" json:"paid_on"`

	// Receipt is the operator supplied reference, ReceiptNumber the one we print.
	Receipt       string `db:"receipt" json:"receipt,omitempty"`
	ReceiptNumber string `db:"receipt_number" json:"receipt_number"`

	types.BaseModel
}
