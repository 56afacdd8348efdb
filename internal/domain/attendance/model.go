package attendance

import (
	"github.com/dojocycle/dojocycle/internal/types"
)

// Attendance is the single check-in row of a member on a day. Dismissing hides it from
// today's list without deleting it.
type Attendance struct {
	ID        string        `db:"id" json:"id"`
	MemberID  string        `db:"member_id" json:"member_id"`
	Date      types.ISODate `db:"attended_on" json:"date"`
	Dismissed bool          `db:"dismissed" json:"dismissed"`

	types.BaseModel
}
