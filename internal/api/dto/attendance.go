package dto

import (
	"github.com/dojocycle/dojocycle/internal/domain/attendance"
	"github.com/dojocycle/dojocycle/internal/domain/cycle"
	"github.com/dojocycle/dojocycle/internal/domain/member"
	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/dojocycle/dojocycle/internal/validator"
)

type CheckInRequest struct {
	MemberID string `json:"member_id" validate:"required"`
	// ActiveClassID is the class being taught at the desk; it only flags members of other classes.
	ActiveClassID string `json:"active_class_id,omitempty"`
}

func (r *CheckInRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// AdmissionDecision tells the front desk whether to let a member in and why.
type AdmissionDecision struct {
	Allowed bool                   `json:"allowed"`
	Status  cycle.MembershipStatus `json:"status"`
	Notice  types.StatusNotice     `json:"notice"`
	Message string                 `json:"message"`

	Member     *member.Member         `json:"member"`
	Attendance *attendance.Attendance `json:"attendance,omitempty"`
	// Repeated is a second check-in on the same day, Reinstated a dismissed row shown again.
	Repeated   bool `json:"repeated"`
	Reinstated bool `json:"reinstated"`
	// OtherClass is set when the member belongs to a class other than the active one.
	OtherClass bool `json:"other_class"`
}

// DismissRequest hides attendances from today's list. With MemberID set only that member's
// row is hidden, with ClassGroupID the rows of that class, otherwise every row of the day.
type DismissRequest struct {
	MemberID     string `json:"member_id,omitempty"`
	ClassGroupID string `json:"class_group_id,omitempty"`
}

func (r *DismissRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type DismissResponse struct {
	Dismissed int `json:"dismissed"`
}

// TodayAttendance is a visible row of today's list with the member it belongs to.
type TodayAttendance struct {
	*attendance.Attendance
	Member *member.Member `json:"member"`
}

type ListTodayResponse = types.ListResponse[*TodayAttendance]

type CountResponse struct {
	ClassGroupID string `json:"class_group_id"`
	Count        int    `json:"count"`
}
