package service

import (
	"testing"

	"github.com/dojocycle/dojocycle/internal/api/dto"
	ierr "github.com/dojocycle/dojocycle/internal/errors"
	"github.com/dojocycle/dojocycle/internal/testutil"
	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type CheckInServiceSuite struct {
	testutil.BaseServiceTestSuite
	service CheckInService
}

func TestCheckInService(t *testing.T) {
	suite.Run(t, new(CheckInServiceSuite))
}

func (s *CheckInServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewCheckInService(newTestServiceParams(&s.BaseServiceTestSuite))
}

func (s *CheckInServiceSuite) TestAdmission() {
	ctx := s.GetContext()
	s.CreateTestMember("30000001", date("2025-03-01"), date("2025-04-01"))
	s.CreateTestMember("30000002", date("2025-02-01"), date("2025-03-18"))
	s.CreateTestMember("30000003", date("2025-01-01"), date("2025-02-01"))
	s.CreateTestMember("30000004", date("2025-01-01"), "")
	today := date("2025-03-20")

	tests := []struct {
		name        string
		memberID    string
		wantAllowed bool
		wantNotice  types.StatusNotice
	}{
		{name: "current_member", memberID: "30000001", wantAllowed: true, wantNotice: types.StatusNoticeGreen},
		{name: "due_soon_member", memberID: "30000002", wantAllowed: true, wantNotice: types.StatusNoticeYellow},
		{name: "lapsed_member", memberID: "30000003", wantAllowed: false, wantNotice: types.StatusNoticeRed},
		{name: "member_without_plan", memberID: "30000004", wantAllowed: false, wantNotice: types.StatusNoticeRed},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			decision, err := s.service.CheckIn(ctx, dto.CheckInRequest{MemberID: tt.memberID}, today)
			s.Require().NoError(err)
			s.Equal(tt.wantAllowed, decision.Allowed)
			s.Equal(tt.wantNotice, decision.Notice)
			s.NotEmpty(decision.Message)

			_, err = s.GetStores().AttendanceRepo.GetByMemberDate(ctx, tt.memberID, today)
			if tt.wantAllowed {
				s.NoError(err)
				s.NotNil(decision.Attendance)
			} else {
				s.True(ierr.IsNotFound(err))
				s.Nil(decision.Attendance)
			}
		})
	}

	s.Len(s.GetPublisher().EventsNamed(types.EventCheckinDenied), 2)
}

func (s *CheckInServiceSuite) TestGraceAdmits() {
	ctx := s.GetContext()
	s.GetConfig().Billing.GraceDaysAfterDue = 3
	defer func() { s.GetConfig().Billing.GraceDaysAfterDue = 0 }()
	s.CreateTestMember("30000001", date("2025-02-01"), date("2025-03-10"))

	decision, err := s.service.CheckIn(ctx, dto.CheckInRequest{MemberID: "30000001"}, date("2025-03-17"))
	s.Require().NoError(err)
	s.True(decision.Allowed)
	s.True(decision.Status.InGrace)
	s.Equal(types.StatusNoticeGrace, decision.Notice)
}

func (s *CheckInServiceSuite) TestRepeatAndReinstate() {
	ctx := s.GetContext()
	m := s.CreateTestMember("30000001", date("2025-03-01"), date("2025-04-01"))
	today := date("2025-03-20")

	first, err := s.service.CheckIn(ctx, dto.CheckInRequest{MemberID: m.ID}, today)
	s.Require().NoError(err)
	s.False(first.Repeated)
	s.False(first.Reinstated)

	second, err := s.service.CheckIn(ctx, dto.CheckInRequest{MemberID: m.ID}, today)
	s.Require().NoError(err)
	s.True(second.Repeated)
	s.Equal(first.Attendance.ID, second.Attendance.ID)

	dismissed, err := s.service.Dismiss(ctx, m.ID, today)
	s.Require().NoError(err)
	s.True(dismissed)

	again, err := s.service.Dismiss(ctx, m.ID, today)
	s.Require().NoError(err)
	s.False(again)

	third, err := s.service.CheckIn(ctx, dto.CheckInRequest{MemberID: m.ID}, today)
	s.Require().NoError(err)
	s.True(third.Reinstated)
	s.False(third.Repeated)
	s.Equal(first.Attendance.ID, third.Attendance.ID)

	count, err := s.GetStores().AttendanceRepo.CountByMember(ctx, m.ID)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *CheckInServiceSuite) TestCheckInErrors() {
	ctx := s.GetContext()
	m := s.CreateTestMember("30000001", date("2025-03-01"), date("2025-04-01"))
	m.Active = false
	s.Require().NoError(s.GetStores().MemberRepo.Update(ctx, m))

	_, err := s.service.CheckIn(ctx, dto.CheckInRequest{MemberID: m.ID}, date("2025-03-20"))
	s.True(ierr.IsInvalidOperation(err))

	_, err = s.service.CheckIn(ctx, dto.CheckInRequest{MemberID: "99999999"}, date("2025-03-20"))
	s.True(ierr.IsNotFound(err))

	_, err = s.service.CheckIn(ctx, dto.CheckInRequest{}, date("2025-03-20"))
	s.True(ierr.IsValidation(err))
}

func (s *CheckInServiceSuite) TestOtherClass() {
	ctx := s.GetContext()
	m := s.CreateTestMember("30000001", date("2025-03-01"), date("2025-04-01"))
	m.ClassGroupID = lo.ToPtr("cls_kids")
	s.Require().NoError(s.GetStores().MemberRepo.Update(ctx, m))

	decision, err := s.service.CheckIn(ctx, dto.CheckInRequest{MemberID: m.ID, ActiveClassID: "cls_adults"}, date("2025-03-20"))
	s.Require().NoError(err)
	s.True(decision.OtherClass)

	decision, err = s.service.CheckIn(ctx, dto.CheckInRequest{MemberID: m.ID, ActiveClassID: "cls_kids"}, date("2025-03-20"))
	s.Require().NoError(err)
	s.False(decision.OtherClass)
}

func (s *CheckInServiceSuite) TestTodayListAndDismissals() {
	ctx := s.GetContext()
	today := date("2025-03-20")
	setClass := func(id, class string) {
		m := s.CreateTestMember(id, date("2025-03-01"), date("2025-04-01"))
		m.ClassGroupID = lo.ToPtr(class)
		s.Require().NoError(s.GetStores().MemberRepo.Update(ctx, m))
		_, err := s.service.CheckIn(ctx, dto.CheckInRequest{MemberID: id}, today)
		s.Require().NoError(err)
	}
	setClass("30000003", "cls_kids")
	setClass("30000001", "cls_kids")
	setClass("30000002", "cls_adults")

	list, err := s.service.ListToday(ctx, today)
	s.Require().NoError(err)
	ids := lo.Map(list.Items, func(a *dto.TodayAttendance, _ int) string { return a.Member.ID })
	s.Equal([]string{"30000001", "30000002", "30000003"}, ids)

	kids, err := s.service.CountTodayByClass(ctx, "cls_kids", today)
	s.Require().NoError(err)
	s.Equal(2, kids.Count)

	n, err := s.service.DismissByClass(ctx, "cls_kids", today)
	s.Require().NoError(err)
	s.Equal(2, n)

	kids, err = s.service.CountTodayByClass(ctx, "cls_kids", today)
	s.Require().NoError(err)
	s.Zero(kids.Count)

	n, err = s.service.DismissAll(ctx, today)
	s.Require().NoError(err)
	s.Equal(1, n)

	list, err = s.service.ListToday(ctx, today)
	s.Require().NoError(err)
	s.Empty(list.Items)

	other, err := s.service.ListToday(ctx, date("2025-03-21"))
	s.Require().NoError(err)
	s.Empty(other.Items)
}
